package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/stardust-engine/shaderbuild/pkg/config"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var schemaLog = logger.New("cli:schema")

// NewSchemaCommand creates the schema command
func NewSchemaCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [config|report|list]",
		Short: "Print a JSON schema for the configuration file or the JSON output",
		Long: `Print a JSON schema.

  config   The schema ` + constants.DefaultConfigFile + ` is validated against (default)
  report   The report printed by 'compile --json'
  list     The items printed by 'list --json'

Examples:
  ` + constants.CLIName + ` schema > shaderbuild.schema.json
  ` + constants.CLIName + ` schema report`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"config", "report", "list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "config"
			if len(args) > 0 {
				kind = args[0]
			}
			return RunSchema(cmd.OutOrStdout(), kind)
		},
	}
	return cmd
}

// RunSchema writes the schema named by kind to w.
func RunSchema(w io.Writer, kind string) error {
	schemaLog.Printf("Printing schema: %s", kind)

	var data []byte
	var err error
	switch kind {
	case "config":
		data, err = config.MarshalSchemaIndent()
	case "report":
		data, err = marshalGeneratedSchema[shader.BuildReport]()
	case "list":
		data, err = marshalGeneratedSchema[[]ShaderListItem]()
	default:
		return fmt.Errorf("unknown schema %q: expected config, report or list", kind)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func marshalGeneratedSchema[T any]() ([]byte, error) {
	schema, err := GenerateOutputSchema[T]()
	if err != nil {
		return nil, fmt.Errorf("failed to generate schema: %w", err)
	}
	return json.MarshalIndent(schema, "", "  ")
}
