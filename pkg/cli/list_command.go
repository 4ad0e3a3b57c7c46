package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stardust-engine/shaderbuild/pkg/config"
	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var listLog = logger.New("cli:list")

// Artifact states reported by list.
const (
	CompiledYes      = "yes"
	CompiledOutdated = "outdated"
	CompiledMissing  = "missing"
)

// ShaderListItem represents a single shader for list output
type ShaderListItem struct {
	Shader   string `json:"shader" jsonschema:"Source path of the shader"`
	Stage    string `json:"stage" jsonschema:"Shader stage derived from the file extension"`
	Language string `json:"language" jsonschema:"Source language"`
	Output   string `json:"output" jsonschema:"Path of the artifact the shader compiles to"`
	Compiled string `json:"compiled" jsonschema:"Whether the artifact is up to date: yes or outdated or missing"`
}

// ListConfig holds the options of the list command.
type ListConfig struct {
	ConfigPath     string
	ConfigExplicit bool
	Pattern        string
	JSONOutput     bool
	Verbose        bool
	Stdout         io.Writer
}

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [pattern]",
		Short: "List the shaders that would be compiled",
		Long: `List every shader found in the configured source directories together with its
stage, language, artifact path and whether the artifact is up to date.

The optional pattern argument filters shaders by file name (case-insensitive substring match).

Examples:
  ` + constants.CLIName + ` list               # List all shaders
  ` + constants.CLIName + ` list sky           # List shaders with 'sky' in their name
  ` + constants.CLIName + ` list --json        # Output in JSON format`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) > 0 {
				pattern = args[0]
			}
			configPath, _ := cmd.Flags().GetString("config")
			verbose, _ := cmd.Flags().GetBool("verbose")
			jsonFlag, _ := cmd.Flags().GetBool("json")
			return RunList(ListConfig{
				ConfigPath:     configPath,
				ConfigExplicit: cmd.Flags().Changed("config"),
				Pattern:        pattern,
				JSONOutput:     jsonFlag,
				Verbose:        verbose,
				Stdout:         cmd.OutOrStdout(),
			})
		},
	}

	addJSONFlag(cmd)
	cmd.ValidArgsFunction = CompleteShaderNames
	return cmd
}

// RunList prints the planned shaders as a table or as JSON.
func RunList(cfg ListConfig) error {
	listLog.Printf("Listing shaders: pattern=%s, json=%v", cfg.Pattern, cfg.JSONOutput)
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}

	fileCfg, err := config.Load(cfg.ConfigPath, cfg.ConfigExplicit)
	if err != nil {
		return err
	}
	if fileCfg.Path != "" && !cfg.JSONOutput {
		console.LogVerbose(cfg.Verbose, fmt.Sprintf("Using configuration %s", console.ToRelativePath(fileCfg.Path)))
	}
	opts, err := fileCfg.ShaderOptions(runtime.GOOS)
	if err != nil {
		return err
	}

	items, err := listShaders(opts, cfg.Pattern)
	if err != nil {
		return err
	}

	if cfg.JSONOutput {
		jsonBytes, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(cfg.Stdout, string(jsonBytes))
		return nil
	}

	if len(items) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage("No shaders found."))
		return nil
	}
	if len(items) == 1 {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage("Found 1 shader"))
	} else {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Found %d shaders", len(items))))
	}

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{item.Shader, item.Stage, item.Language, item.Compiled})
	}
	fmt.Fprint(cfg.Stdout, console.RenderTable(console.TableConfig{
		Headers: []string{"SHADER", "STAGE", "LANGUAGE", "COMPILED"},
		Rows:    rows,
	}))
	return nil
}

// listShaders plans the build and reports the state of each artifact. The
// result is never nil.
func listShaders(opts shader.Options, pattern string) ([]ShaderListItem, error) {
	jobs, err := shader.Plan(opts)
	if err != nil {
		return nil, err
	}

	items := make([]ShaderListItem, 0, len(jobs))
	for _, job := range jobs {
		if pattern != "" && !strings.Contains(strings.ToLower(job.Shader.Name), strings.ToLower(pattern)) {
			continue
		}
		items = append(items, ShaderListItem{
			Shader:   job.Shader.String(),
			Stage:    job.Shader.Stage.String(),
			Language: job.Shader.Language.String(),
			Output:   job.OutputPath,
			Compiled: artifactState(job),
		})
	}
	listLog.Printf("Listed %d of %d shaders", len(items), len(jobs))
	return items, nil
}

// artifactState compares modification times of source and artifact.
func artifactState(job shader.CompileJob) string {
	out, err := os.Stat(job.OutputPath)
	if err != nil {
		return CompiledMissing
	}
	src, err := os.Stat(job.Shader.Path())
	if err != nil || src.ModTime().After(out.ModTime()) {
		return CompiledOutdated
	}
	return CompiledYes
}
