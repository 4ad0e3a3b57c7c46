package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/stardust-engine/shaderbuild/pkg/cli"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"go.uber.org/automaxprocs/maxprocs"
)

// Build-time variables.
var (
	version = "dev"
)

var mainLog = logger.New("main")

var rootCmd = &cobra.Command{
	Use:     constants.CLIName,
	Short:   "Compile Vulkan shaders to SPIR-V in parallel",
	Version: version,
	Long: constants.CLIName + ` compiles every shader source in the configured directories to SPIR-V
by running the shader compiler once per file, in parallel, and optionally copies
the artifacts next to the engine executable.

Running ` + constants.CLIName + ` without a command compiles. Settings are read from
` + constants.DefaultConfigFile + ` in the working directory when it exists.

Common Tasks:
  ` + constants.CLIName + `                     # Compile all shaders
  ` + constants.CLIName + ` list                # Show shaders and artifact state
  ` + constants.CLIName + ` compile --watch     # Recompile on change
  ` + constants.CLIName + ` schema              # Print the configuration schema`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          cli.RunCompileCommand,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show " + constants.CLIName + " version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", constants.CLIName, cli.GetVersion())
		return nil
	},
}

var compileCmd = cli.NewCompileCommand()

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", constants.DefaultConfigFile, "Path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cli.AddCompileFlags(rootCmd)

	rootCmd.SetVersionTemplate(fmt.Sprintf("%s version {{.Version}}\n", constants.CLIName))

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(cli.NewListCommand())
	rootCmd.AddCommand(cli.NewSchemaCommand())
	rootCmd.AddCommand(cli.NewMCPServerCommand())
	rootCmd.AddCommand(cli.NewCompletionCommand())
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if _, err := maxprocs.Set(maxprocs.Logger(mainLog.Printf)); err != nil {
		mainLog.Printf("Failed to set GOMAXPROCS: %v", err)
	}

	cli.SetVersionInfo(version)
	rootCmd.Version = version

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatCommandError(err))
		stop()
		os.Exit(1)
	}
}
