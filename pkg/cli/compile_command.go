package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
	"github.com/stardust-engine/shaderbuild/pkg/config"
	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var compileLog = logger.New("cli:compile")

// CompileConfig holds the options of one compile invocation. Zero values
// mean "use the configuration file".
type CompileConfig struct {
	ConfigPath     string
	ConfigExplicit bool

	OutputDir string
	CopyDir   string
	TargetEnv string
	Workers   int
	Timeout   time.Duration
	// Retries overrides the file value when zero or more.
	Retries int

	DryRun     bool
	JSONOutput bool
	Stats      bool
	Purge      bool
	Watch      bool
	Repeat     int
	Verbose    bool

	// Stdout receives compiler lines and JSON reports. Defaults to os.Stdout.
	Stdout io.Writer
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile every shader in the configured source directories",
		Long: `Compile every shader in the configured source directories to SPIR-V.

Each recognized source file (.vert, .frag, .geom, .comp and, where ray tracing
is enabled, .rgen, .rchit, .rmiss) is compiled with one compiler invocation into
<output_dir>/<file>.spv. Shaders compile in parallel; a failing shader does not
stop the others. Compiler output is printed line by line, tagged with the
shader it belongs to.

Running ` + constants.CLIName + ` without a command is the same as running compile.

Examples:
  ` + constants.CLIName + `                              # Compile with shaderbuild.yml or defaults
  ` + constants.CLIName + ` compile --out build/shaders  # Override the output directory
  ` + constants.CLIName + ` compile --copy-to ../../cmake-build-debug
  ` + constants.CLIName + ` compile --dry-run            # Show the compiler invocations only
  ` + constants.CLIName + ` compile --json               # Print a machine-readable report
  ` + constants.CLIName + ` compile --watch              # Recompile when sources change`,
		Args: cobra.NoArgs,
		RunE: RunCompileCommand,
	}
	AddCompileFlags(cmd)
	return cmd
}

// AddCompileFlags registers the compile flags on cmd. The root command
// carries them too so that running the tool bare accepts them.
func AddCompileFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("out", "o", "", "Output directory for .spv artifacts (overrides output_dir)")
	cmd.Flags().String("copy-to", "", "Copy artifacts to this directory after compiling (overrides copy_dir)")
	cmd.Flags().String("target-env", "", "Target environment passed to the compiler, e.g. vulkan1.3")
	cmd.Flags().IntP("workers", "j", 0, "Number of shaders compiled in parallel (default: number of CPUs)")
	cmd.Flags().Duration("timeout", 0, "Per-shader compiler timeout, e.g. 30s")
	cmd.Flags().Int("retries", -1, "Retries after a timeout or a failure to start the compiler")
	cmd.Flags().Bool("dry-run", false, "Print the compiler invocations without running them")
	cmd.Flags().Bool("stats", false, "Display artifact statistics after compiling")
	cmd.Flags().Bool("purge", false, "Delete .spv files in the output directory that no shader produces")
	cmd.Flags().BoolP("watch", "w", false, "Watch source directories and recompile on changes")
	cmd.Flags().Int("repeat", 0, "Repeat the build this many more times")
	addJSONFlag(cmd)
}

// RunCompileCommand is the RunE of the compile command and of the root
// command.
func RunCompileCommand(cmd *cobra.Command, _ []string) error {
	cfg := compileConfigFromFlags(cmd)
	compileLog.Printf("Compile requested: config=%s, dry_run=%v, watch=%v, repeat=%d", cfg.ConfigPath, cfg.DryRun, cfg.Watch, cfg.Repeat)
	return RunCompile(cmd.Context(), cfg)
}

func compileConfigFromFlags(cmd *cobra.Command) CompileConfig {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	verbose, _ := flags.GetBool("verbose")
	out, _ := flags.GetString("out")
	copyTo, _ := flags.GetString("copy-to")
	targetEnv, _ := flags.GetString("target-env")
	workers, _ := flags.GetInt("workers")
	timeout, _ := flags.GetDuration("timeout")
	retries, _ := flags.GetInt("retries")
	dryRun, _ := flags.GetBool("dry-run")
	jsonOutput, _ := flags.GetBool("json")
	stats, _ := flags.GetBool("stats")
	purge, _ := flags.GetBool("purge")
	watch, _ := flags.GetBool("watch")
	repeat, _ := flags.GetInt("repeat")

	return CompileConfig{
		ConfigPath:     configPath,
		ConfigExplicit: flags.Changed("config"),
		OutputDir:      out,
		CopyDir:        copyTo,
		TargetEnv:      targetEnv,
		Workers:        workers,
		Timeout:        timeout,
		Retries:        retries,
		DryRun:         dryRun,
		JSONOutput:     jsonOutput,
		Stats:          stats,
		Purge:          purge,
		Watch:          watch,
		Repeat:         repeat,
		Verbose:        verbose,
		Stdout:         cmd.OutOrStdout(),
	}
}

// loadBuildOptions reads the configuration file and applies the command-line
// overrides.
func loadBuildOptions(cfg CompileConfig) (*config.Config, shader.Options, error) {
	fileCfg, err := config.Load(cfg.ConfigPath, cfg.ConfigExplicit)
	if err != nil {
		return nil, shader.Options{}, err
	}

	opts, err := fileCfg.ShaderOptions(runtime.GOOS)
	if err != nil {
		return nil, shader.Options{}, err
	}
	if cfg.OutputDir != "" {
		opts.OutputDir = cfg.OutputDir
	}
	if cfg.CopyDir != "" {
		opts.CopyDir = cfg.CopyDir
	}
	if cfg.TargetEnv != "" {
		opts.Command.TargetEnv = cfg.TargetEnv
	}
	if cfg.Workers > 0 {
		opts.Workers = cfg.Workers
	}
	if cfg.Timeout > 0 {
		opts.Exec.Timeout = cfg.Timeout
	}
	if cfg.Retries >= 0 {
		opts.Exec.Retries = cfg.Retries
	}
	opts.DryRun = cfg.DryRun

	compileLog.Printf("Build options: %d sources, out=%s, copy=%s, workers=%d", len(opts.Sources), opts.OutputDir, opts.CopyDir, opts.Workers)
	return fileCfg, opts, nil
}

// RunCompile compiles once, repeatedly, or in watch mode depending on cfg.
func RunCompile(ctx context.Context, cfg CompileConfig) error {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if ctx == nil {
		ctx = context.Background()
	}

	fileCfg, opts, err := loadBuildOptions(cfg)
	if err != nil {
		return err
	}
	cfg.Verbose = cfg.Verbose || fileCfg.Verbose
	if fileCfg.Path != "" {
		console.LogVerbose(cfg.Verbose, fmt.Sprintf("Using configuration %s", console.ToRelativePath(fileCfg.Path)))
	}

	if cfg.Watch {
		return watchAndCompileShaders(ctx, cfg, fileCfg.Path)
	}

	var last *shader.BuildSummary
	var baseline map[string]bool
	err = ExecuteWithRepeat(ctx, RepeatOptions{
		RepeatCount: cfg.Repeat,
		ExecuteFunc: func(iteration int) error {
			summary, err := compileOnce(ctx, cfg, opts)
			if err != nil {
				return err
			}
			last = summary
			outcome := outcomeSet(summary)
			if baseline == nil {
				baseline = outcome
			} else if !sameOutcome(baseline, outcome) {
				fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
					fmt.Sprintf("Run %d produced a different result set than the first run", iteration+1)))
			}
			return nil
		},
	})
	if err != nil {
		return err
	}
	return buildError(last)
}

// compileOnce runs one build and reports it.
func compileOnce(ctx context.Context, cfg CompileConfig, opts shader.Options) (*shader.BuildSummary, error) {
	lines := cfg.Stdout
	if cfg.JSONOutput {
		// stdout is reserved for the report.
		lines = os.Stderr
	}
	sink := newConsoleSink(lines)

	if !cfg.JSONOutput {
		fmt.Fprintln(os.Stderr, console.FormatProgressMessage(fmt.Sprintf("Compiling shaders into %s", console.ToRelativePath(opts.OutputDir))))
	}

	summary, err := shader.Run(ctx, opts, sink)
	if err != nil {
		compileLog.Printf("Build aborted: %v", err)
		return nil, err
	}

	if cfg.Purge && !cfg.DryRun {
		if err := purgeOrphanedArtifacts(opts.OutputDir, summary.Jobs, cfg.Verbose); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(err.Error()))
		}
	}

	if cfg.JSONOutput {
		report := summary.Report()
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to marshal report: %w", err)
		}
		fmt.Fprintln(cfg.Stdout, string(data))
	} else {
		printCompilationSummary(summary, opts, cfg.Verbose)
	}

	if cfg.Stats && !cfg.DryRun {
		displayStatsTable(collectArtifactStats(summary.Artifacts))
	}
	return summary, nil
}

// buildError turns a summary with failures into the error that makes the
// process exit non-zero.
func buildError(summary *shader.BuildSummary) error {
	if summary == nil || summary.OK() {
		return nil
	}
	return fmt.Errorf("%d of %d shaders failed to compile", len(summary.Failed), summary.Total)
}

// outcomeSet maps each shader to whether it compiled.
func outcomeSet(summary *shader.BuildSummary) map[string]bool {
	set := make(map[string]bool, summary.Total)
	for _, res := range summary.Results {
		set[res.Job.Shader.String()] = res.Succeeded()
	}
	return set
}

func sameOutcome(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if other, ok := b[k]; !ok || other != v {
			return false
		}
	}
	return true
}
