// This file provides output formatting functions for shader compilation.
//
// These functions handle what users see at the end of a build: the summary
// of compiled and failed shaders, dry-run plans and copy results. Compiler
// output itself is streamed by consoleSink while the build runs.

package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
	"github.com/stardust-engine/shaderbuild/pkg/styles"
)

var compileOutputFormatterLog = logger.New("cli:compile_output_formatter")

// printCompilationSummary writes the build summary to stderr.
func printCompilationSummary(summary *shader.BuildSummary, opts shader.Options, verbose bool) {
	compileOutputFormatterLog.Printf("Formatting summary: total=%d, succeeded=%d, failed=%d, dry_run=%v",
		summary.Total, summary.Succeeded, len(summary.Failed), summary.DryRun)

	if summary.DryRun {
		printDryRun(summary)
		return
	}

	if summary.Total == 0 {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("No shaders found in the source directories"))
		return
	}

	elapsed := summary.Duration.Round(time.Millisecond)
	if summary.OK() {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(
			fmt.Sprintf("Compiled %d/%d shaders in %s", summary.Succeeded, summary.Total, elapsed)))
	} else {
		fmt.Fprintln(os.Stderr, console.FormatErrorMessage(
			fmt.Sprintf("Compiled %d/%d shaders, %d failed", summary.Succeeded, summary.Total, len(summary.Failed))))
		failures := make([]string, 0, len(summary.Failed))
		for _, f := range summary.Failed {
			failures = append(failures, f.Err.Error())
		}
		fmt.Fprintln(os.Stderr, console.LayoutEmphasisBox(strings.Join(failures, "\n"), styles.ColorError))
	}

	if verbose {
		for _, res := range summary.Results {
			if res.Attempts > 1 {
				fmt.Fprintln(os.Stderr, console.FormatVerboseMessage(
					fmt.Sprintf("%s needed %d attempts", res.Job.Shader, res.Attempts)))
			}
		}
	}

	if opts.CopyDir != "" && len(summary.Artifacts) > 0 {
		if summary.Copied > 0 {
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage(
				fmt.Sprintf("Copied %d artifacts to %s", summary.Copied, console.ToRelativePath(opts.CopyDir))))
		}
		if err := summary.CopyErr(); err != nil {
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(
				fmt.Sprintf("%d artifacts could not be copied: %v", len(summary.CopyErrors), err)))
		}
	}
}

// printDryRun lists the planned invocations.
func printDryRun(summary *shader.BuildSummary) {
	for _, job := range summary.Jobs {
		fmt.Fprintln(os.Stderr, console.FormatCommandMessage(job.CommandLine()))
	}
	fmt.Fprintln(os.Stderr, console.FormatInfoMessage(
		fmt.Sprintf("Dry run: %d shaders would be compiled", len(summary.Jobs))))
}
