package shader

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var runLog = logger.New("shader:run")

// Options configure a complete build.
type Options struct {
	Sources    []SourceDir
	Extensions ExtensionMap
	Scan       ScanOptions
	Command    CommandOptions
	Exec       ExecOptions

	// OutputDir receives the artifacts. It is created if missing.
	OutputDir string
	// CopyDir, when set, receives a copy of every artifact after all jobs
	// have finished.
	CopyDir string
	// Workers bounds the number of concurrent compiler processes.
	// Zero means GOMAXPROCS.
	Workers int
	// DryRun plans the jobs without running the compiler.
	DryRun bool
}

// Failure attributes an error to the shader that caused it.
type Failure struct {
	Shader ShaderFile
	Err    error
}

// BuildSummary is the outcome of a run.
type BuildSummary struct {
	Total     int
	Succeeded int
	Failed    []Failure
	// Results has one entry per job, in plan order. Empty for dry runs.
	Results []*CompileResult
	// Jobs is the plan the run executed.
	Jobs []CompileJob
	// Artifacts lists the output paths of successful jobs, in plan order.
	Artifacts  []string
	Copied     int
	CopyErrors []*CopyError
	Duration   time.Duration
	DryRun     bool
}

// OK reports whether every shader compiled.
func (s *BuildSummary) OK() bool {
	return len(s.Failed) == 0
}

// Plan scans the sources and plans one job per discovered shader.
func Plan(opts Options) ([]CompileJob, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}

	shaders, err := Scan(opts.Sources, exts, opts.Scan)
	if err != nil {
		return nil, err
	}
	runLog.Printf("Discovered %d shaders: %s", len(shaders), countByStage(shaders))

	return PlanJobs(shaders, opts.OutputDir, opts.Command)
}

// Run scans, plans and compiles every shader, then copies the artifacts.
// A failing shader never stops the others; the returned error is reserved
// for problems that make the whole run impossible (discovery, planning,
// creating the output directory).
func Run(ctx context.Context, opts Options, sink LineSink) (*BuildSummary, error) {
	start := time.Now()
	if opts.OutputDir == "" {
		return nil, &ConfigError{Message: "output directory is not set"}
	}

	jobs, err := Plan(opts)
	if err != nil {
		return nil, err
	}

	summary := &BuildSummary{Total: len(jobs), Jobs: jobs, DryRun: opts.DryRun}
	if opts.DryRun {
		runLog.Printf("Dry run: %d jobs planned", len(jobs))
		summary.Succeeded = len(jobs)
		summary.Duration = time.Since(start)
		return summary, nil
	}

	// Created once, before any worker starts.
	outDir := NormalizePath(opts.OutputDir)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	summary.Results = executeAll(ctx, jobs, sink, opts)

	for _, res := range summary.Results {
		if res.Err != nil {
			summary.Failed = append(summary.Failed, Failure{Shader: res.Job.Shader, Err: res.Err})
			continue
		}
		summary.Succeeded++
		summary.Artifacts = append(summary.Artifacts, res.Job.OutputPath)
	}
	runLog.Printf("Compiled %d/%d shaders", summary.Succeeded, summary.Total)

	if opts.CopyDir != "" && len(summary.Artifacts) > 0 {
		summary.Copied, summary.CopyErrors = copyArtifacts(summary.Artifacts, NormalizePath(opts.CopyDir))
	}

	summary.Duration = time.Since(start)
	return summary, nil
}

// executeAll runs jobs on a bounded pool and returns results in job order.
func executeAll(ctx context.Context, jobs []CompileJob, sink LineSink, opts Options) []*CompileResult {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(jobs) && len(jobs) > 0 {
		workers = len(jobs)
	}
	runLog.Printf("Executing %d jobs with %d workers", len(jobs), workers)

	results := make([]*CompileResult, len(jobs))
	p := pool.New().WithMaxGoroutines(max(workers, 1))
	for i, job := range jobs {
		p.Go(func() {
			results[i] = Execute(ctx, job, sink, opts.Exec)
		})
	}
	p.Wait()

	return results
}
