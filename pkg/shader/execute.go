package shader

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var executeLog = logger.New("shader:execute")

// Stream identifies which output stream of the compiler a line came from.
type Stream int

const (
	Stdout Stream = iota
	Stderr
)

func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// LineSink receives compiler output as it is produced. Lines of one stream
// of one job arrive in order; Run calls a sink from several goroutines.
type LineSink interface {
	Line(shader ShaderFile, stream Stream, text string)
}

// LineSinkFunc adapts a function to LineSink.
type LineSinkFunc func(shader ShaderFile, stream Stream, text string)

// Line implements LineSink.
func (f LineSinkFunc) Line(shader ShaderFile, stream Stream, text string) {
	f(shader, stream, text)
}

// DiscardLines is a LineSink that drops everything.
var DiscardLines LineSink = LineSinkFunc(func(ShaderFile, Stream, string) {})

// ExecOptions control how a single job is executed.
type ExecOptions struct {
	// Timeout bounds one compiler run. Zero means no timeout.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure
	// (timeout or start failure other than a missing executable).
	Retries int
	// Env is appended to the inherited environment of the compiler.
	Env []string
}

// CompileResult is the outcome of one job.
type CompileResult struct {
	Job      CompileJob
	ExitCode int
	// Stdout and Stderr hold every line the last attempt printed, in order.
	Stdout   []string
	Stderr   []string
	Duration time.Duration
	Attempts int
	// Err is nil on success, otherwise a *CompilerInvocationError or a
	// *CompilationError.
	Err error
}

// Succeeded reports whether the compiler ran and exited with code zero.
func (r *CompileResult) Succeeded() bool {
	return r.Err == nil
}

// Execute runs the compiler for job, forwarding its output to sink line by
// line. Failures are reported in the result, never as a panic or a separate
// error, so callers can keep going with other jobs.
func Execute(ctx context.Context, job CompileJob, sink LineSink, opts ExecOptions) *CompileResult {
	if sink == nil {
		sink = DiscardLines
	}

	for attempt := 1; ; attempt++ {
		result := runOnce(ctx, job, sink, opts)
		result.Attempts = attempt
		if result.Err == nil {
			executeLog.Printf("Compiled %s in %v", job.Shader, result.Duration)
			return result
		}
		if attempt > opts.Retries || ctx.Err() != nil || !isTransient(result.Err) {
			executeLog.Printf("Compiling %s failed after %d attempt(s): %v", job.Shader, attempt, result.Err)
			return result
		}
		executeLog.Printf("Retrying %s after transient failure (attempt %d/%d): %v", job.Shader, attempt, opts.Retries+1, result.Err)
	}
}

func runOnce(ctx context.Context, job CompileJob, sink LineSink, opts ExecOptions) *CompileResult {
	result := &CompileResult{Job: job, ExitCode: -1}

	runCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	args := job.Args()
	executeLog.Printf("Running %s %s", job.Compiler, strings.Join(args, " "))

	cmd := exec.CommandContext(runCtx, job.Compiler, args...)
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	// Bound the wait for output pipes held open by grandchildren after a kill.
	cmd.WaitDelay = 2 * time.Second

	stdout := &lineWriter{emit: func(line string) {
		result.Stdout = append(result.Stdout, line)
		sink.Line(job.Shader, Stdout, line)
	}}
	stderr := &lineWriter{emit: func(line string) {
		result.Stderr = append(result.Stderr, line)
		sink.Line(job.Shader, Stderr, line)
	}}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		result.Duration = time.Since(start)
		result.Err = &CompilerInvocationError{Shader: job.Shader, Compiler: job.Compiler, Err: err}
		return result
	}

	waitErr := cmd.Wait()
	result.Duration = time.Since(start)
	stdout.Flush()
	stderr.Flush()

	if waitErr == nil {
		result.ExitCode = 0
		return result
	}

	compErr := &CompilationError{Shader: job.Shader, ExitCode: -1, Detail: lastLine(result), Err: waitErr}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) {
		compErr.ExitCode = exitErr.ExitCode()
	}
	if ctx.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		compErr.TimedOut = true
		compErr.Err = runCtx.Err()
	} else if ctx.Err() != nil {
		compErr.Err = ctx.Err()
	}
	result.ExitCode = compErr.ExitCode
	result.Err = compErr
	return result
}

// isTransient reports whether retrying the same job could succeed.
func isTransient(err error) bool {
	var compErr *CompilationError
	if errors.As(err, &compErr) {
		return compErr.TimedOut
	}
	var invErr *CompilerInvocationError
	if errors.As(err, &invErr) {
		return !errors.Is(invErr.Err, exec.ErrNotFound) && !errors.Is(invErr.Err, fs.ErrNotExist)
	}
	return false
}

// lastLine picks the most useful line for an error message. glslangValidator
// reports errors on stdout, so stderr is preferred only when present.
func lastLine(r *CompileResult) string {
	for _, lines := range [][]string{r.Stderr, r.Stdout} {
		for i := len(lines) - 1; i >= 0; i-- {
			if s := strings.TrimSpace(lines[i]); s != "" {
				return s
			}
		}
	}
	return ""
}

// lineWriter splits written bytes into lines and emits each complete line.
type lineWriter struct {
	mu   sync.Mutex
	buf  []byte
	emit func(line string)
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(strings.TrimRight(string(w.buf[:i]), "\r"))
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Flush emits a trailing line that had no newline.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.buf) > 0 {
		w.emit(strings.TrimRight(string(w.buf), "\r"))
		w.buf = nil
	}
}
