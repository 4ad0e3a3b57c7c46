package shader

import (
	"errors"
	"fmt"
)

// ErrArtifactCollision is wrapped by the ConfigError returned when two
// shaders would write the same artifact.
var ErrArtifactCollision = errors.New("artifact name collision")

// DiscoveryError reports a source directory that could not be listed.
// It aborts the run.
type DiscoveryError struct {
	Dir string
	Err error
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("failed to scan source directory %s: %v", e.Dir, e.Err)
}

func (e *DiscoveryError) Unwrap() error { return e.Err }

// ConfigError reports an unusable configuration, such as two sources
// producing the same artifact. It aborts the run.
type ConfigError struct {
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Err)
	}
	return "configuration error: " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CompilerInvocationError reports that the compiler could not be started
// for a shader.
type CompilerInvocationError struct {
	Shader   ShaderFile
	Compiler string
	Err      error
}

func (e *CompilerInvocationError) Error() string {
	return fmt.Sprintf("%s: failed to start %s: %v", e.Shader, e.Compiler, e.Err)
}

func (e *CompilerInvocationError) Unwrap() error { return e.Err }

// CompilationError reports a compiler run that exited non-zero or timed out.
type CompilationError struct {
	Shader   ShaderFile
	ExitCode int
	TimedOut bool
	// Detail is the last line the compiler printed, if any.
	Detail string
	Err    error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("%s: compiler exited with code %d", e.Shader, e.ExitCode)
	if e.TimedOut {
		msg = fmt.Sprintf("%s: compiler timed out", e.Shader)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *CompilationError) Unwrap() error { return e.Err }

// CopyError reports an artifact that could not be copied to the copy
// directory. It never changes the compile result of the shader.
type CopyError struct {
	Artifact string
	Dest     string
	Err      error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("failed to copy %s to %s: %v", e.Artifact, e.Dest, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }
