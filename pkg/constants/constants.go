// Package constants holds names and defaults shared across the CLI.
package constants

// CLIName is the executable name used in help text and examples.
const CLIName = "shaderbuild"

// DefaultConfigFile is looked up in the working directory when --config is not given.
const DefaultConfigFile = "shaderbuild.yml"

// ArtifactExtension is appended to the source file name to form the artifact name.
const ArtifactExtension = ".spv"

// Environment variables read by the CLI.
const (
	// MaxWorkersEnvVar overrides the number of concurrent compiler processes.
	MaxWorkersEnvVar = "SHADERBUILD_MAX_WORKERS"
)

// Worker bounds accepted from configuration and environment.
const (
	MinWorkers = 1
	MaxWorkers = 256
)

// Defaults mirrored from the engine's original build scripts.
var (
	DefaultSourceDirs = []string{"Resources/Shaders", "Resources/Raytracing"}
)

const (
	DefaultOutputDir  = "cmake-build-debug"
	DefaultTargetEnv  = "vulkan1.3"
	DefaultCompiler   = "glslangValidator"
	DefaultEntryPoint = "main"
)
