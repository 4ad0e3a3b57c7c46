package shader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var commandLog = logger.New("shader:command")

// CommandOptions are the compiler settings shared by every job of a run.
type CommandOptions struct {
	// Compiler is the executable name or path. Defaults to glslangValidator.
	Compiler string
	// TargetEnv is passed as --target-env when non-empty, e.g. "vulkan1.3".
	TargetEnv string
	// EntryPoint is used for HLSL sources. Defaults to "main".
	EntryPoint string
	// Debug embeds debug information (-g).
	Debug bool
	// ExtraArgs are appended to every invocation.
	ExtraArgs []string
}

func (o CommandOptions) withDefaults() CommandOptions {
	if o.Compiler == "" {
		o.Compiler = constants.DefaultCompiler
	}
	if o.EntryPoint == "" {
		o.EntryPoint = constants.DefaultEntryPoint
	}
	return o
}

// CompileJob is one compiler invocation for one shader.
type CompileJob struct {
	Shader     ShaderFile
	Compiler   string
	OutputPath string
	TargetEnv  string
	// EntryPoint is set for HLSL sources only.
	EntryPoint string
	Debug      bool
	ExtraArgs  []string
}

// isGlslc reports whether the configured compiler is shaderc's glslc, whose
// flag syntax differs from glslangValidator.
func (j CompileJob) isGlslc() bool {
	base := strings.ToLower(filepath.Base(j.Compiler))
	base = strings.TrimSuffix(base, ".exe")
	return base == "glslc"
}

// stageSuffixes are the extensions both compilers infer a stage from. Any
// other extension needs the stage passed explicitly.
var stageSuffixes = map[Stage]string{
	StageVertex:     "vert",
	StageFragment:   "frag",
	StageGeometry:   "geom",
	StageCompute:    "comp",
	StageRayGen:     "rgen",
	StageClosestHit: "rchit",
	StageMiss:       "rmiss",
}

// glslcStageNames are the -fshader-stage values accepted by glslc.
var glslcStageNames = map[Stage]string{
	StageVertex:     "vertex",
	StageFragment:   "fragment",
	StageGeometry:   "geometry",
	StageCompute:    "compute",
	StageRayGen:     "rgen",
	StageClosestHit: "rchit",
	StageMiss:       "rmiss",
}

// stageFlagNeeded reports whether the compiler cannot infer the stage from
// the file name. The compilers match suffixes case-sensitively.
func (j CompileJob) stageFlagNeeded() bool {
	suffix, ok := stageSuffixes[j.Shader.Stage]
	return ok && Extension(j.Shader.Name) != suffix
}

// Args returns the compiler arguments, excluding the executable itself.
// Options that select the stage or language precede the input file, since
// glslc applies them only to inputs that follow.
func (j CompileJob) Args() []string {
	var args []string
	if j.Debug {
		args = append(args, "-g")
	}
	args = append(args, "-o", j.OutputPath)

	if j.isGlslc() {
		if j.stageFlagNeeded() {
			args = append(args, "-fshader-stage="+glslcStageNames[j.Shader.Stage])
		}
		if j.Shader.Language == HLSL {
			args = append(args, "-x", "hlsl")
			if j.EntryPoint != "" {
				args = append(args, "-fentry-point="+j.EntryPoint)
			}
		}
		args = append(args, j.Shader.Path())
		if j.TargetEnv != "" {
			args = append(args, "--target-env="+j.TargetEnv)
		}
	} else {
		args = append(args, "-V")
		if j.Shader.Language == HLSL {
			args = append(args, "-D")
		}
		if j.stageFlagNeeded() {
			args = append(args, "-S", stageSuffixes[j.Shader.Stage])
		}
		args = append(args, j.Shader.Path())
		if j.TargetEnv != "" {
			args = append(args, "--target-env", j.TargetEnv)
		}
		if j.EntryPoint != "" {
			args = append(args, "-e", j.EntryPoint)
		}
	}

	return append(args, j.ExtraArgs...)
}

// CommandLine renders the invocation for display. It is never executed
// through a shell.
func (j CompileJob) CommandLine() string {
	parts := append([]string{j.Compiler}, j.Args()...)
	for i, p := range parts {
		if strings.ContainsAny(p, " \t\"'") {
			parts[i] = fmt.Sprintf("%q", p)
		}
	}
	return strings.Join(parts, " ")
}

// ArtifactName returns the artifact file name for a source file name.
func ArtifactName(sourceName string) string {
	return sourceName + constants.ArtifactExtension
}

// BuildCommand creates the compile job for a shader. The artifact is written
// to <outDir>/<source file name>.spv.
func BuildCommand(shader ShaderFile, outDir string, opts CommandOptions) CompileJob {
	opts = opts.withDefaults()
	job := CompileJob{
		Shader:     shader,
		Compiler:   opts.Compiler,
		OutputPath: filepath.Join(NormalizePath(outDir), ArtifactName(shader.Name)),
		TargetEnv:  opts.TargetEnv,
		Debug:      opts.Debug,
		ExtraArgs:  append([]string(nil), opts.ExtraArgs...),
	}
	if shader.Language == HLSL {
		job.EntryPoint = opts.EntryPoint
	}
	return job
}

// PlanJobs builds one job per shader and rejects plans where two shaders
// would write the same artifact. Output paths are compared case-folded so the
// plan behaves the same on case-insensitive file systems.
func PlanJobs(shaders []ShaderFile, outDir string, opts CommandOptions) ([]CompileJob, error) {
	jobs := make([]CompileJob, 0, len(shaders))
	seen := make(map[string]ShaderFile, len(shaders))

	for _, s := range shaders {
		job := BuildCommand(s, outDir, opts)
		key := strings.ToLower(filepath.Clean(job.OutputPath))
		if prev, ok := seen[key]; ok {
			commandLog.Printf("Output collision: %s and %s -> %s", prev, s, job.OutputPath)
			return nil, &ConfigError{
				Message: fmt.Sprintf("%s and %s both compile to %s", prev, s, job.OutputPath),
				Err:     ErrArtifactCollision,
			}
		}
		seen[key] = s
		jobs = append(jobs, job)
	}

	commandLog.Printf("Planned %d jobs into %s", len(jobs), outDir)
	return jobs, nil
}
