//go:build !integration

package shader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommandGlslangValidator(t *testing.T) {
	src := filepath.Join("Resources", "Shaders")
	out := "cmake-build-debug"

	tests := []struct {
		name     string
		shader   ShaderFile
		opts     CommandOptions
		expected []string
	}{
		{
			name:   "glsl vertex",
			shader: ShaderFile{Dir: src, Name: "basic.vert", Stage: StageVertex, Language: GLSL},
			opts:   CommandOptions{TargetEnv: "vulkan1.3"},
			expected: []string{
				"-o", filepath.Join(out, "basic.vert.spv"),
				"-V", filepath.Join(src, "basic.vert"),
				"--target-env", "vulkan1.3",
			},
		},
		{
			name:   "hlsl gets entry point",
			shader: ShaderFile{Dir: src, Name: "light.frag", Stage: StageFragment, Language: HLSL},
			opts:   CommandOptions{TargetEnv: "vulkan1.3"},
			expected: []string{
				"-o", filepath.Join(out, "light.frag.spv"),
				"-V", "-D", filepath.Join(src, "light.frag"),
				"--target-env", "vulkan1.3",
				"-e", "main",
			},
		},
		{
			name:   "debug and extra args",
			shader: ShaderFile{Dir: src, Name: "tex.frag", Stage: StageFragment, Language: GLSL},
			opts:   CommandOptions{Debug: true, ExtraArgs: []string{"-DQUALITY=2"}},
			expected: []string{
				"-g",
				"-o", filepath.Join(out, "tex.frag.spv"),
				"-V", filepath.Join(src, "tex.frag"),
				"-DQUALITY=2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := BuildCommand(tt.shader, out, tt.opts)
			assert.Equal(t, "glslangValidator", job.Compiler)
			assert.Equal(t, tt.expected, job.Args())
		})
	}
}

func TestBuildCommandEntryPointOnlyForHLSL(t *testing.T) {
	opts := CommandOptions{EntryPoint: "PSMain"}

	glsl := BuildCommand(ShaderFile{Dir: "s", Name: "a.frag", Language: GLSL}, "out", opts)
	assert.Empty(t, glsl.EntryPoint)
	assert.NotContains(t, glsl.Args(), "-e")

	hlsl := BuildCommand(ShaderFile{Dir: "s", Name: "a.frag", Language: HLSL}, "out", opts)
	assert.Equal(t, "PSMain", hlsl.EntryPoint)
	assert.Contains(t, hlsl.Args(), "PSMain")
}

func TestBuildCommandGlslc(t *testing.T) {
	glslc := filepath.Join("bin", "glslc")

	tests := []struct {
		name     string
		shader   ShaderFile
		expected []string
	}{
		{
			name:   "glsl",
			shader: ShaderFile{Dir: "src", Name: "basic.vert", Stage: StageVertex, Language: GLSL},
			expected: []string{
				"-o", filepath.Join("out", "basic.vert.spv"),
				filepath.Join("src", "basic.vert"),
				"--target-env=vulkan1.2",
			},
		},
		{
			name:   "hlsl language precedes the input",
			shader: ShaderFile{Dir: "src", Name: "light.frag", Stage: StageFragment, Language: HLSL},
			expected: []string{
				"-o", filepath.Join("out", "light.frag.spv"),
				"-x", "hlsl", "-fentry-point=main",
				filepath.Join("src", "light.frag"),
				"--target-env=vulkan1.2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := BuildCommand(tt.shader, "out", CommandOptions{Compiler: glslc, TargetEnv: "vulkan1.2"})
			assert.Equal(t, tt.expected, job.Args())
		})
	}
}

func TestBuildCommandStageFlag(t *testing.T) {
	tests := []struct {
		name     string
		compiler string
		shader   ShaderFile
		expected []string
	}{
		{
			name:     "glslangValidator infers stock suffix",
			compiler: "glslangValidator",
			shader:   ShaderFile{Dir: "src", Name: "sky.comp", Stage: StageCompute},
			expected: []string{"-o", filepath.Join("out", "sky.comp.spv"), "-V", filepath.Join("src", "sky.comp")},
		},
		{
			name:     "glslangValidator custom extension",
			compiler: "glslangValidator",
			shader:   ShaderFile{Dir: "src", Name: "light.vs", Stage: StageVertex, Language: HLSL},
			expected: []string{
				"-o", filepath.Join("out", "light.vs.spv"),
				"-V", "-D", "-S", "vert", filepath.Join("src", "light.vs"),
				"-e", "main",
			},
		},
		{
			name:     "glslangValidator upper case suffix",
			compiler: "glslangValidator",
			shader:   ShaderFile{Dir: "src", Name: "a.FRAG", Stage: StageFragment},
			expected: []string{"-o", filepath.Join("out", "a.FRAG.spv"), "-V", "-S", "frag", filepath.Join("src", "a.FRAG")},
		},
		{
			name:     "glslc custom extension",
			compiler: "glslc",
			shader:   ShaderFile{Dir: "src", Name: "light.vs", Stage: StageVertex, Language: HLSL},
			expected: []string{
				"-o", filepath.Join("out", "light.vs.spv"),
				"-fshader-stage=vertex", "-x", "hlsl", "-fentry-point=main",
				filepath.Join("src", "light.vs"),
			},
		},
		{
			name:     "glslc ray tracing stage",
			compiler: "glslc.exe",
			shader:   ShaderFile{Dir: "src", Name: "hit.glsl", Stage: StageClosestHit},
			expected: []string{"-o", filepath.Join("out", "hit.glsl.spv"), "-fshader-stage=rchit", filepath.Join("src", "hit.glsl")},
		},
		{
			name:     "unknown stage left to the compiler",
			compiler: "glslc",
			shader:   ShaderFile{Dir: "src", Name: "any.shader", Stage: StageUnknown},
			expected: []string{"-o", filepath.Join("out", "any.shader.spv"), filepath.Join("src", "any.shader")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := BuildCommand(tt.shader, "out", CommandOptions{Compiler: tt.compiler})
			assert.Equal(t, tt.expected, job.Args())
		})
	}
}

func TestBuildCommandExtraArgsAreCopied(t *testing.T) {
	extra := []string{"-Os"}
	job := BuildCommand(ShaderFile{Dir: "s", Name: "a.vert"}, "out", CommandOptions{ExtraArgs: extra})
	extra[0] = "-O0"
	assert.Equal(t, []string{"-Os"}, job.ExtraArgs)
}

func TestCommandLineQuotesSpaces(t *testing.T) {
	shader := ShaderFile{Dir: "My Shaders", Name: "basic.vert", Stage: StageVertex}
	job := BuildCommand(shader, "out", CommandOptions{})

	line := job.CommandLine()
	assert.Contains(t, line, `"`+filepath.Join("My Shaders", "basic.vert")+`"`)
	assert.Contains(t, line, "glslangValidator -o ")
}

func TestPlanJobsOneArtifactPerShader(t *testing.T) {
	shaders := []ShaderFile{
		{Dir: "a", Name: "basic.vert", Stage: StageVertex},
		{Dir: "a", Name: "basic.frag", Stage: StageFragment},
		{Dir: "b", Name: "raytrace.rgen", Stage: StageRayGen},
	}

	jobs, err := PlanJobs(shaders, "out", CommandOptions{})
	require.NoError(t, err)
	require.Len(t, jobs, 3)

	seen := make(map[string]bool)
	for i, job := range jobs {
		assert.Equal(t, shaders[i], job.Shader, "plan order follows discovery order")
		assert.Equal(t, filepath.Join("out", shaders[i].Name+".spv"), job.OutputPath)
		assert.False(t, seen[job.OutputPath])
		seen[job.OutputPath] = true
	}
}

func TestPlanJobsCollisions(t *testing.T) {
	tests := []struct {
		name    string
		shaders []ShaderFile
	}{
		{
			name: "same name in two directories",
			shaders: []ShaderFile{
				{Dir: filepath.Join("Resources", "Shaders"), Name: "basic.vert"},
				{Dir: filepath.Join("Resources", "Raytracing"), Name: "basic.vert"},
			},
		},
		{
			name: "names differing only in case",
			shaders: []ShaderFile{
				{Dir: "s", Name: "a.vert"},
				{Dir: "s", Name: "a.VERT"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := PlanJobs(tt.shaders, "out", CommandOptions{})
			assert.Nil(t, jobs)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.ErrorIs(t, err, ErrArtifactCollision)
			assert.Contains(t, cfgErr.Message, tt.shaders[0].String())
			assert.Contains(t, cfgErr.Message, tt.shaders[1].String())
		})
	}
}

func TestArtifactName(t *testing.T) {
	assert.Equal(t, "basic.vert.spv", ArtifactName("basic.vert"))
	assert.Equal(t, "raytrace.rchit.spv", ArtifactName("raytrace.rchit"))
}
