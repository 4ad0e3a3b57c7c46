package shader

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
)

// Stage is the pipeline role of a shader source.
type Stage int

const (
	StageUnknown Stage = iota
	StageVertex
	StageFragment
	StageGeometry
	StageCompute
	StageRayGen
	StageClosestHit
	StageMiss
)

var stageNames = map[Stage]string{
	StageUnknown:    "unknown",
	StageVertex:     "vertex",
	StageFragment:   "fragment",
	StageGeometry:   "geometry",
	StageCompute:    "compute",
	StageRayGen:     "raygen",
	StageClosestHit: "closesthit",
	StageMiss:       "miss",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Stage(%d)", int(s))
}

// IsRayTracing reports whether the stage belongs to the ray tracing pipeline.
func (s Stage) IsRayTracing() bool {
	return s == StageRayGen || s == StageClosestHit || s == StageMiss
}

// MarshalText implements encoding.TextMarshaler.
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Stage) UnmarshalText(text []byte) error {
	parsed, err := ParseStage(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStage parses a stage name. Matching is case-insensitive.
func ParseStage(name string) (Stage, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for stage, n := range stageNames {
		if n == lower {
			return stage, nil
		}
	}
	return StageUnknown, fmt.Errorf("unknown shader stage %q", name)
}

// Language is the source language of a shader.
type Language int

const (
	GLSL Language = iota
	HLSL
)

func (l Language) String() string {
	switch l {
	case GLSL:
		return "glsl"
	case HLSL:
		return "hlsl"
	default:
		return fmt.Sprintf("Language(%d)", int(l))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := ParseLanguage(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLanguage parses "glsl" or "hlsl". Matching is case-insensitive.
func ParseLanguage(name string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "glsl":
		return GLSL, nil
	case "hlsl":
		return HLSL, nil
	default:
		return GLSL, fmt.Errorf("unknown shader language %q", name)
	}
}

// Classification is what a file extension says about a source file.
type Classification struct {
	Stage    Stage
	Language Language
}

// ExtensionMap maps a file extension, without the leading dot, to its
// classification.
type ExtensionMap map[string]Classification

// DefaultExtensions returns the extensions recognized when none are
// configured. Shared include files (.glsl) are deliberately absent.
func DefaultExtensions() ExtensionMap {
	return ExtensionMap{
		"vert":  {Stage: StageVertex, Language: GLSL},
		"frag":  {Stage: StageFragment, Language: GLSL},
		"geom":  {Stage: StageGeometry, Language: GLSL},
		"comp":  {Stage: StageCompute, Language: GLSL},
		"rgen":  {Stage: StageRayGen, Language: GLSL},
		"rchit": {Stage: StageClosestHit, Language: GLSL},
		"rmiss": {Stage: StageMiss, Language: GLSL},
	}
}

// lookup finds the classification for ext, folding case unless
// caseSensitive is set. An exact match wins; otherwise the first key in
// sorted order that folds to ext is used.
func (m ExtensionMap) lookup(ext string, caseSensitive bool) (Classification, bool) {
	if c, ok := m[ext]; ok {
		return c, true
	}
	if caseSensitive {
		return Classification{}, false
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		if strings.EqualFold(key, ext) {
			return m[key], true
		}
	}
	return Classification{}, false
}

// SourceDir is a directory scanned for shaders. Language, when set,
// overrides the language of every file found in it.
type SourceDir struct {
	Path     string
	Language *Language
}

// ShaderFile is a discovered shader source.
type ShaderFile struct {
	// Dir is the source directory the file was found in, as configured.
	Dir string
	// Name is the file name including its extension.
	Name     string
	Stage    Stage
	Language Language
}

// Path returns the path of the source file.
func (f ShaderFile) Path() string {
	return filepath.Join(f.Dir, f.Name)
}

func (f ShaderFile) String() string {
	return filepath.ToSlash(f.Path())
}
