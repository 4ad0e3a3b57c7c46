// Package config loads shaderbuild.yml.
//
// A configuration file is optional. Every key has a default matching the
// engine's original build scripts, so running the tool in a checkout with no
// file compiles Resources/Shaders and Resources/Raytracing into
// cmake-build-debug. Values are applied in this order, later wins: built-in
// defaults, the file, SHADERBUILD_MAX_WORKERS, command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-shellwords"
	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/envutil"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var configLog = logger.New("config:config")

// Config mirrors the keys of shaderbuild.yml.
type Config struct {
	Sources       []Source             `yaml:"sources,omitempty" json:"sources,omitempty"`
	OutputDir     string               `yaml:"output_dir,omitempty" json:"output_dir,omitempty"`
	CopyDir       string               `yaml:"copy_dir,omitempty" json:"copy_dir,omitempty"`
	TargetEnv     string               `yaml:"target_env,omitempty" json:"target_env,omitempty"`
	Compiler      string               `yaml:"compiler,omitempty" json:"compiler,omitempty"`
	EntryPoint    string               `yaml:"entry_point,omitempty" json:"entry_point,omitempty"`
	Debug         *bool                `yaml:"debug,omitempty" json:"debug,omitempty"`
	RayTracing    RayTracingMode       `yaml:"ray_tracing,omitempty" json:"ray_tracing,omitempty"`
	CaseSensitive bool                 `yaml:"case_sensitive,omitempty" json:"case_sensitive,omitempty"`
	Extensions    map[string]Extension `yaml:"extensions,omitempty" json:"extensions,omitempty"`
	ExtraArgs     string               `yaml:"extra_args,omitempty" json:"extra_args,omitempty"`
	Workers       int                  `yaml:"workers,omitempty" json:"workers,omitempty"`
	Timeout       string               `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	Retries       int                  `yaml:"retries,omitempty" json:"retries,omitempty"`
	Verbose       bool                 `yaml:"verbose,omitempty" json:"verbose,omitempty"`

	// Path is the file the configuration was read from, empty for defaults.
	Path string `yaml:"-" json:"-"`
}

// Source is an entry of the sources list. It is written either as a plain
// directory string or as {dir, language}.
type Source struct {
	Dir      string `yaml:"dir" json:"dir"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
}

// UnmarshalYAML accepts both the string and the mapping form.
func (s *Source) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	if dir, ok := raw.(string); ok {
		*s = Source{Dir: dir}
		return nil
	}
	type plain Source
	var p plain
	if err := unmarshal(&p); err != nil {
		return err
	}
	*s = Source(p)
	return nil
}

// Extension classifies a custom file extension.
type Extension struct {
	Stage    string `yaml:"stage" json:"stage"`
	Language string `yaml:"language,omitempty" json:"language,omitempty"`
}

// RayTracingMode selects whether ray tracing stages are compiled.
type RayTracingMode string

const (
	RayTracingAuto RayTracingMode = "auto"
	RayTracingOn   RayTracingMode = "on"
	RayTracingOff  RayTracingMode = "off"
)

// UnmarshalYAML accepts auto/on/off and, for YAML 1.1 habits, booleans.
func (m *RayTracingMode) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case bool:
		if v {
			*m = RayTracingOn
		} else {
			*m = RayTracingOff
		}
	case string:
		*m = RayTracingMode(strings.ToLower(v))
	default:
		return fmt.Errorf("ray_tracing must be auto, on or off, got %v", raw)
	}
	return nil
}

// Enabled resolves the mode for the given GOOS.
func (m RayTracingMode) Enabled(goos string) bool {
	switch m {
	case RayTracingOn:
		return true
	case RayTracingOff:
		return false
	default:
		return shader.DefaultRayTracing(goos)
	}
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	debug := true
	sources := make([]Source, 0, len(constants.DefaultSourceDirs))
	for _, dir := range constants.DefaultSourceDirs {
		sources = append(sources, Source{Dir: dir})
	}
	return &Config{
		Sources:    sources,
		OutputDir:  constants.DefaultOutputDir,
		TargetEnv:  constants.DefaultTargetEnv,
		Compiler:   constants.DefaultCompiler,
		EntryPoint: constants.DefaultEntryPoint,
		Debug:      &debug,
		RayTracing: RayTracingAuto,
	}
}

// Load reads the configuration at path. When explicit is false a missing file
// is not an error and the defaults are returned; an explicitly named file must
// exist. Validation problems are returned as *shader.ConfigError.
func Load(path string, explicit bool) (*Config, error) {
	if path == "" {
		path = constants.DefaultConfigFile
	}
	configLog.Printf("Loading configuration from %s (explicit=%v)", path, explicit)

	content, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			configLog.Print("No configuration file found, using defaults")
			cfg := Default()
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	cfg, err := Parse(content)
	if err != nil {
		return nil, &shader.ConfigError{Message: path, Err: err}
	}
	cfg.Path = path
	cfg.applyEnv()
	return cfg, nil
}

// Parse validates YAML content against the configuration schema, decodes it
// and fills in defaults for the keys it does not set.
func Parse(content []byte) (*Config, error) {
	if err := validateSchema(content); err != nil {
		return nil, err
	}

	var file Config
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.New(yaml.FormatError(err, false, true))
	}

	cfg := Default()
	cfg.merge(&file)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	configLog.Printf("Parsed configuration: %d sources, output=%s, compiler=%s", len(cfg.Sources), cfg.OutputDir, cfg.Compiler)
	return cfg, nil
}

// merge overlays every key the file sets onto c.
func (c *Config) merge(file *Config) {
	if len(file.Sources) > 0 {
		c.Sources = file.Sources
	}
	if file.OutputDir != "" {
		c.OutputDir = file.OutputDir
	}
	if file.CopyDir != "" {
		c.CopyDir = file.CopyDir
	}
	if file.TargetEnv != "" {
		c.TargetEnv = file.TargetEnv
	}
	if file.Compiler != "" {
		c.Compiler = file.Compiler
	}
	if file.EntryPoint != "" {
		c.EntryPoint = file.EntryPoint
	}
	if file.Debug != nil {
		c.Debug = file.Debug
	}
	if file.RayTracing != "" {
		c.RayTracing = file.RayTracing
	}
	if len(file.Extensions) > 0 {
		c.Extensions = file.Extensions
	}
	c.CaseSensitive = file.CaseSensitive
	c.ExtraArgs = file.ExtraArgs
	c.Workers = file.Workers
	c.Timeout = file.Timeout
	c.Retries = file.Retries
	c.Verbose = file.Verbose
}

// applyEnv lets SHADERBUILD_MAX_WORKERS override the file. An invalid value
// is reported and ignored.
func (c *Config) applyEnv() {
	workers, ok, err := envutil.LookupInt(constants.MaxWorkersEnvVar, constants.MinWorkers, constants.MaxWorkers)
	if err != nil {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("Ignoring %v", err)))
		return
	}
	if ok {
		configLog.Printf("Workers overridden by environment: %d", workers)
		c.Workers = workers
	}
}

// Validate checks values the schema cannot express.
func (c *Config) Validate() error {
	switch c.RayTracing {
	case RayTracingAuto, RayTracingOn, RayTracingOff, "":
	default:
		return fmt.Errorf("ray_tracing must be auto, on or off, got %q", c.RayTracing)
	}
	if c.Workers < 0 || c.Workers > constants.MaxWorkers {
		return fmt.Errorf("workers must be between 0 and %d, got %d", constants.MaxWorkers, c.Workers)
	}
	if c.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", c.Retries)
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.ParsedExtraArgs(); err != nil {
		return err
	}
	for _, src := range c.Sources {
		if strings.TrimSpace(src.Dir) == "" {
			return errors.New("sources must not contain empty directories")
		}
		if src.Language != "" {
			if _, err := shader.ParseLanguage(src.Language); err != nil {
				return fmt.Errorf("source %s: %w", src.Dir, err)
			}
		}
	}
	if _, err := c.ExtensionMap(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses the per-shader timeout. An empty value means none.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return d, nil
}

// ParsedExtraArgs splits extra_args with shell quoting rules. The result is
// passed to the compiler as separate arguments, never through a shell.
func (c *Config) ParsedExtraArgs() ([]string, error) {
	if strings.TrimSpace(c.ExtraArgs) == "" {
		return nil, nil
	}
	args, err := shellwords.Parse(c.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("invalid extra_args %q: %w", c.ExtraArgs, err)
	}
	return args, nil
}

// ExtensionMap returns the configured extension map, or the defaults when
// none is configured. A configured map replaces the defaults entirely. Keys
// that would match the same files are rejected: ".vert" and "vert" always,
// "vert" and "VERT" unless case_sensitive is set.
func (c *Config) ExtensionMap() (shader.ExtensionMap, error) {
	if len(c.Extensions) == 0 {
		return shader.DefaultExtensions(), nil
	}
	exts := make(shader.ExtensionMap, len(c.Extensions))
	owners := make(map[string]string, len(c.Extensions))
	for _, ext := range slices.Sorted(maps.Keys(c.Extensions)) {
		e := c.Extensions[ext]
		key := strings.TrimPrefix(ext, ".")
		match := key
		if !c.CaseSensitive {
			match = strings.ToLower(key)
		}
		if prev, ok := owners[match]; ok {
			return nil, fmt.Errorf("extensions %q and %q match the same files", prev, ext)
		}
		owners[match] = ext

		stage, err := shader.ParseStage(e.Stage)
		if err != nil || stage == shader.StageUnknown {
			return nil, fmt.Errorf("extension %s: unknown stage %q", ext, e.Stage)
		}
		lang := shader.GLSL
		if e.Language != "" {
			if lang, err = shader.ParseLanguage(e.Language); err != nil {
				return nil, fmt.Errorf("extension %s: %w", ext, err)
			}
		}
		exts[key] = shader.Classification{Stage: stage, Language: lang}
	}
	return exts, nil
}

// ShaderOptions converts the configuration into build options for goos.
func (c *Config) ShaderOptions(goos string) (shader.Options, error) {
	exts, err := c.ExtensionMap()
	if err != nil {
		return shader.Options{}, &shader.ConfigError{Message: "extensions", Err: err}
	}
	extra, err := c.ParsedExtraArgs()
	if err != nil {
		return shader.Options{}, &shader.ConfigError{Message: "extra_args", Err: err}
	}
	timeout, err := c.TimeoutDuration()
	if err != nil {
		return shader.Options{}, &shader.ConfigError{Message: "timeout", Err: err}
	}

	sources := make([]shader.SourceDir, 0, len(c.Sources))
	for _, src := range c.Sources {
		dir := shader.SourceDir{Path: shader.NormalizePath(src.Dir)}
		if src.Language != "" {
			lang, err := shader.ParseLanguage(src.Language)
			if err != nil {
				return shader.Options{}, &shader.ConfigError{Message: "sources", Err: err}
			}
			dir.Language = &lang
		}
		sources = append(sources, dir)
	}

	debug := c.Debug == nil || *c.Debug
	opts := shader.Options{
		Sources:    sources,
		Extensions: exts,
		Scan: shader.ScanOptions{
			RayTracing:    c.RayTracing.Enabled(goos),
			CaseSensitive: c.CaseSensitive,
		},
		Command: shader.CommandOptions{
			Compiler:   c.Compiler,
			TargetEnv:  c.TargetEnv,
			EntryPoint: c.EntryPoint,
			Debug:      debug,
			ExtraArgs:  extra,
		},
		Exec: shader.ExecOptions{
			Timeout: timeout,
			Retries: c.Retries,
		},
		OutputDir: c.OutputDir,
		CopyDir:   c.CopyDir,
		Workers:   c.Workers,
	}
	configLog.Printf("Build options for %s: %d sources, ray_tracing=%v", goos, len(sources), opts.Scan.RayTracing)
	return opts, nil
}
