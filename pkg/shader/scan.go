package shader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var scanLog = logger.New("shader:scan")

// ScanOptions controls which files Scan accepts.
type ScanOptions struct {
	// RayTracing includes ray generation, closest-hit and miss stages.
	RayTracing bool
	// CaseSensitive requires extensions to match the map keys exactly.
	CaseSensitive bool
}

// DefaultRayTracing reports whether ray tracing stages are compiled by
// default on the given GOOS. The macOS toolchain (MoltenVK) has no ray
// tracing support.
func DefaultRayTracing(goos string) bool {
	return goos != "darwin"
}

// NormalizePath converts a configured path that may use either '/' or '\'
// separators into a clean path for the host.
func NormalizePath(p string) string {
	if p == "" {
		return p
	}
	return filepath.Clean(filepath.FromSlash(strings.ReplaceAll(p, `\`, "/")))
}

// Extension returns the text after the last dot of a file name, or "" if
// there is none. Leading dots (hidden files) do not count.
func Extension(name string) string {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 || idx == len(name)-1 {
		return ""
	}
	return name[idx+1:]
}

// Scan lists the immediate entries of each directory and returns the files
// whose extension is recognized. Subdirectories and unknown extensions are
// skipped silently. The result follows directory order, then name order.
func Scan(dirs []SourceDir, exts ExtensionMap, opts ScanOptions) ([]ShaderFile, error) {
	scanLog.Printf("Scanning %d source directories (ray_tracing=%v, case_sensitive=%v)", len(dirs), opts.RayTracing, opts.CaseSensitive)

	var shaders []ShaderFile
	for _, dir := range dirs {
		path := NormalizePath(dir.Path)
		entries, err := os.ReadDir(path)
		if err != nil {
			scanLog.Printf("Failed to read %s: %v", path, err)
			return nil, &DiscoveryError{Dir: path, Err: err}
		}

		found := 0
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			class, ok := exts.lookup(Extension(name), opts.CaseSensitive)
			if !ok {
				continue
			}
			if class.Stage.IsRayTracing() && !opts.RayTracing {
				scanLog.Printf("Skipping ray tracing shader %s", name)
				continue
			}
			if dir.Language != nil {
				class.Language = *dir.Language
			}
			shaders = append(shaders, ShaderFile{
				Dir:      path,
				Name:     name,
				Stage:    class.Stage,
				Language: class.Language,
			})
			found++
		}
		scanLog.Printf("Found %d shaders in %s", found, path)
	}

	return shaders, nil
}

// countByStage summarizes scan results for log output.
func countByStage(shaders []ShaderFile) string {
	counts := make(map[Stage]int)
	for _, s := range shaders {
		counts[s.Stage]++
	}
	var parts []string
	for stage := StageUnknown; stage <= StageMiss; stage++ {
		if n := counts[stage]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", stage, n))
		}
	}
	return strings.Join(parts, " ")
}
