package shader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/stardust-engine/shaderbuild/pkg/constants"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
)

var purgeLog = logger.New("shader:purge")

// PurgeOrphans removes artifacts in outDir that none of the jobs produce,
// such as the output of a shader that was deleted or renamed. Only files
// with the artifact extension are considered. It returns the removed paths.
func PurgeOrphans(outDir string, jobs []CompileJob) ([]string, error) {
	outDir = NormalizePath(outDir)
	purgeLog.Printf("Purging orphaned artifacts in %s", outDir)

	existing, err := filepath.Glob(filepath.Join(outDir, "*"+constants.ArtifactExtension))
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	expected := make(map[string]bool, len(jobs))
	for _, job := range jobs {
		expected[strings.ToLower(filepath.Clean(job.OutputPath))] = true
	}

	var removed []string
	for _, path := range existing {
		if expected[strings.ToLower(filepath.Clean(path))] {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove orphaned artifact %s: %w", filepath.Base(path), err)
		}
		removed = append(removed, path)
	}

	purgeLog.Printf("Removed %d orphaned artifacts", len(removed))
	return removed, nil
}
