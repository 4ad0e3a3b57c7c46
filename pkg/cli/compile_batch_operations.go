// This file provides batch operations on the artifacts of a build.
//
// These run after all compile jobs have finished and act on the output
// directory as a whole rather than on one shader.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
)

var compileBatchOperationsLog = logger.New("cli:compile_batch_operations")

// purgeOrphanedArtifacts removes .spv files that exist in outDir but that
// none of the planned jobs produce.
func purgeOrphanedArtifacts(outDir string, jobs []shader.CompileJob, verbose bool) error {
	compileBatchOperationsLog.Printf("Purging orphaned artifacts in %s (%d jobs)", outDir, len(jobs))

	removed, err := shader.PurgeOrphans(outDir, jobs)
	for _, path := range removed {
		fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Removed orphaned artifact: %s", filepath.Base(path))))
	}
	if err != nil {
		return err
	}

	if verbose {
		if len(removed) > 0 {
			fmt.Fprintln(os.Stderr, console.FormatSuccessMessage(fmt.Sprintf("Purged %d orphaned artifacts", len(removed))))
		} else {
			fmt.Fprintln(os.Stderr, console.FormatInfoMessage("No orphaned artifacts found to purge"))
		}
	}
	return nil
}
