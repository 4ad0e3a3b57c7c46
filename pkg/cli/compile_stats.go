package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/stardust-engine/shaderbuild/pkg/console"
	"github.com/stardust-engine/shaderbuild/pkg/logger"
	"github.com/stardust-engine/shaderbuild/pkg/shader"
	"github.com/stardust-engine/shaderbuild/pkg/styles"
	"github.com/stardust-engine/shaderbuild/pkg/tty"
)

var compileStatsLog = logger.New("cli:compile_stats")

// maxStatsRows limits the table to the largest artifacts.
const maxStatsRows = 10

// collectArtifactStats inspects each artifact. Artifacts that cannot be read
// are logged and left out.
func collectArtifactStats(artifacts []string) []*shader.ArtifactInfo {
	compileStatsLog.Printf("Collecting stats for %d artifacts", len(artifacts))
	stats := make([]*shader.ArtifactInfo, 0, len(artifacts))
	for _, path := range artifacts {
		info, err := shader.InspectArtifact(path)
		if err != nil {
			compileStatsLog.Printf("Skipping %s: %v", path, err)
			continue
		}
		stats = append(stats, info)
	}
	return stats
}

// displayStatsTable prints artifact statistics sorted by size, largest first.
// Files without a SPIR-V header are flagged.
func displayStatsTable(statsList []*shader.ArtifactInfo) {
	compileStatsLog.Printf("Displaying stats table: artifact_count=%d", len(statsList))
	if len(statsList) == 0 {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage("No artifact statistics to display"))
		return
	}

	sort.SliceStable(statsList, func(i, j int) bool {
		return statsList[i].Size > statsList[j].Size
	})

	var totalSize, totalWords int64
	invalid := 0
	for _, stats := range statsList {
		totalSize += stats.Size
		totalWords += stats.Words
		if !stats.Valid {
			invalid++
		}
	}

	rows := make([][]string, 0, min(len(statsList), maxStatsRows))
	for i, stats := range statsList {
		if i >= maxStatsRows {
			break
		}
		name := stats.Name
		version := stats.Version
		if !stats.Valid {
			version = "invalid"
			if tty.IsStderrTerminal() {
				name = styles.Error.Render("✗ " + stats.Name)
				version = styles.Error.Render(version)
			} else {
				name = "✗ " + stats.Name
			}
		}
		rows = append(rows, []string{
			name,
			console.FormatFileSize(stats.Size),
			version,
			fmt.Sprintf("%d", stats.Words),
		})
	}

	fmt.Fprint(os.Stderr, console.RenderTable(console.TableConfig{
		Title:     "Artifact Statistics",
		Headers:   []string{"ARTIFACT", "SIZE", "SPIR-V", "WORDS"},
		Rows:      rows,
		ShowTotal: true,
		TotalRow:  []string{fmt.Sprintf("TOTAL (%d)", len(statsList)), console.FormatFileSize(totalSize), "", fmt.Sprintf("%d", totalWords)},
	}))

	if len(statsList) > maxStatsRows {
		fmt.Fprintln(os.Stderr, console.FormatInfoMessage(fmt.Sprintf("Showing top %d of %d artifacts (sorted by size)", maxStatsRows, len(statsList))))
	}
	if invalid > 0 {
		fmt.Fprintln(os.Stderr, console.FormatWarningMessage(fmt.Sprintf("%d artifacts do not start with the SPIR-V magic number", invalid)))
	}
}
