package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/stardust-engine/shaderbuild/pkg/styles"
)

// TableConfig describes a table to render.
type TableConfig struct {
	Title     string
	Headers   []string
	Rows      [][]string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders a bordered table. An empty config renders as "".
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 {
		return ""
	}

	rows := config.Rows
	totalIndex := -1
	if config.ShowTotal && len(config.TotalRow) > 0 {
		rows = append(append([][]string{}, rows...), config.TotalRow)
		totalIndex = len(rows) - 1
	}

	t := table.New().
		Headers(config.Headers...).
		Rows(rows...).
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styles.TableHeader
			case row == totalIndex:
				return styles.TableTotal
			default:
				return styles.TableCell
			}
		})
	if isTTY() {
		t = t.BorderStyle(styles.TableBorder)
	}

	var b strings.Builder
	if config.Title != "" {
		b.WriteString(applyStyle(styles.TableTitle, config.Title))
		b.WriteString("\n")
	}
	b.WriteString(t.String())
	b.WriteString("\n")
	return b.String()
}
