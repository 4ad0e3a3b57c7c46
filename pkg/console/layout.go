package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stardust-engine/shaderbuild/pkg/styles"
)

// LayoutTitleBox renders a title between two horizontal rules of the given
// width.
func LayoutTitleBox(title string, width int) string {
	if width <= 0 {
		width = lipgloss.Width(title)
	}
	rule := strings.Repeat("━", width)
	if isTTY() {
		rule = styles.TableBorder.Render(rule)
		title = styles.TableTitle.Render(title)
	}
	return rule + "\n" + title + "\n" + rule
}

// LayoutEmphasisBox renders content inside a rounded border of the given
// color. Outside a terminal the content is returned with a plain prefix.
func LayoutEmphasisBox(content string, color lipgloss.AdaptiveColor) string {
	if !isTTY() {
		return "│ " + strings.ReplaceAll(content, "\n", "\n│ ")
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(0, 1).
		Render(content)
}
