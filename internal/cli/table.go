package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5f9fb0"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6c757d"))
	cellStyle   = lipgloss.NewStyle().PaddingRight(2)
)

// table renders rows in aligned columns. Widths are measured with lipgloss so
// styled and wide characters line up.
type table struct {
	headers []string
	rows    [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

// maxBlankRows bounds the filler for oversized --size values.
const maxBlankRows = 100

// blank appends n empty rows, keeping partial pages at full height.
func (t *table) blank(n int) {
	for i := 0; i < min(n, maxBlankRows); i++ {
		t.rows = append(t.rows, make([]string, len(t.headers)))
	}
}

func (t *table) render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(widths))
		for i := range widths {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			parts[i] = cellStyle.Render(style.Width(widths[i]).Render(cell))
		}
		return strings.TrimRight(lipgloss.JoinHorizontal(lipgloss.Top, parts...), " ")
	}

	fmt.Fprintln(w, line(t.headers, headerStyle))
	for _, row := range t.rows {
		fmt.Fprintln(w, line(row, lipgloss.NewStyle()))
	}
}

func footer(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf(format, args...)))
}
