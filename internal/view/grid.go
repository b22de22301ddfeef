package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/evalf/runview/internal/theater"
)

// GridStyles are the cell borders of the overview grid.
type GridStyles struct {
	Cell             lipgloss.Style
	Selected         lipgloss.Style
	SelectedCategory lipgloss.Style
}

// DefaultGridStyles marks the focused plot with a bright border and its
// category peers with a dimmer one.
func DefaultGridStyles() GridStyles {
	base := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		Align(lipgloss.Center, lipgloss.Center)
	return GridStyles{
		Cell:             base.BorderForeground(lipgloss.Color("8")),
		Selected:         base.Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("14")),
		SelectedCategory: base.BorderForeground(lipgloss.Color("6")),
	}
}

// RenderGrid lays the plots of one context out as a grid of equally sized
// cells filling a width-by-height viewport.
func RenderGrid(plots []*theater.Plot, current *theater.Plot, grid theater.Grid, width, height int, styles GridStyles) string {
	if len(plots) == 0 || grid.Rows == 0 || grid.Cols == 0 {
		return ""
	}
	cellW := width/grid.Cols - 2
	cellH := height/grid.Rows - 2
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	lines := make([]string, 0, grid.Rows)
	for r := 0; r < grid.Rows; r++ {
		cells := make([]string, 0, grid.Cols)
		for c := 0; c < grid.Cols; c++ {
			i := r*grid.Cols + c
			if i >= len(plots) {
				break
			}
			p := plots[i]
			style := styles.Cell
			if current != nil {
				switch {
				case p.Href == current.Href:
					style = styles.Selected
				case current.HasCategory && p.HasCategory && p.Category == current.Category:
					style = styles.SelectedCategory
				}
			}
			cells = append(cells, style.Width(cellW).Height(cellH).Render(p.Name))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderFocus renders the single-focus theater view: one plot with its
// identity and position in the navigation lists.
func RenderFocus(p *theater.Plot, locked bool, width, height int, styles GridStyles) string {
	if p == nil {
		return lipgloss.NewStyle().Faint(true).Render("no plot selected")
	}
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteString("\n")
	b.WriteString(p.Href)
	b.WriteString("\n\n")
	b.WriteString(p.ContextLabel)
	b.WriteString("\n")
	fmt.Fprintf(&b, "#%d overall", p.GlobalIndex+1)
	if p.HasCategory {
		fmt.Fprintf(&b, " · #%d in %s", p.CategoryIndex+1, p.Category)
		if locked {
			b.WriteString(" (locked)")
		}
	}
	if p.ThumbSize != nil {
		fmt.Fprintf(&b, "\n%dx%d", p.ThumbSize[0], p.ThumbSize[1])
	}
	style := styles.Selected
	if w, h := width-2, height-2; w > 0 && h > 0 {
		style = style.Width(w).Height(h)
	}
	return style.Render(b.String())
}
