package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/evalf/runview/internal/stream"
	"github.com/evalf/runview/internal/transport"
)

// Styles groups the lipgloss styles of the viewer.
type Styles struct {
	Title     lipgloss.Style
	Collapsed lipgloss.Style
	Levels    [5]lipgloss.Style
	Link      lipgloss.Style
	DeadLink  lipgloss.Style
	Status    lipgloss.Style
	Error     lipgloss.Style
	Cursor    lipgloss.Style
}

// DefaultStyles returns the default color scheme: red error down to gray
// debug, cyan links.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true),
		Collapsed: lipgloss.NewStyle().Bold(true).Faint(true),
		Levels: [5]lipgloss.Style{
			lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			lipgloss.NewStyle(),
			lipgloss.NewStyle().Faint(true),
		},
		Link:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Underline(true),
		DeadLink: lipgloss.NewStyle().Underline(true).Faint(true),
		Status:   lipgloss.NewStyle().Faint(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Cursor:   lipgloss.NewStyle().Reverse(true),
	}
}

// Row is one rendered line of the log pane. Node is set on context title
// rows so the cursor can toggle collapse; Anchor is set on artifact rows so
// the theater can scroll back to a plot's origin.
type Row struct {
	Text   string
	Node   *stream.Node
	Anchor string
	Href   string
}

// TreeRows flattens the context tree into visible rows, honoring the
// verbosity filter and the collapsed set. A context shows only if some
// descendant leaf is at or above the filter level.
func TreeRows(t *stream.Tree, st LogState, styles Styles) []Row {
	var rows []Row
	max := stream.Level(st.LogLevel)

	var rec func(n *stream.Node, depth int)
	rec = func(n *stream.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		for _, c := range n.Children {
			switch v := c.(type) {
			case *stream.Node:
				level, ok := v.Level()
				if !ok || level > max {
					continue
				}
				if st.Collapsed[v.ID] {
					rows = append(rows, Row{
						Text: indent + styles.Collapsed.Render("▸ "+v.Title),
						Node: v,
					})
					continue
				}
				rows = append(rows, Row{
					Text: indent + styles.Title.Render("▾ "+v.Title),
					Node: v,
				})
				rec(v, depth+1)
			case *stream.TextLeaf:
				if v.Level > max {
					continue
				}
				style := styles.Levels[v.Level]
				for _, line := range strings.Split(v.Text, "\n") {
					rows = append(rows, Row{Text: indent + style.Render(line)})
				}
			case *stream.ArtifactLeaf:
				if v.Level > max {
					continue
				}
				rows = append(rows, artifactRow(v, indent, styles))
			}
		}
	}
	rec(t.Root, 0)
	return rows
}

// artifactRow renders one coalesced artifact group as a single row.
func artifactRow(leaf *stream.ArtifactLeaf, indent string, styles Styles) Row {
	parts := make([]string, 0, len(leaf.Refs))
	anchor, href := "", ""
	for _, ref := range leaf.Refs {
		if ref.Viewable {
			parts = append(parts, styles.Link.Render(ref.Artifact.Text))
			if anchor == "" {
				anchor = ref.Handle.AnchorID
				href = ref.Artifact.Href
			}
		} else {
			parts = append(parts, styles.DeadLink.Render(ref.Artifact.Text))
		}
	}
	return Row{Text: indent + strings.Join(parts, " "), Anchor: anchor, Href: href}
}

// RenderStatus renders the poller's context breadcrumb and status text, the
// viewer's footer strip.
func RenderStatus(p transport.Progress, tailErr error, styles Styles) string {
	var b strings.Builder
	if len(p.Context) > 0 {
		b.WriteString(strings.Join(p.Context, " > "))
	}
	if p.Text != "" {
		if b.Len() > 0 {
			b.WriteString(" > ")
		}
		b.WriteString(p.Text)
	}
	if p.Finished() {
		if b.Len() > 0 {
			b.WriteString(" · ")
		}
		b.WriteString("finished")
	}
	line := styles.Status.Render(b.String())
	if tailErr != nil {
		line += " " + styles.Error.Render(fmt.Sprintf("[%v]", tailErr))
	}
	return line
}
