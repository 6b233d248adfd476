package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treelist/pkg/tree"
)

// Renderer turns tree nodes into styled single-line rows. It is pure: the
// same node state always renders the same row, and rendering never
// mutates the node.
type Renderer struct {
	theme Theme
	width int
}

// NewRenderer returns a row renderer for the given theme and row width.
func NewRenderer(theme Theme, width int) *Renderer {
	if width <= 0 {
		width = 80
	}
	return &Renderer{theme: theme, width: width}
}

// SetWidth changes the row width for subsequent renders.
func (r *Renderer) SetWidth(width int) {
	if width > 0 {
		r.width = width
	}
}

// Row renders a node as a column-aligned line:
// [tree-prefix] [expand] [ID] [title] — selected rows get the theme's
// Selected style over the whole line.
func (r *Renderer) Row(n *tree.Node) string {
	if n == nil {
		return ""
	}
	// Reduce width by 1 to prevent terminal wrapping on the exact edge
	width := r.width - 1

	var left strings.Builder

	prefix := r.branchPrefix(n)
	left.WriteString(r.theme.Branch.Render(prefix))
	prefixWidth := lipgloss.Width(prefix)

	indicator := expandIndicator(n)
	left.WriteString(r.theme.Indicator.Render(indicator))
	left.WriteString(" ")

	idStr := n.ID
	if idStr != "" {
		idStr = truncateWidth(idStr, 24, "…")
		left.WriteString(r.theme.ID.Render(idStr))
		left.WriteString(" ")
	}
	idWidth := lipgloss.Width(idStr)
	if idStr != "" {
		idWidth++
	}

	title := n.Str("title")
	if title == "" {
		title = n.ID
	}

	// Closed expandable nodes show how many direct children are hidden.
	counter := ""
	if n.State.More && !n.State.Open {
		counter = fmt.Sprintf(" (%d)", len(n.Children))
	}
	counterWidth := lipgloss.Width(counter)

	titleWidth := width - prefixWidth - 2 - idWidth - counterWidth
	if titleWidth < 5 {
		titleWidth = 5
	}
	title = truncateWidth(title, titleWidth, "…")

	titleStyle := r.theme.Title
	if n.State.Selected {
		titleStyle = titleStyle.Foreground(r.theme.Primary).Bold(true)
	}
	left.WriteString(titleStyle.Render(title))
	if counter != "" {
		left.WriteString(r.theme.MutedText.Render(counter))
	}

	row := left.String()
	if pad := width - lipgloss.Width(row); pad > 0 {
		row += strings.Repeat(" ", pad)
	}

	style := r.theme.Renderer.NewStyle().Width(width).MaxWidth(width)
	if n.State.Selected {
		return r.theme.Selected.Render(style.Render(row))
	}
	return style.Render(row)
}

// branchPrefix builds the indentation and branch characters for a node
// from its parent links alone. Root-level continuation lines are blank
// since roots carry no prefix.
func (r *Renderer) branchPrefix(n *tree.Node) string {
	if n.State.Depth == 0 {
		return ""
	}

	var parts []string
	// Ancestors between the root and the parent contribute either a
	// vertical continuation or blank space.
	for a := n.Parent; a != nil && a.Parent != nil; a = a.Parent {
		if hasSiblingsBelow(a) {
			parts = append([]string{"│   "}, parts...)
		} else {
			parts = append([]string{"    "}, parts...)
		}
	}
	if isLastChild(n) {
		parts = append(parts, "└── ")
	} else {
		parts = append(parts, "├── ")
	}
	return strings.Join(parts, "")
}

// expandIndicator returns the expand/collapse marker for a node.
func expandIndicator(n *tree.Node) string {
	if !n.State.More {
		return "•"
	}
	if n.State.Open {
		return "▾"
	}
	return "▸"
}

// hasSiblingsBelow checks if a node has siblings after it under its
// parent. Root-level nodes report false; the forest order is not
// reachable from a single node.
func hasSiblingsBelow(n *tree.Node) bool {
	if n.Parent == nil {
		return false
	}
	sibs := n.Parent.Children
	for i, s := range sibs {
		if s == n {
			return i < len(sibs)-1
		}
	}
	return false
}

// isLastChild checks if a node is the last child of its parent.
func isLastChild(n *tree.Node) bool {
	if n.Parent == nil {
		return true
	}
	sibs := n.Parent.Children
	return len(sibs) > 0 && sibs[len(sibs)-1] == n
}
