package ui

import (
	"io"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treelist/pkg/tree"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func testTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(io.Discard))
}

func testForest() (a, b, c, e *tree.Node) {
	a = tree.NewNode("A", map[string]any{"title": "Alpha"})
	b = tree.NewNode("B", map[string]any{"title": "Bravo"})
	c = tree.NewNode("C", map[string]any{"title": "Charlie"})
	e = tree.NewNode("E", map[string]any{"title": "Echo"})
	b.Append(c)
	a.Append(b)
	a.Append(e)
	tree.Flatten([]*tree.Node{a}, tree.FlattenOptions{OpenAll: true})
	return a, b, c, e
}

func TestRowIndicators(t *testing.T) {
	a, b, c, _ := testForest()
	r := NewRenderer(testTheme(), 80)

	if got := stripANSI(r.Row(a)); !strings.Contains(got, "▾") {
		t.Errorf("open node row missing open indicator: %q", got)
	}

	b.State.Open = false
	if got := stripANSI(r.Row(b)); !strings.Contains(got, "▸") {
		t.Errorf("closed node row missing closed indicator: %q", got)
	}
	if got := stripANSI(r.Row(c)); !strings.Contains(got, "•") {
		t.Errorf("leaf row missing leaf indicator: %q", got)
	}
}

func TestRowHiddenChildCounter(t *testing.T) {
	_, b, _, _ := testForest()
	r := NewRenderer(testTheme(), 80)

	b.State.Open = false
	if got := stripANSI(r.Row(b)); !strings.Contains(got, "(1)") {
		t.Errorf("closed expandable row missing hidden child count: %q", got)
	}

	b.State.Open = true
	if got := stripANSI(r.Row(b)); strings.Contains(got, "(1)") {
		t.Errorf("open row must not show a hidden child count: %q", got)
	}
}

func TestRowBranchPrefix(t *testing.T) {
	a, b, c, e := testForest()
	r := NewRenderer(testTheme(), 80)

	if got := stripANSI(r.Row(a)); strings.ContainsAny(got, "├└│") {
		t.Errorf("root row should carry no branch characters: %q", got)
	}
	// B has a sibling below, C is the last (only) child of B.
	if got := stripANSI(r.Row(b)); !strings.Contains(got, "├── ") {
		t.Errorf("mid child row missing branch: %q", got)
	}
	if got := stripANSI(r.Row(e)); !strings.Contains(got, "└── ") {
		t.Errorf("last child row missing terminal branch: %q", got)
	}
	// C sits under B which has E below it, so the prefix continues the
	// vertical rule.
	if got := stripANSI(r.Row(c)); !strings.Contains(got, "│   └── ") {
		t.Errorf("nested row missing continuation: %q", got)
	}
}

func TestRowContent(t *testing.T) {
	a, _, _, _ := testForest()
	r := NewRenderer(testTheme(), 80)

	got := stripANSI(r.Row(a))
	if !strings.Contains(got, "A") || !strings.Contains(got, "Alpha") {
		t.Errorf("row missing id or title: %q", got)
	}
}

func TestRowTitleFallsBackToID(t *testing.T) {
	n := tree.NewNode("orphan", nil)
	tree.Flatten([]*tree.Node{n}, tree.FlattenOptions{})
	r := NewRenderer(testTheme(), 80)

	if got := stripANSI(r.Row(n)); strings.Count(got, "orphan") != 2 {
		t.Errorf("untitled row should show the id in both columns: %q", got)
	}
}

func TestRowWidth(t *testing.T) {
	a, _, _, _ := testForest()

	for _, width := range []int{40, 80, 120} {
		r := NewRenderer(testTheme(), width)
		got := stripANSI(r.Row(a))
		if w := runewidth.StringWidth(got); w != width-1 {
			t.Errorf("width %d: row measures %d cells", width, w)
		}
	}
}

func TestRowLongTitleTruncated(t *testing.T) {
	n := tree.NewNode("x", map[string]any{"title": strings.Repeat("long ", 50)})
	tree.Flatten([]*tree.Node{n}, tree.FlattenOptions{})
	r := NewRenderer(testTheme(), 40)

	got := stripANSI(r.Row(n))
	if w := runewidth.StringWidth(got); w != 39 {
		t.Errorf("row measures %d cells, want 39", w)
	}
	if !strings.Contains(got, "…") {
		t.Errorf("truncated title missing ellipsis: %q", got)
	}
}

func TestRowLongIDTruncated(t *testing.T) {
	n := tree.NewNode(strings.Repeat("i", 40), map[string]any{"title": "t"})
	tree.Flatten([]*tree.Node{n}, tree.FlattenOptions{})
	r := NewRenderer(testTheme(), 80)

	got := stripANSI(r.Row(n))
	if strings.Contains(got, strings.Repeat("i", 25)) {
		t.Errorf("id column not truncated: %q", got)
	}
}

func TestRowSelectedDiffers(t *testing.T) {
	a, _, _, _ := testForest()
	r := NewRenderer(testTheme(), 80)

	plain := r.Row(a)
	a.State.Selected = true
	selected := r.Row(a)
	a.State.Selected = false

	// With a non-TTY renderer the styles collapse, but the content must
	// stay intact either way.
	if stripANSI(plain) == "" || stripANSI(selected) == "" {
		t.Error("row rendered empty")
	}
	if !strings.Contains(stripANSI(selected), "Alpha") {
		t.Errorf("selected row lost its title: %q", stripANSI(selected))
	}
}

func TestRowNilNode(t *testing.T) {
	r := NewRenderer(testTheme(), 80)
	if got := r.Row(nil); got != "" {
		t.Errorf("nil node rendered %q", got)
	}
}

func TestSetWidth(t *testing.T) {
	a, _, _, _ := testForest()
	r := NewRenderer(testTheme(), 80)
	r.SetWidth(40)

	if w := runewidth.StringWidth(stripANSI(r.Row(a))); w != 39 {
		t.Errorf("row measures %d cells after SetWidth(40)", w)
	}

	r.SetWidth(0) // ignored
	if w := runewidth.StringWidth(stripANSI(r.Row(a))); w != 39 {
		t.Errorf("SetWidth(0) should be ignored, row measures %d", w)
	}
}

func TestTruncateWidth(t *testing.T) {
	cases := []struct {
		in    string
		max   int
		wantW int
	}{
		{"hello", 10, 5},
		{"hello world", 8, 8},
		{"日本語テキスト", 8, 7}, // wide runes cannot split a cell
		{"x", 0, 0},
	}
	for _, tc := range cases {
		got := truncateWidth(tc.in, tc.max, "…")
		if w := runewidth.StringWidth(got); w != tc.wantW {
			t.Errorf("truncateWidth(%q, %d) = %q (width %d), want width %d",
				tc.in, tc.max, got, w, tc.wantW)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 5); got != "abcdef" {
		t.Errorf("padRight must not trim: %q", got)
	}
}
