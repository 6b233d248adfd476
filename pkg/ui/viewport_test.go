package ui

import (
	"fmt"
	"strings"
	"testing"
)

func makeRows(n int) []string {
	rows := make([]string, n)
	for i := range rows {
		rows[i] = fmt.Sprintf("row %d", i)
	}
	return rows
}

func TestViewportShowsWindow(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(50))

	view := v.View()
	if !strings.Contains(view, "row 0") {
		t.Errorf("initial window missing first row: %q", view)
	}
	if strings.Contains(view, "row 10") {
		t.Errorf("window leaked rows past its height: %q", view)
	}
}

func TestViewportScrollToBelowWindow(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(50))

	v.ScrollTo(10)
	// Cursor-at-edge: the target becomes the last visible row.
	if got := v.Offset(); got != 6 {
		t.Errorf("offset = %d, want 6", got)
	}
	if !strings.Contains(v.View(), "row 10") {
		t.Error("target row not visible after scroll")
	}
}

func TestViewportScrollToAboveWindow(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(50))

	v.ScrollTo(30)
	v.ScrollTo(3)
	// Scrolling up puts the target at the top edge.
	if got := v.Offset(); got != 3 {
		t.Errorf("offset = %d, want 3", got)
	}
}

func TestViewportScrollToInsideWindowIsStable(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(50))

	v.ScrollTo(10)
	before := v.Offset()
	v.ScrollTo(8) // already visible
	if v.Offset() != before {
		t.Errorf("offset moved from %d to %d for an already-visible row", before, v.Offset())
	}
}

func TestViewportScrollToClampsIndex(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(10))

	v.ScrollTo(999)
	if got := v.Offset(); got != 5 {
		t.Errorf("offset = %d, want 5", got)
	}
	v.ScrollTo(-5)
	if got := v.Offset(); got != 0 {
		t.Errorf("offset = %d, want 0", got)
	}
}

func TestViewportClampsAfterShrink(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(50))
	v.ScrollTo(49)

	// Content shrinks below the current offset; the window must follow.
	v.Update(makeRows(8))
	if got := v.Offset(); got != 3 {
		t.Errorf("offset = %d after shrink, want 3", got)
	}
}

func TestViewportScrollCallback(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(40))

	var got []float64
	v.OnScroll(func(p float64) { got = append(got, p) })

	v.LineDown()
	v.HalfPageDown()
	v.LineUp()
	v.HalfPageUp()

	if len(got) != 4 {
		t.Fatalf("expected 4 callbacks, got %d", len(got))
	}
	for i, p := range got {
		if p < 0 || p > 1 {
			t.Errorf("progress[%d] = %f out of [0,1]", i, p)
		}
	}
	if got[0] <= 0 {
		t.Error("scrolling down should report forward progress")
	}
}

func TestViewportResize(t *testing.T) {
	v := NewViewport(20, 10)
	v.Update(makeRows(30))
	v.ScrollTo(29)

	v.Resize(20, 25)
	if got := v.Offset(); got != 5 {
		t.Errorf("offset = %d after grow, want 5", got)
	}
	if v.Height() != 25 {
		t.Errorf("height = %d, want 25", v.Height())
	}
}

func TestViewportDestroy(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(makeRows(10))
	v.Destroy()

	if strings.Contains(v.View(), "row 0") {
		t.Error("destroyed viewport still shows content")
	}
}

func TestViewportEmptyRows(t *testing.T) {
	v := NewViewport(20, 5)
	v.Update(nil)
	v.ScrollTo(3) // must not panic
	if v.Offset() != 0 {
		t.Errorf("offset = %d for empty content", v.Offset())
	}
}
