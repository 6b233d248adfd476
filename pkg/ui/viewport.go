package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

// Viewport adapts a bubbles viewport to the tree store's push contract:
// the store hands it the full row sequence after every mutation and the
// viewport paints only the window that intersects the scroll position.
// It satisfies tree.Viewport[string].
type Viewport struct {
	vp       viewport.Model
	rows     []string
	onScroll func(progress float64)
}

// NewViewport returns a viewport adapter with the given dimensions.
func NewViewport(width, height int) *Viewport {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 20
	}
	return &Viewport{vp: viewport.New(width, height)}
}

// OnScroll registers a scroll-progress callback, invoked with a value in
// [0, 1] whenever the visible window moves. The store re-emits it to its
// observers verbatim.
func (v *Viewport) OnScroll(fn func(progress float64)) {
	v.onScroll = fn
}

// Update receives the full current row sequence. Part of the store's
// viewport contract.
func (v *Viewport) Update(rows []string) {
	v.rows = rows
	v.vp.SetContent(strings.Join(rows, "\n"))
	v.clamp()
}

// Destroy tears down the viewport. Part of the store's viewport contract.
func (v *Viewport) Destroy() {
	v.rows = nil
	v.vp.SetContent("")
}

// View renders the currently visible window.
func (v *Viewport) View() string {
	return v.vp.View()
}

// Resize updates the window dimensions.
func (v *Viewport) Resize(width, height int) {
	v.vp.Width = width
	v.vp.Height = height
	v.clamp()
}

// Height returns the number of rows the window can show.
func (v *Viewport) Height() int { return v.vp.Height }

// Offset returns the index of the first visible row.
func (v *Viewport) Offset() int { return v.vp.YOffset }

// LineDown scrolls the window down one row.
func (v *Viewport) LineDown() {
	v.vp.LineDown(1)
	v.notifyScroll()
}

// LineUp scrolls the window up one row.
func (v *Viewport) LineUp() {
	v.vp.LineUp(1)
	v.notifyScroll()
}

// HalfPageDown scrolls the window down half its height.
func (v *Viewport) HalfPageDown() {
	v.vp.HalfViewDown()
	v.notifyScroll()
}

// HalfPageUp scrolls the window up half its height.
func (v *Viewport) HalfPageUp() {
	v.vp.HalfViewUp()
	v.notifyScroll()
}

// ScrollTo adjusts the offset just enough to make row index visible,
// cursor-at-edge style: scrolling stops as soon as the row enters the
// window.
func (v *Viewport) ScrollTo(index int) {
	if len(v.rows) == 0 {
		return
	}
	if index < 0 {
		index = 0
	}
	if index >= len(v.rows) {
		index = len(v.rows) - 1
	}
	if index < v.vp.YOffset {
		v.vp.SetYOffset(index)
	} else if index >= v.vp.YOffset+v.vp.Height {
		v.vp.SetYOffset(index - v.vp.Height + 1)
	}
	v.notifyScroll()
}

// Progress returns the scroll position in [0, 1].
func (v *Viewport) Progress() float64 {
	return v.vp.ScrollPercent()
}

// clamp keeps the offset valid after the row set shrinks or the window
// resizes.
func (v *Viewport) clamp() {
	maxOffset := len(v.rows) - v.vp.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.vp.YOffset > maxOffset {
		v.vp.SetYOffset(maxOffset)
	}
}

func (v *Viewport) notifyScroll() {
	if v.onScroll != nil {
		v.onScroll(v.Progress())
	}
}
