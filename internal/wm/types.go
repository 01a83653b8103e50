// Package wm holds the window manager's model: clients, tags, frames,
// monitors, panels, decorations and the keyboard/mouse managers driving
// them. Everything in this package runs on the dispatcher thread.
package wm

import (
	"github.com/ItsNotGoodName/x-tilewm/internal/xcursor"
)

type Point struct {
	X int16
	Y int16
}

// Layout selects how a frame leaf arranges its clients.
type Layout int

const (
	LayoutVertical Layout = iota
	LayoutHorizontal
	LayoutMax
	LayoutGrid
)

func (l Layout) String() string {
	switch l {
	case LayoutVertical:
		return "vertical"
	case LayoutHorizontal:
		return "horizontal"
	case LayoutMax:
		return "max"
	case LayoutGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// ResizeAction describes which window edges a resize affects.
type ResizeAction struct {
	Left   bool
	Right  bool
	Top    bool
	Bottom bool
}

func (ra ResizeAction) Active() bool {
	return ra.Left || ra.Right || ra.Top || ra.Bottom
}

// CursorShape maps the action to a cursor font glyph; ok is false when no
// edge is active.
func (ra ResizeAction) CursorShape() (uint16, bool) {
	switch {
	case ra.Top && ra.Left:
		return xcursor.TopLeftCorner, true
	case ra.Top && ra.Right:
		return xcursor.TopRightCorner, true
	case ra.Bottom && ra.Left:
		return xcursor.BottomLeftCorner, true
	case ra.Bottom && ra.Right:
		return xcursor.BottomRightCorner, true
	case ra.Top:
		return xcursor.TopSide, true
	case ra.Bottom:
		return xcursor.BottomSide, true
	case ra.Left:
		return xcursor.LeftSide, true
	case ra.Right:
		return xcursor.RightSide, true
	default:
		return 0, false
	}
}
