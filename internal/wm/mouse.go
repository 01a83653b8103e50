package wm

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/jezek/xgb/xproto"
)

type MouseAction int

const (
	MouseMove MouseAction = iota
	MouseResize
	MouseZoom
)

type MouseBinding struct {
	Mods   uint16
	Button xproto.Button
	Action MouseAction
}

// MouseManager owns the drag state machine: a press matching a binding
// (or a press on a decoration's resize area) starts a drag, motion
// events feed it, a release ends it.
type MouseManager struct {
	conn        Conn
	clients     *ClientManager
	monitors    *MonitorManager
	decorations *Decorations
	binds       []MouseBinding
	drag        *drag
}

type drag struct {
	client    *Client
	action    MouseAction
	resize    ResizeAction
	start     Point
	startRect xproto.Rectangle
}

func NewMouseManager(conn Conn, clients *ClientManager, monitors *MonitorManager, decorations *Decorations, cfg []config.Mousebind) *MouseManager {
	mm := &MouseManager{
		conn:        conn,
		clients:     clients,
		monitors:    monitors,
		decorations: decorations,
	}
	for _, mb := range cfg {
		mods, err := ParseModifiers(mb.Mods)
		if err != nil {
			slog.Warn("Ignoring mousebind", "package", "wm", "button", mb.Button, "error", err)
			continue
		}
		var action MouseAction
		switch mb.Action {
		case "move":
			action = MouseMove
		case "resize":
			action = MouseResize
		case "zoom":
			action = MouseZoom
		default:
			slog.Warn("Ignoring mousebind with unknown action", "package", "wm", "action", mb.Action)
			continue
		}
		mm.binds = append(mm.binds, MouseBinding{Mods: mods, Button: xproto.Button(mb.Button), Action: action})
	}
	return mm
}

// HandleEvent offers a button press to the binding table; it reports
// whether the press was consumed.
func (mm *MouseManager) HandleEvent(state uint16, button xproto.Button, win xproto.Window) bool {
	state &= relevantModMask
	for _, b := range mm.binds {
		if b.Button != button || b.Mods != state {
			continue
		}
		c := mm.clients.Client(win)
		if c == nil {
			c = mm.decorations.ToClient(win)
		}
		if c == nil {
			return false
		}
		switch b.Action {
		case MouseResize:
			mm.InitiateResize(c, ResizeAction{Right: true, Bottom: true})
		case MouseZoom:
			mm.InitiateResize(c, ResizeAction{Left: true, Right: true, Top: true, Bottom: true})
		default:
			mm.InitiateMove(c)
		}
		return true
	}
	return false
}

// InitiateMove starts drag-moving a floating client. Tiled clients are
// not moved by the pointer.
func (mm *MouseManager) InitiateMove(c *Client) {
	if c == nil || !c.IsFloated() {
		return
	}
	x, y, ok := mm.conn.QueryPointer()
	if !ok {
		return
	}
	mm.drag = &drag{
		client:    c,
		action:    MouseMove,
		start:     Point{X: x, Y: y},
		startRect: c.FloatSize,
	}
	mm.clients.SetDragged(c)
}

// InitiateResize starts drag-resizing a floating client along the given
// edges; without an active edge the bottom-right corner is assumed.
func (mm *MouseManager) InitiateResize(c *Client, ra ResizeAction) {
	if c == nil || !c.IsFloated() {
		return
	}
	if !ra.Active() {
		ra = ResizeAction{Right: true, Bottom: true}
	}
	x, y, ok := mm.conn.QueryPointer()
	if !ok {
		return
	}
	mm.drag = &drag{
		client:    c,
		action:    MouseResize,
		resize:    ra,
		start:     Point{X: x, Y: y},
		startRect: c.FloatSize,
	}
	mm.clients.SetDragged(c)
}

// HandleMotionEvent applies the newest pointer position to the drag.
func (mm *MouseManager) HandleMotionEvent(p Point) {
	d := mm.drag
	if d == nil {
		return
	}
	dx := int(p.X) - int(d.start.X)
	dy := int(p.Y) - int(d.start.Y)
	rect := d.startRect
	if d.action == MouseMove {
		rect.X = d.startRect.X + int16(dx)
		rect.Y = d.startRect.Y + int16(dy)
	} else {
		if d.resize.Left {
			rect.X = d.startRect.X + int16(dx)
			rect.Width = clampDim(int(d.startRect.Width) - dx)
		}
		if d.resize.Right {
			rect.Width = clampDim(int(d.startRect.Width) + dx)
		}
		if d.resize.Top {
			rect.Y = d.startRect.Y + int16(dy)
			rect.Height = clampDim(int(d.startRect.Height) - dy)
		}
		if d.resize.Bottom {
			rect.Height = clampDim(int(d.startRect.Height) + dy)
		}
	}
	d.client.FloatSize = rect

	ref := xproto.Rectangle{}
	if mon := mm.monitors.ByTag(d.client.Tag); mon != nil {
		ref = mon.InnerRect()
	}
	d.client.ResizeFloating(ref)
}

func clampDim(v int) uint16 {
	if v < 1 {
		return 1
	}
	return uint16(v)
}

// StopDrag ends any in-progress drag.
func (mm *MouseManager) StopDrag() {
	if mm.drag == nil {
		return
	}
	mm.drag = nil
	mm.clients.SetDragged(nil)
}

func (mm *MouseManager) IsDragging() bool { return mm.drag != nil }

// ResizeAction reports how the current drag affects window edges; a
// move drag reports no edges.
func (mm *MouseManager) ResizeAction() ResizeAction {
	if mm.drag == nil || mm.drag.action == MouseMove {
		return ResizeAction{}
	}
	return mm.drag.resize
}
