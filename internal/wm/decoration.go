package wm

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-tilewm/internal/xcursor"
	"github.com/jezek/xgb/xproto"
)

const (
	decoBorderWidth uint16 = 2
	decoTitleHeight uint16 = 16
	// resizeHandleWidth is how far from a decoration edge a press still
	// counts as a resize grip.
	resizeHandleWidth int16 = 6
)

// Decorations owns the decoration windows framing clients and the
// decoration-to-client lookup. A decoration window and a client window
// are distinct but mutually resolvable.
type Decorations struct {
	conn     Conn
	byWindow map[xproto.Window]*Client
}

func NewDecorations(conn Conn) *Decorations {
	return &Decorations{
		conn:     conn,
		byWindow: make(map[xproto.Window]*Client),
	}
}

// ToClient resolves a decoration window to the client it frames.
func (d *Decorations) ToClient(win xproto.Window) *Client {
	return d.byWindow[win]
}

// Create frames the client: a new decoration window is created and the
// client is reparented into it. Reparenting produces an UnmapNotify for
// a mapped client, which the unmap counter absorbs.
func (d *Decorations) Create(c *Client) {
	outer := outerRect(c.LastSize)
	win, err := d.conn.CreateSimpleWindow(outer,
		xproto.EventMaskEnterWindow|xproto.EventMaskButtonPress|xproto.EventMaskSubstructureNotify,
		true)
	if err != nil {
		slog.Debug("Failed to create decoration window", "package", "wm", "client", c.String(), "error", err)
		return
	}
	if c.visible {
		c.ignoreUnmaps++
	}
	d.conn.ReparentWindow(c.Window, win, int16(decoBorderWidth), int16(decoBorderWidth+decoTitleHeight))
	c.Dec = &Decoration{
		conn:   d.conn,
		client: c,
		win:    win,
		outer:  outer,
	}
	d.byWindow[win] = c
}

// Destroy reparents the client back to the root and drops the
// decoration window.
func (d *Decorations) Destroy(c *Client) {
	if c.Dec == nil {
		return
	}
	delete(d.byWindow, c.Dec.win)
	if c.visible {
		c.ignoreUnmaps++
	}
	d.conn.ReparentWindow(c.Window, d.conn.Root(), c.LastSize.X, c.LastSize.Y)
	d.conn.DestroyWindow(c.Dec.win)
	c.Dec = nil
}

func outerRect(inner xproto.Rectangle) xproto.Rectangle {
	return xproto.Rectangle{
		X:      inner.X,
		Y:      inner.Y,
		Width:  inner.Width + 2*decoBorderWidth,
		Height: inner.Height + 2*decoBorderWidth + decoTitleHeight,
	}
}

// TabButton is a clickable title-bar segment selecting one client of a
// max-layout leaf.
type TabButton struct {
	X      int16
	Width  uint16
	Client *Client
}

type Decoration struct {
	conn   Conn
	client *Client
	win    xproto.Window
	outer  xproto.Rectangle
	tabs   []TabButton
}

func (d *Decoration) Window() xproto.Window { return d.win }

// Apply moves the decoration to the outer rect and fits the client
// window inside it.
func (d *Decoration) Apply(rect xproto.Rectangle) {
	d.outer = rect
	d.conn.MoveResizeWindow(d.win, rect)

	innerW, innerH := uint16(1), uint16(1)
	if rect.Width > 2*decoBorderWidth {
		innerW = rect.Width - 2*decoBorderWidth
	}
	if rect.Height > 2*decoBorderWidth+decoTitleHeight {
		innerH = rect.Height - 2*decoBorderWidth - decoTitleHeight
	}
	d.conn.MoveResizeWindow(d.client.Window, xproto.Rectangle{
		X:      int16(decoBorderWidth),
		Y:      int16(decoBorderWidth + decoTitleHeight),
		Width:  innerW,
		Height: innerH,
	})
	d.updateTabs()
}

// updateTabs lays title-bar tabs out for every client sharing a
// max-layout leaf with this client, one tab each.
func (d *Decoration) updateTabs() {
	d.tabs = d.tabs[:0]
	if d.client.Tag == nil {
		return
	}
	leaf := d.client.Tag.FrameWithClient(d.client)
	if leaf == nil || leaf.Layout() != LayoutMax {
		return
	}
	clients := leaf.Clients(nil)
	if len(clients) == 0 {
		return
	}
	w := d.outer.Width / uint16(len(clients))
	if w == 0 {
		w = 1
	}
	x := int16(0)
	for _, c := range clients {
		d.tabs = append(d.tabs, TabButton{X: x, Width: w, Client: c})
		x += int16(w)
	}
}

// PositionHasButton returns the client of the tab button at a
// decoration-relative position.
func (d *Decoration) PositionHasButton(p Point) (*Client, bool) {
	if p.Y < 0 || p.Y >= int16(decoBorderWidth+decoTitleHeight) {
		return nil, false
	}
	for _, tab := range d.tabs {
		if p.X >= tab.X && p.X < tab.X+int16(tab.Width) {
			return tab.Client, true
		}
	}
	return nil, false
}

// PositionTriggersResize reports which resize edges a decoration-relative
// press position activates.
func (d *Decoration) PositionTriggersResize(p Point) (ResizeAction, bool) {
	var ra ResizeAction
	if p.X < resizeHandleWidth {
		ra.Left = true
	}
	if p.X >= int16(d.outer.Width)-resizeHandleWidth {
		ra.Right = true
	}
	if p.Y < resizeHandleWidth {
		ra.Top = true
	}
	if p.Y >= int16(d.outer.Height)-resizeHandleWidth {
		ra.Bottom = true
	}
	return ra, ra.Active()
}

// UpdateResizeAreaCursors refreshes the tab table and the decoration's
// base cursor. It runs on every pointer entry so stale tab geometry
// cannot survive a layout change.
func (d *Decoration) UpdateResizeAreaCursors() {
	d.updateTabs()
	d.conn.DefineCursor(d.win, d.conn.CreateFontCursor(xcursor.LeftPtr))
}
