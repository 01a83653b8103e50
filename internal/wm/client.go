package wm

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// WM_NORMAL_HINTS flag bits (ICCCM 4.1.2.3).
const (
	hintMinSize   = 1 << 4
	hintMaxSize   = 1 << 5
	hintResizeInc = 1 << 6
	hintBaseSize  = 1 << 8
)

// WM_HINTS urgency bit (ICCCM 4.1.2.4).
const hintUrgency = 1 << 8

type sizeHints struct {
	flags                  uint32
	minW, minH, maxW, maxH int
	incW, incH             int
	baseW, baseH           int
}

// Client is a managed top-level application window.
type Client struct {
	Window xproto.Window
	Dec    *Decoration
	Tag    *Tag
	Title  string
	Urgent bool

	Floating   bool
	Pseudotile bool
	Minimized  bool
	Fullscreen bool

	// SizeHintsFloating controls whether WM_NORMAL_HINTS are honored
	// while the client floats or pseudotiles.
	SizeHintsFloating bool

	// FloatSize is the client's geometry relative to its monitor while
	// floating; LastSize is the absolute geometry last applied.
	FloatSize xproto.Rectangle
	LastSize  xproto.Rectangle

	hints        sizeHints
	ignoreUnmaps int
	visible      bool
	conn         Conn
}

func NewClient(conn Conn, win xproto.Window) *Client {
	c := &Client{
		Window:            win,
		SizeHintsFloating: true,
		conn:              conn,
	}
	if rect, err := conn.Geometry(win); err == nil {
		c.FloatSize = rect
		c.LastSize = rect
	}
	return c
}

func (c *Client) String() string {
	return fmt.Sprintf("wm.Client(window=0x%x title=%q)", c.Window, c.Title)
}

func (c *Client) IsFloated() bool {
	return c.Floating || (c.Tag != nil && c.Tag.Floating)
}

// DecorationWindow returns the window framing the client, or 0 when the
// client is undecorated.
func (c *Client) DecorationWindow() xproto.Window {
	if c.Dec == nil {
		return 0
	}
	return c.Dec.Window()
}

func (c *Client) UpdateTitle() {
	if title, ok := c.conn.GetPropertyString(c.Window, c.conn.Atom("_NET_WM_NAME")); ok && title != "" {
		c.Title = title
		return
	}
	if title, ok := c.conn.GetPropertyString(c.Window, xproto.AtomWmName); ok {
		c.Title = title
	}
}

func (c *Client) UpdateWmHints() {
	values, ok := c.conn.GetPropertyCardinals(c.Window, xproto.AtomWmHints)
	if !ok || len(values) == 0 {
		return
	}
	c.Urgent = values[0]&hintUrgency != 0
}

func (c *Client) UpdateSizeHints() {
	values, ok := c.conn.GetPropertyCardinals(c.Window, xproto.AtomWmNormalHints)
	if !ok || len(values) < 18 {
		return
	}
	h := sizeHints{flags: values[0]}
	if h.flags&hintMinSize != 0 {
		h.minW, h.minH = int(int32(values[5])), int(int32(values[6]))
	}
	if h.flags&hintMaxSize != 0 {
		h.maxW, h.maxH = int(int32(values[7])), int(int32(values[8]))
	}
	if h.flags&hintResizeInc != 0 {
		h.incW, h.incH = int(int32(values[9])), int(int32(values[10]))
	}
	if h.flags&hintBaseSize != 0 {
		h.baseW, h.baseH = int(int32(values[15])), int(int32(values[16]))
	}
	c.hints = h
}

// ApplySizeHints clamps a requested size to the client's WM_NORMAL_HINTS.
func (c *Client) ApplySizeHints(w, h *uint16) {
	cw, ch := int(*w), int(*h)
	if c.hints.incW > 0 {
		cw = c.hints.baseW + (cw-c.hints.baseW)/c.hints.incW*c.hints.incW
	}
	if c.hints.incH > 0 {
		ch = c.hints.baseH + (ch-c.hints.baseH)/c.hints.incH*c.hints.incH
	}
	if c.hints.minW > 0 && cw < c.hints.minW {
		cw = c.hints.minW
	}
	if c.hints.minH > 0 && ch < c.hints.minH {
		ch = c.hints.minH
	}
	if c.hints.maxW > 0 && cw > c.hints.maxW {
		cw = c.hints.maxW
	}
	if c.hints.maxH > 0 && ch > c.hints.maxH {
		ch = c.hints.maxH
	}
	if cw < 1 {
		cw = 1
	}
	if ch < 1 {
		ch = 1
	}
	*w, *h = uint16(cw), uint16(ch)
}

// SendConfigure tells the client its current geometry without changing
// it, as ICCCM requires for ignored ConfigureRequests.
func (c *Client) SendConfigure() {
	ev := xproto.ConfigureNotifyEvent{
		Event:  c.Window,
		Window: c.Window,
		X:      c.LastSize.X,
		Y:      c.LastSize.Y,
		Width:  c.LastSize.Width,
		Height: c.LastSize.Height,
	}
	c.conn.SendEvent(c.Window, xproto.EventMaskStructureNotify, string(ev.Bytes()))
}

// Tile places the client at the given absolute rect. Pseudotiled clients
// keep their floating size, centered and clipped to the rect.
func (c *Client) Tile(rect xproto.Rectangle) {
	if c.Pseudotile {
		w, h := c.FloatSize.Width, c.FloatSize.Height
		if c.SizeHintsFloating {
			c.ApplySizeHints(&w, &h)
		}
		if w > rect.Width {
			w = rect.Width
		}
		if h > rect.Height {
			h = rect.Height
		}
		rect = xproto.Rectangle{
			X:      rect.X + int16(rect.Width-w)/2,
			Y:      rect.Y + int16(rect.Height-h)/2,
			Width:  w,
			Height: h,
		}
	}
	c.applyGeometry(rect)
}

// ResizeFloating places the client at its floating geometry, interpreted
// relative to the given reference rect (the monitor's usable area).
func (c *Client) ResizeFloating(ref xproto.Rectangle) {
	rect := xproto.Rectangle{
		X:      ref.X + c.FloatSize.X,
		Y:      ref.Y + c.FloatSize.Y,
		Width:  c.FloatSize.Width,
		Height: c.FloatSize.Height,
	}
	if c.SizeHintsFloating {
		c.ApplySizeHints(&rect.Width, &rect.Height)
	}
	c.applyGeometry(rect)
}

// FullscreenTo covers the whole monitor rect, ignoring pads. FloatSize
// is left untouched, so leaving fullscreen restores the previous
// geometry through the next layout run.
func (c *Client) FullscreenTo(rect xproto.Rectangle) {
	if c.Dec != nil {
		c.conn.MoveResizeWindow(c.Dec.Window(), rect)
		c.conn.MoveResizeWindow(c.Window, xproto.Rectangle{Width: rect.Width, Height: rect.Height})
	} else {
		c.conn.MoveResizeWindow(c.Window, rect)
	}
	c.LastSize = rect
	c.Show()
	c.Raise()
}

func (c *Client) applyGeometry(rect xproto.Rectangle) {
	if c.Dec != nil {
		c.Dec.Apply(rect)
	} else {
		c.conn.MoveResizeWindow(c.Window, rect)
	}
	c.LastSize = rect
	c.Show()
}

func (c *Client) Show() {
	if c.visible {
		return
	}
	c.visible = true
	if c.Dec != nil {
		c.conn.MapWindow(c.Dec.Window())
	}
	c.conn.MapWindow(c.Window)
}

// Hide unmaps the client, remembering to ignore the resulting
// UnmapNotify so the unmap state machine does not unmanage it.
func (c *Client) Hide() {
	if !c.visible {
		return
	}
	c.visible = false
	c.ignoreUnmaps++
	c.conn.UnmapWindow(c.Window)
	if c.Dec != nil {
		c.conn.UnmapWindow(c.Dec.Window())
	}
}

func (c *Client) Visible() bool { return c.visible }

func (c *Client) Raise() {
	if c.Dec != nil {
		c.conn.RaiseWindow(c.Dec.Window())
	}
	c.conn.RaiseWindow(c.Window)
}
