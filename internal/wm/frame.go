package wm

import (
	"github.com/jezek/xgb/xproto"
)

// Frame is a node in a tag's tiling tree: either a split or a leaf
// holding clients.
type Frame interface {
	FrameWithClient(c *Client) *FrameLeaf
	FirstLeaf() *FrameLeaf
	Clients(out []*Client) []*Client
	ApplyLayout(rect xproto.Rectangle)
	Unmap()
}

type FrameLeaf struct {
	tag       *Tag
	clients   []*Client
	layout    Layout
	selection int
	dec       *FrameDecoration
	rect      xproto.Rectangle
}

func newFrameLeaf(tag *Tag) *FrameLeaf {
	return &FrameLeaf{tag: tag}
}

func (f *FrameLeaf) Tag() *Tag           { return f.tag }
func (f *FrameLeaf) Layout() Layout      { return f.layout }
func (f *FrameLeaf) SetLayout(l Layout)  { f.layout = l }
func (f *FrameLeaf) Rect() xproto.Rectangle { return f.rect }

func (f *FrameLeaf) FrameWithClient(c *Client) *FrameLeaf {
	for _, other := range f.clients {
		if other == c {
			return f
		}
	}
	return nil
}

func (f *FrameLeaf) FirstLeaf() *FrameLeaf { return f }

func (f *FrameLeaf) Clients(out []*Client) []*Client {
	return append(out, f.clients...)
}

// FocusedClient returns the client the leaf's selection points at.
func (f *FrameLeaf) FocusedClient() *Client {
	if len(f.clients) == 0 {
		return nil
	}
	if f.selection >= len(f.clients) {
		return f.clients[len(f.clients)-1]
	}
	return f.clients[f.selection]
}

func (f *FrameLeaf) Select(c *Client) {
	for i, other := range f.clients {
		if other == c {
			f.selection = i
			return
		}
	}
}

func (f *FrameLeaf) addClient(c *Client) {
	f.clients = append(f.clients, c)
}

func (f *FrameLeaf) removeClient(c *Client) bool {
	for i, other := range f.clients {
		if other == c {
			f.clients = append(f.clients[:i], f.clients[i+1:]...)
			if f.selection > 0 && f.selection >= len(f.clients) {
				f.selection = len(f.clients) - 1
			}
			return true
		}
	}
	return false
}

// ApplyLayout positions every tiled client of the leaf inside rect.
// Floating clients keep their own geometry and minimized clients stay
// hidden; the max layout stacks all clients on the full rect and raises
// the selected one.
func (f *FrameLeaf) ApplyLayout(rect xproto.Rectangle) {
	f.rect = rect
	if f.dec != nil {
		f.dec.SetGeometry(rect)
	}

	tiled := make([]*Client, 0, len(f.clients))
	for _, c := range f.clients {
		if c.Minimized {
			c.Hide()
			continue
		}
		if c.Fullscreen {
			// the monitor places fullscreen clients over its full rect
			continue
		}
		if c.IsFloated() {
			c.ResizeFloating(rect)
			continue
		}
		tiled = append(tiled, c)
	}
	if len(tiled) == 0 {
		return
	}

	switch f.layout {
	case LayoutMax:
		for _, c := range tiled {
			c.Tile(rect)
		}
		if sel := f.FocusedClient(); sel != nil && !sel.IsFloated() {
			sel.Raise()
		}
	case LayoutHorizontal:
		w := rect.Width / uint16(len(tiled))
		x := rect.X
		for i, c := range tiled {
			cw := w
			if i == len(tiled)-1 {
				cw = rect.Width - uint16(len(tiled)-1)*w
			}
			c.Tile(xproto.Rectangle{X: x, Y: rect.Y, Width: cw, Height: rect.Height})
			x += int16(w)
		}
	case LayoutGrid:
		cols := 1
		for cols*cols < len(tiled) {
			cols++
		}
		rows := (len(tiled) + cols - 1) / cols
		w := rect.Width / uint16(cols)
		h := rect.Height / uint16(rows)
		for i, c := range tiled {
			col, row := i%cols, i/cols
			c.Tile(xproto.Rectangle{
				X:      rect.X + int16(col)*int16(w),
				Y:      rect.Y + int16(row)*int16(h),
				Width:  w,
				Height: h,
			})
		}
	default: // LayoutVertical
		h := rect.Height / uint16(len(tiled))
		y := rect.Y
		for i, c := range tiled {
			ch := h
			if i == len(tiled)-1 {
				ch = rect.Height - uint16(len(tiled)-1)*h
			}
			c.Tile(xproto.Rectangle{X: rect.X, Y: y, Width: rect.Width, Height: ch})
			y += int16(h)
		}
	}
}

func (f *FrameLeaf) Unmap() {
	for _, c := range f.clients {
		c.Hide()
	}
}

// FrameSplit divides its rect between two child frames.
type FrameSplit struct {
	a, b     Frame
	vertical bool
	percent  int
}

func (s *FrameSplit) FrameWithClient(c *Client) *FrameLeaf {
	if leaf := s.a.FrameWithClient(c); leaf != nil {
		return leaf
	}
	return s.b.FrameWithClient(c)
}

func (s *FrameSplit) FirstLeaf() *FrameLeaf { return s.a.FirstLeaf() }

func (s *FrameSplit) Clients(out []*Client) []*Client {
	return s.b.Clients(s.a.Clients(out))
}

func (s *FrameSplit) ApplyLayout(rect xproto.Rectangle) {
	ra, rb := rect, rect
	if s.vertical {
		ra.Height = uint16(int(rect.Height) * s.percent / 100)
		rb.Y = ra.Y + int16(ra.Height)
		rb.Height = rect.Height - ra.Height
	} else {
		ra.Width = uint16(int(rect.Width) * s.percent / 100)
		rb.X = ra.X + int16(ra.Width)
		rb.Width = rect.Width - ra.Width
	}
	s.a.ApplyLayout(ra)
	s.b.ApplyLayout(rb)
}

func (s *FrameSplit) Unmap() {
	s.a.Unmap()
	s.b.Unmap()
}
