package wm

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"
)

// FrameDecorations tracks the windows that visualize empty frame leaves
// so a click on one can focus the frame.
type FrameDecorations struct {
	conn     Conn
	byWindow map[xproto.Window]*FrameDecoration
}

func NewFrameDecorations(conn Conn) *FrameDecorations {
	return &FrameDecorations{
		conn:     conn,
		byWindow: make(map[xproto.Window]*FrameDecoration),
	}
}

func (fd *FrameDecorations) WithWindow(win xproto.Window) *FrameDecoration {
	return fd.byWindow[win]
}

func (fd *FrameDecorations) Create(leaf *FrameLeaf) *FrameDecoration {
	win, err := fd.conn.CreateSimpleWindow(leaf.Rect(),
		xproto.EventMaskButtonPress|xproto.EventMaskEnterWindow, true)
	if err != nil {
		slog.Debug("Failed to create frame decoration", "package", "wm", "error", err)
		return nil
	}
	dec := &FrameDecoration{conn: fd.conn, win: win, leaf: leaf}
	leaf.dec = dec
	fd.byWindow[win] = dec
	return dec
}

func (fd *FrameDecorations) Destroy(dec *FrameDecoration) {
	if dec == nil {
		return
	}
	delete(fd.byWindow, dec.win)
	if dec.leaf != nil {
		dec.leaf.dec = nil
	}
	fd.conn.DestroyWindow(dec.win)
}

type FrameDecoration struct {
	conn Conn
	win  xproto.Window
	leaf *FrameLeaf
}

func (d *FrameDecoration) Window() xproto.Window { return d.win }
func (d *FrameDecoration) Frame() *FrameLeaf     { return d.leaf }

func (d *FrameDecoration) SetGeometry(rect xproto.Rectangle) {
	d.conn.MoveResizeWindow(d.win, rect)
}
