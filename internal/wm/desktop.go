package wm

import (
	"github.com/jezek/xgb/xproto"
)

// DesktopWindows tracks EWMH desktop (wallpaper-style) windows, which
// are kept at the bottom of the stacking order.
type DesktopWindows struct {
	conn Conn
	wins []xproto.Window
}

func NewDesktopWindows(conn Conn) *DesktopWindows {
	return &DesktopWindows{conn: conn}
}

func (d *DesktopWindows) Register(win xproto.Window) {
	for _, w := range d.wins {
		if w == win {
			return
		}
	}
	d.wins = append(d.wins, win)
	d.conn.LowerWindow(win)
}

func (d *DesktopWindows) Unregister(win xproto.Window) bool {
	for i, w := range d.wins {
		if w == win {
			d.wins = append(d.wins[:i], d.wins[i+1:]...)
			return true
		}
	}
	return false
}

func (d *DesktopWindows) All() []xproto.Window {
	return d.wins
}
