package wm

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"
)

// Strut is the screen-edge space a panel reserves, in root coordinates.
type Strut struct {
	Left   uint32
	Right  uint32
	Top    uint32
	Bottom uint32
}

type Panel struct {
	Window   xproto.Window
	Title    string
	Geometry xproto.Rectangle
	Strut    Strut
}

// PanelManager tracks dock windows and their reserved struts.
type PanelManager struct {
	conn       Conn
	panels     map[xproto.Window]*Panel
	rootWidth  uint16
	rootHeight uint16
	onChange   func()
}

func NewPanelManager(conn Conn) *PanelManager {
	return &PanelManager{
		conn:   conn,
		panels: make(map[xproto.Window]*Panel),
	}
}

// SetOnChange installs the relayout hook invoked whenever reserved space
// may have changed.
func (pm *PanelManager) SetOnChange(fn func()) { pm.onChange = fn }

func (pm *PanelManager) changed() {
	if pm.onChange != nil {
		pm.onChange()
	}
}

func (pm *PanelManager) All() []*Panel {
	out := make([]*Panel, 0, len(pm.panels))
	for _, p := range pm.panels {
		out = append(out, p)
	}
	return out
}

func (pm *PanelManager) RegisterPanel(win xproto.Window) {
	if _, ok := pm.panels[win]; ok {
		return
	}
	p := &Panel{Window: win}
	if rect, err := pm.conn.Geometry(win); err == nil {
		p.Geometry = rect
	}
	p.Strut = pm.readStrut(win)
	if title, ok := pm.conn.GetPropertyString(win, xproto.AtomWmName); ok {
		p.Title = title
	}
	pm.panels[win] = p
	slog.Debug("Registered panel", "package", "wm", "window", win, "title", p.Title)
	pm.changed()
}

func (pm *PanelManager) UnregisterPanel(win xproto.Window) {
	if _, ok := pm.panels[win]; !ok {
		return
	}
	delete(pm.panels, win)
	slog.Debug("Unregistered panel", "package", "wm", "window", win)
	pm.changed()
}

// PropertyChanged re-reads the strut or title of a tracked panel.
func (pm *PanelManager) PropertyChanged(win xproto.Window, atom xproto.Atom) {
	p, ok := pm.panels[win]
	if !ok {
		return
	}
	switch atom {
	case pm.conn.Atom("_NET_WM_STRUT_PARTIAL"), pm.conn.Atom("_NET_WM_STRUT"):
		p.Strut = pm.readStrut(win)
		pm.changed()
	case xproto.AtomWmName, pm.conn.Atom("_NET_WM_NAME"):
		if title, ok := pm.conn.GetPropertyString(win, atom); ok {
			p.Title = title
		}
	}
}

func (pm *PanelManager) GeometryChanged(win xproto.Window, rect xproto.Rectangle) {
	p, ok := pm.panels[win]
	if !ok {
		return
	}
	p.Geometry = rect
	pm.changed()
}

func (pm *PanelManager) RootWindowChanged(width, height uint16) {
	pm.rootWidth, pm.rootHeight = width, height
	pm.changed()
}

func (pm *PanelManager) readStrut(win xproto.Window) Strut {
	values, ok := pm.conn.GetPropertyCardinals(win, pm.conn.Atom("_NET_WM_STRUT_PARTIAL"))
	if !ok {
		values, ok = pm.conn.GetPropertyCardinals(win, pm.conn.Atom("_NET_WM_STRUT"))
	}
	if !ok || len(values) < 4 {
		return Strut{}
	}
	return Strut{Left: values[0], Right: values[1], Top: values[2], Bottom: values[3]}
}

// Pads converts the struts of every registered panel into a monitor
// rect's reserved margins; panels are not tested for overlap with it. Struts are root-relative; only
// monitors touching the corresponding screen edge reserve space.
func (pm *PanelManager) Pads(rect xproto.Rectangle) Pad {
	var pad Pad
	for _, p := range pm.panels {
		if p.Strut.Left > 0 && rect.X == 0 {
			if v := uint16(p.Strut.Left); v > pad.Left {
				pad.Left = v
			}
		}
		if p.Strut.Top > 0 && rect.Y == 0 {
			if v := uint16(p.Strut.Top); v > pad.Up {
				pad.Up = v
			}
		}
		if p.Strut.Right > 0 && pm.rootWidth > 0 && rect.X+int16(rect.Width) >= int16(pm.rootWidth) {
			if v := uint16(p.Strut.Right); v > pad.Right {
				pad.Right = v
			}
		}
		if p.Strut.Bottom > 0 && pm.rootHeight > 0 && rect.Y+int16(rect.Height) >= int16(pm.rootHeight) {
			if v := uint16(p.Strut.Bottom); v > pad.Down {
				pad.Down = v
			}
		}
	}
	return pad
}
