package wm

import (
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/jezek/xgb/xproto"
)

type Pad struct {
	Up    uint16
	Right uint16
	Down  uint16
	Left  uint16
}

// Monitor is an output region showing one tag at a time.
type Monitor struct {
	conn  Conn
	Index int
	Rect  xproto.Rectangle
	Pad   Pad
	Tag   *Tag
}

// InnerRect is the monitor rect minus the pads reserved for panels.
func (m *Monitor) InnerRect() xproto.Rectangle {
	rect := m.Rect
	rect.X += int16(m.Pad.Left)
	rect.Y += int16(m.Pad.Up)
	if w := int(rect.Width) - int(m.Pad.Left) - int(m.Pad.Right); w > 0 {
		rect.Width = uint16(w)
	} else {
		rect.Width = 1
	}
	if h := int(rect.Height) - int(m.Pad.Up) - int(m.Pad.Down); h > 0 {
		rect.Height = uint16(h)
	} else {
		rect.Height = 1
	}
	return rect
}

func (m *Monitor) Contains(p Point) bool {
	return p.X >= m.Rect.X && p.X < m.Rect.X+int16(m.Rect.Width) &&
		p.Y >= m.Rect.Y && p.Y < m.Rect.Y+int16(m.Rect.Height)
}

// ApplyLayout lays the monitor's tag out inside the usable area.
// Fullscreen clients are placed last, over the full monitor rect.
func (m *Monitor) ApplyLayout() {
	if m.Tag == nil {
		return
	}
	inner := m.InnerRect()
	if m.Tag.Floating {
		for _, c := range m.Tag.Clients() {
			if c.Minimized {
				c.Hide()
				continue
			}
			if c.Fullscreen {
				continue
			}
			c.ResizeFloating(inner)
		}
	} else {
		m.Tag.Root.ApplyLayout(inner)
	}
	for _, c := range m.Tag.Clients() {
		if c.Fullscreen && !c.Minimized {
			c.FullscreenTo(m.Rect)
		}
	}
}

type MonitorManager struct {
	conn     Conn
	tags     *TagManager
	desktops *DesktopWindows
	panels   *PanelManager

	monitors []*Monitor
	focusIdx int

	// detect queries the hardware for output geometries; nil falls back
	// to the root window geometry.
	detect func() ([]xproto.Rectangle, error)
}

func NewMonitorManager(conn Conn, tags *TagManager, desktops *DesktopWindows) *MonitorManager {
	mm := &MonitorManager{
		conn:     conn,
		tags:     tags,
		desktops: desktops,
	}
	rect, err := conn.Geometry(conn.Root())
	if err != nil {
		rect = xproto.Rectangle{Width: 800, Height: 600}
	}
	mm.applyMonitorRects([]xproto.Rectangle{rect})
	return mm
}

func (mm *MonitorManager) SetPanels(panels *PanelManager) { mm.panels = panels }

func (mm *MonitorManager) SetDetect(fn func() ([]xproto.Rectangle, error)) { mm.detect = fn }

func (mm *MonitorManager) All() []*Monitor { return mm.monitors }

func (mm *MonitorManager) Focus() *Monitor {
	if len(mm.monitors) == 0 {
		return nil
	}
	if mm.focusIdx >= len(mm.monitors) {
		mm.focusIdx = 0
	}
	return mm.monitors[mm.focusIdx]
}

func (mm *MonitorManager) SetFocus(m *Monitor) {
	for i, other := range mm.monitors {
		if other == m {
			mm.focusIdx = i
			return
		}
	}
}

func (mm *MonitorManager) ByTag(t *Tag) *Monitor {
	if t == nil {
		return nil
	}
	for _, m := range mm.monitors {
		if m.Tag == t {
			return m
		}
	}
	return nil
}

func (mm *MonitorManager) ByCoordinate(p Point) *Monitor {
	for _, m := range mm.monitors {
		if m.Contains(p) {
			return m
		}
	}
	return nil
}

// Restack pushes desktop windows below everything else.
func (mm *MonitorManager) Restack() {
	for _, win := range mm.desktops.All() {
		mm.conn.LowerWindow(win)
	}
}

// FocusFrame focuses a frame leaf: its monitor, its tag's frame selection
// and its selected client if any.
func (mm *MonitorManager) FocusFrame(leaf *FrameLeaf) {
	if leaf == nil {
		return
	}
	tag := leaf.Tag()
	if mon := mm.ByTag(tag); mon != nil {
		mm.SetFocus(mon)
	}
	tag.SetFocusedFrame(leaf)
	if c := leaf.FocusedClient(); c != nil {
		mm.conn.SetInputFocus(c.Window)
	}
}

// ShowTag displays a tag on the monitor. When the tag is already visible
// elsewhere the two monitors swap tags.
func (mm *MonitorManager) ShowTag(mon *Monitor, tag *Tag) {
	if mon == nil || tag == nil || mon.Tag == tag {
		return
	}
	if other := mm.ByTag(tag); other != nil {
		other.Tag, mon.Tag = mon.Tag, tag
		other.ApplyLayout()
	} else {
		if mon.Tag != nil {
			mon.Tag.Root.Unmap()
		}
		mon.Tag = tag
	}
	mon.ApplyLayout()
	mm.Restack()
	// the map/unmap storm moves windows under the pointer
	mm.DropEnterNotify()
}

// UpdatePads recomputes panel-reserved margins and relayouts.
func (mm *MonitorManager) UpdatePads() {
	for _, m := range mm.monitors {
		if mm.panels != nil {
			m.Pad = mm.panels.Pads(m.Rect)
		}
		m.ApplyLayout()
	}
}

// DetectMonitorsCommand re-queries output geometry and reconciles the
// monitor list, printing the result. It backs the `detect_monitors`
// command and the auto-detection on root geometry changes.
func (mm *MonitorManager) DetectMonitorsCommand(input command.Input, channels command.OutputChannels) int {
	var rects []xproto.Rectangle
	if mm.detect != nil {
		var err error
		rects, err = mm.detect()
		if err != nil {
			fmt.Fprintf(channels.Err, "detect_monitors: %v\n", err)
			return command.ExitError
		}
	}
	if len(rects) == 0 {
		rect, err := mm.conn.Geometry(mm.conn.Root())
		if err != nil {
			fmt.Fprintf(channels.Err, "detect_monitors: %v\n", err)
			return command.ExitError
		}
		rects = []xproto.Rectangle{rect}
	}
	mm.applyMonitorRects(rects)
	for _, m := range mm.monitors {
		fmt.Fprintf(channels.Out, "%d: %dx%d%+d%+d\n", m.Index, m.Rect.Width, m.Rect.Height, m.Rect.X, m.Rect.Y)
	}
	return command.ExitSuccess
}

// applyMonitorRects resizes existing monitors, adds monitors for new
// rects (showing the first hidden tags) and drops monitors beyond the
// detected count, moving their tags off screen.
func (mm *MonitorManager) applyMonitorRects(rects []xproto.Rectangle) {
	for i, rect := range rects {
		if i < len(mm.monitors) {
			mm.monitors[i].Rect = rect
			continue
		}
		mon := &Monitor{conn: mm.conn, Index: i, Rect: rect}
		mon.Tag = mm.firstHiddenTag()
		mm.monitors = append(mm.monitors, mon)
	}
	if len(rects) < len(mm.monitors) {
		for _, m := range mm.monitors[len(rects):] {
			if m.Tag != nil {
				m.Tag.Root.Unmap()
			}
		}
		mm.monitors = mm.monitors[:len(rects)]
		if mm.focusIdx >= len(mm.monitors) {
			mm.focusIdx = 0
		}
	}
	mm.UpdatePads()
	mm.Restack()
	slog.Debug("Applied monitor layout", "package", "wm", "monitors", len(mm.monitors))
}

func (mm *MonitorManager) firstHiddenTag() *Tag {
	for _, t := range mm.tags.All() {
		if mm.ByTag(t) == nil {
			return t
		}
	}
	return mm.tags.ByIndex(0)
}

// DropEnterNotify asks the event loop to flush pointer crossing noise
// after a restack or layout change.
func (mm *MonitorManager) DropEnterNotify() {
	bus.Publish(DropEnterNotifyEvents{})
}
