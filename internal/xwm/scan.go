package xwm

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-tilewm/internal/ewmh"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/jezek/xgb/xproto"
)

// ScanExistingClients classifies the windows that already exist at
// startup: desktop windows and docks are registered, viewable windows
// and windows the previous manager listed become clients. A second pass
// over the previous _NET_CLIENT_LIST re-adopts clients that were
// unmapped when that manager exited, preserving the session across a
// restart.
func (m *MainLoop) ScanExistingClients() {
	original := m.root.Ewmh.OriginalClientList()
	inOriginal := func(win xproto.Window) bool {
		for _, w := range original {
			if w == win {
				return true
			}
		}
		return false
	}
	findTagForWindow := func(win xproto.Window) func(*wm.ClientChanges) {
		if !m.root.Settings.ImportTagsFromEwmh() {
			return nil
		}
		return func(changes *wm.ClientChanges) {
			idx, ok := m.root.Ewmh.WindowGetInitialDesktop(win)
			if !ok || idx < 0 {
				return
			}
			if tag := m.root.Tags.ByIndex(idx); tag != nil {
				changes.TagName = tag.Name
			}
		}
	}

	for _, win := range m.conn.QueryTree(m.conn.Root()) {
		attrs, err := m.conn.GetAttributes(win)
		if err != nil || attrs.OverrideRedirect {
			continue
		}
		if m.root.Ewmh.IsOwnWindow(win) {
			continue
		}
		switch m.root.Ewmh.WindowType(win) {
		case ewmh.WindowTypeDesktop:
			m.root.Desktops.Register(win)
			m.root.Monitors.Restack()
			m.conn.MapWindow(win)
		case ewmh.WindowTypeDock:
			m.root.Panels.RegisterPanel(win)
			m.conn.SelectInput(win, xproto.EventMaskPropertyChange)
			m.conn.MapWindow(win)
		default:
			// only manage mapped windows, except those the previous
			// manager already listed as clients
			if attrs.MapState != xproto.MapStateViewable && !inOriginal(win) {
				continue
			}
			c := m.root.Clients.ManageClient(win, true, false, findTagForWindow(win))
			if c != nil && m.root.Monitors.ByTag(c.Tag) != nil {
				m.conn.MapWindow(win)
			}
		}
	}

	// ensure every original client is managed again
	for _, win := range original {
		if m.root.Clients.Client(win) != nil {
			continue
		}
		attrs, err := m.conn.GetAttributes(win)
		if err != nil || attrs.OverrideRedirect {
			continue
		}
		m.conn.ReparentWindow(win, m.conn.Root(), 0, 0)
		m.root.Clients.ManageClient(win, true, false, findTagForWindow(win))
		slog.Debug("Re-adopted client from previous window manager", "package", "xwm", "window", win)
	}
	m.root.Monitors.Restack()
}
