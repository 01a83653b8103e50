package xwm

import (
	"log/slog"
	"os"

	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/ewmh"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/x11"
	"github.com/jezek/xgb/xproto"
)

// Every handler receives the raw queued event and checks that the
// variant matches the type it was registered for; a mismatch drops the
// event.

func (m *MainLoop) buttonPress(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.ButtonPressEvent)
	if !ok {
		return
	}
	slog.Debug("ButtonPress", "package", "xwm", "window", ev.Event, "button", ev.Detail)
	if !m.root.Mouse.HandleEvent(ev.State, ev.Detail, ev.Event) {
		// not consumed by a mouse binding, so route it to the client
		client := m.root.Clients.Client(ev.Event)
		if client == nil {
			client = m.root.Decorations.ToClient(ev.Event)
		}
		if client != nil {
			var tabClient *wm.Client
			if client.Dec != nil && ev.Event == client.DecorationWindow() && ev.Detail == xproto.ButtonIndex1 {
				if tc, ok := client.Dec.PositionHasButton(wm.Point{X: ev.EventX, Y: ev.EventY}); ok {
					tabClient = tc
				}
			}
			raise := m.root.Settings.RaiseOnClick()
			if tabClient != nil {
				m.root.Clients.FocusClient(tabClient, false, true, raise)
			} else {
				m.root.Clients.FocusClient(client, false, true, raise)
				if client.Dec != nil && ev.Event == client.DecorationWindow() {
					if resize, ok := client.Dec.PositionTriggersResize(wm.Point{X: ev.EventX, Y: ev.EventY}); ok {
						m.root.Mouse.InitiateResize(client, resize)
					} else {
						m.root.Mouse.InitiateMove(client)
					}
				}
			}
		}
	}
	if frameDec := m.root.FrameDecorations.WithWindow(ev.Event); frameDec != nil {
		if frame := frameDec.Frame(); frame != nil {
			m.root.Monitors.FocusFrame(frame)
		}
	}
	// replay the press so the grab does not swallow it from the client
	m.conn.AllowEvents(xproto.AllowReplayPointer, ev.Time)
}

func (m *MainLoop) buttonRelease(raw x11.Event) {
	if _, ok := raw.Ev.(xproto.ButtonReleaseEvent); !ok {
		return
	}
	m.root.Mouse.StopDrag()
}

func (m *MainLoop) clientMessage(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.ClientMessageEvent)
	if !ok {
		return
	}
	m.root.Ewmh.HandleClientMessage(ev)
}

func (m *MainLoop) createNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.CreateNotifyEvent)
	if !ok {
		return
	}
	if m.root.Ipc.IsConnectable(ev.Window) {
		m.root.Ipc.AddConnection(ev.Window)
		m.root.Ipc.HandleConnection(ev.Window, m.CallCommand)
	}
}

func (m *MainLoop) configureRequest(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.ConfigureRequestEvent)
	if !ok {
		return
	}
	client := m.root.Clients.Client(ev.Window)
	if client == nil {
		// unknown window, forward the request verbatim
		m.forwardConfigureRequest(ev)
		return
	}

	changes := false
	newRect := client.FloatSize
	x, y := ev.X, ev.Y
	if client.SizeHintsFloating && (client.IsFloated() || client.Pseudotile) {
		widthRequested := ev.ValueMask&xproto.ConfigWindowWidth != 0
		heightRequested := ev.ValueMask&xproto.ConfigWindowHeight != 0
		xRequested := ev.ValueMask&xproto.ConfigWindowX != 0
		yRequested := ev.ValueMask&xproto.ConfigWindowY != 0
		if widthRequested && newRect.Width != ev.Width {
			changes = true
		}
		if heightRequested && newRect.Height != ev.Height {
			changes = true
		}
		if xRequested || yRequested {
			changes = true
			// fill the missing coordinate from the last applied size
			if !xRequested {
				x = client.LastSize.X
			}
			if !yRequested {
				y = client.LastSize.Y
			}
			// interpret the root-relative coordinates relative to the
			// monitor the client is on
			mon := m.root.Monitors.ByTag(client.Tag)
			if mon == nil {
				mon = m.root.Monitors.ByCoordinate(wm.Point{X: x, Y: y})
			}
			if mon == nil {
				mon = m.root.Monitors.Focus()
			}
			if mon != nil {
				x -= mon.Rect.X + int16(mon.Pad.Left)
				y -= mon.Rect.Y + int16(mon.Pad.Up)
			}
			newRect.X = x
			newRect.Y = y
		}
		if widthRequested {
			newRect.Width = ev.Width
		}
		if heightRequested {
			newRect.Height = ev.Height
		}
	}

	switch {
	case changes && client.IsFloated():
		client.FloatSize = newRect
		if mon := m.root.Monitors.ByTag(client.Tag); mon != nil {
			client.ResizeFloating(mon.InnerRect())
		}
	case changes && client.Pseudotile:
		client.FloatSize = newRect
		if mon := m.root.Monitors.ByTag(client.Tag); mon != nil {
			mon.ApplyLayout()
		}
	default:
		// tiled clients keep their geometry; tell the client so
		client.SendConfigure()
	}
}

func (m *MainLoop) forwardConfigureRequest(ev xproto.ConfigureRequestEvent) {
	mask, values := uint16(0), []uint32(nil)
	if ev.ValueMask&xproto.ConfigWindowX != 0 {
		mask |= xproto.ConfigWindowX
		values = append(values, uint32(uint16(ev.X)))
	}
	if ev.ValueMask&xproto.ConfigWindowY != 0 {
		mask |= xproto.ConfigWindowY
		values = append(values, uint32(uint16(ev.Y)))
	}
	if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
		mask |= xproto.ConfigWindowWidth
		values = append(values, uint32(ev.Width))
	}
	if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
		mask |= xproto.ConfigWindowHeight
		values = append(values, uint32(ev.Height))
	}
	if ev.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
		mask |= xproto.ConfigWindowBorderWidth
		values = append(values, uint32(ev.BorderWidth))
	}
	if ev.ValueMask&xproto.ConfigWindowSibling != 0 {
		mask |= xproto.ConfigWindowSibling
		values = append(values, uint32(ev.Sibling))
	}
	if ev.ValueMask&xproto.ConfigWindowStackMode != 0 {
		mask |= xproto.ConfigWindowStackMode
		values = append(values, uint32(ev.StackMode))
	}
	m.conn.ConfigureWindow(ev.Window, mask, values)
}

func (m *MainLoop) configureNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.ConfigureNotifyEvent)
	if !ok {
		return
	}
	if ev.Window == m.conn.Root() {
		m.root.Panels.RootWindowChanged(ev.Width, ev.Height)
		if m.root.Settings.AutoDetectMonitors() {
			input := command.NewInput("detect_monitors", nil)
			m.root.Monitors.DetectMonitorsCommand(input, command.Discard(os.Stderr))
		}
		return
	}
	m.root.Panels.GeometryChanged(ev.Window, xproto.Rectangle{
		X: ev.X, Y: ev.Y, Width: ev.Width, Height: ev.Height,
	})
}

func (m *MainLoop) destroyNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.DestroyNotifyEvent)
	if !ok {
		return
	}
	if client := m.root.Clients.Client(ev.Window); client != nil {
		m.root.Clients.ForceUnmanage(client)
		return
	}
	m.root.Desktops.Unregister(ev.Window)
	m.root.Panels.UnregisterPanel(ev.Window)
}

func (m *MainLoop) enterNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.EnterNotifyEvent)
	if !ok {
		return
	}
	if ev.Mode != xproto.NotifyModeNormal || ev.Detail == xproto.NotifyDetailInferior {
		// caused by (un-)grabbing the pointer, or the pointer moved
		// from a window to its own decoration
		return
	}
	m.duringEnterNotify = true
	defer func() { m.duringEnterNotify = false }()

	decorationClient := m.root.Decorations.ToClient(ev.Event)
	if decorationClient != nil && decorationClient.Dec != nil {
		decorationClient.Dec.UpdateResizeAreaCursors()
	}
	focus := ev.SameScreenFocus&1 != 0
	if m.root.Mouse.IsDragging() || !m.root.Settings.FocusFollowsMouse() || focus {
		return
	}
	client := m.root.Clients.Client(ev.Event)
	if client == nil {
		client = decorationClient
	}
	if client != nil {
		if client.Tag != nil && !client.Tag.Floating {
			if leaf := client.Tag.FrameWithClient(client); leaf != nil &&
				leaf.Layout() == wm.LayoutMax && leaf.FocusedClient() != client {
				// focusing would hide the leaf's current window, which
				// only happens in the max layout
				return
			}
		}
		m.root.Clients.FocusClient(client, false, true, false)
		return
	}
	// not a client window, maybe a frame
	if frameDec := m.root.FrameDecorations.WithWindow(ev.Event); frameDec != nil {
		if frame := frameDec.Frame(); frame != nil {
			m.root.Monitors.FocusFrame(frame)
		}
	}
}

func (m *MainLoop) expose(raw x11.Event) {
	// drawing is handled by the decoration windows themselves
}

func (m *MainLoop) focusIn(raw x11.Event) {
	if _, ok := raw.Ev.(xproto.FocusInEvent); !ok {
		return
	}
	// keep only the newest focus change, otherwise re-asserting focus
	// below feeds back into another FocusIn
	last := raw.Ev
	for {
		ev, ok := m.checkMaskEvent(xproto.EventMaskFocusChange)
		if !ok {
			break
		}
		last = ev.Ev
	}
	fe, ok := last.(xproto.FocusInEvent)
	if !ok {
		return
	}
	if fe.Detail != xproto.NotifyDetailNonlinear && fe.Detail != xproto.NotifyDetailNonlinearVirtual {
		return
	}
	// a nonlinear focus change means some client stole the focus with a
	// direct SetInputFocus; all we can do is follow it
	var currentFocus xproto.Window
	if focus := m.root.Clients.Focus(); focus != nil {
		currentFocus = focus.Window
	}
	if fe.Event == currentFocus {
		return
	}
	slog.Debug("Window steals focus", "package", "xwm", "window", fe.Event)
	target := m.root.Clients.Client(fe.Event)
	m.root.Clients.FocusClient(target, false, true, false)
}

func (m *MainLoop) keyPress(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.KeyPressEvent)
	if !ok {
		return
	}
	m.root.Keys.HandleKeyPress(ev)
}

func (m *MainLoop) mappingNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.MappingNotifyEvent)
	if !ok {
		return
	}
	m.conn.RefreshKeyboardMapping(ev)
	if ev.Request == xproto.MappingKeyboard {
		m.root.Keys.RegrabAll()
	}
}

func (m *MainLoop) motionNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.MotionNotifyEvent)
	if !ok {
		return
	}
	// coalesce to the newest queued motion
	for {
		next, ok := m.checkMaskEvent(xproto.EventMaskButtonMotion)
		if !ok {
			break
		}
		if me, ok := next.Ev.(xproto.MotionNotifyEvent); ok {
			ev = me
		}
	}
	m.root.Mouse.HandleMotionEvent(wm.Point{X: ev.RootX, Y: ev.RootY})
}

func (m *MainLoop) mapNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.MapNotifyEvent)
	if !ok {
		return
	}
	if client := m.root.Clients.Client(ev.Window); client != nil {
		// re-assert the input focus so a freshly mapped window that
		// should have it actually gets it
		if client == m.root.Clients.Focus() {
			m.conn.SetInputFocus(client.Window)
		}
		client.UpdateTitle()
		return
	}
	if !m.root.Ewmh.IsOwnWindow(ev.Window) &&
		m.root.Decorations.ToClient(ev.Window) == nil &&
		!m.root.Ipc.IsConnectable(ev.Window) {
		// manage the window briefly so the rules see it even though it
		// never sent a MapRequest
		m.root.Clients.ManageClient(ev.Window, true, true, nil)
	}
}

func (m *MainLoop) mapRequest(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.MapRequestEvent)
	if !ok {
		return
	}
	win := ev.Window
	client := m.root.Clients.Client(win)
	switch {
	case m.root.Ewmh.IsOwnWindow(win) || m.root.Ipc.IsConnectable(win):
		// one of our own; just map it if it still exists
		if _, err := m.conn.GetAttributes(win); err != nil {
			return
		}
		m.conn.MapWindow(win)
	case client != nil:
		// a MapRequest for a managed window asks for Iconic -> Normal
		// (ICCCM 4.1.4); the layout decides actual visibility
		client.Minimized = false
	default:
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
			c := m.root.Clients.ManageClient(win, false, false, nil)
			if c != nil && m.root.Monitors.ByTag(c.Tag) != nil {
				m.conn.MapWindow(win)
			}
		}
	}
}

func (m *MainLoop) selectionClear(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.SelectionClearEvent)
	if !ok {
		return
	}
	if ev.Selection == m.root.Ewmh.WindowManagerSelection() &&
		ev.Owner == m.root.Ewmh.WindowManagerWindow() {
		slog.Info("Getting replaced by another window manager, exiting", "package", "xwm")
		m.Quit()
	}
}

func (m *MainLoop) propertyNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.PropertyNotifyEvent)
	if !ok {
		return
	}
	if ev.State != xproto.PropertyNewValue {
		return
	}
	client := m.root.Clients.Client(ev.Window)
	switch {
	case m.root.Ipc.IsConnectable(ev.Window):
		m.root.Ipc.HandleConnection(ev.Window, m.CallCommand)
	case client != nil:
		switch {
		case ev.Atom == xproto.AtomWmHints:
			client.UpdateWmHints()
		case ev.Atom == xproto.AtomWmNormalHints:
			client.UpdateSizeHints()
			geom := client.FloatSize
			client.ApplySizeHints(&geom.Width, &geom.Height)
			client.FloatSize = geom
			if mon := m.root.Monitors.ByTag(client.Tag); mon != nil {
				mon.ApplyLayout()
			}
		case ev.Atom == xproto.AtomWmName || ev.Atom == m.root.Ewmh.NetWmNameAtom():
			client.UpdateTitle()
		case ev.Atom == xproto.AtomWmClass:
			// ICCCM only allows WM_CLASS changes in the withdrawn
			// state; some clients change it anyway, so re-run the
			// rules for them
			m.root.Clients.ApplyRules(client, command.Stdio())
		}
	default:
		m.root.Panels.PropertyChanged(ev.Window, ev.Atom)
	}
}

func (m *MainLoop) unmapNotify(raw x11.Event) {
	ev, ok := raw.Ev.(xproto.UnmapNotifyEvent)
	if !ok {
		return
	}
	slog.Debug("UnmapNotify", "package", "xwm", "window", ev.Window, "event", ev.Event, "synthetic", raw.Synthetic)
	if ev.Window == ev.Event {
		// reparenting duplicates unmap reports for the root and the
		// window itself; only honor the window's own report
		m.root.Clients.UnmapNotify(ev.Window)
	}
	if raw.Synthetic {
		// a synthetic unmap is an ICCCM withdraw request; unmap the
		// window explicitly for clients that only send the synthetic
		// event and never unmap themselves
		m.conn.UnmapWindow(ev.Window)
	}
	// flush the crossings caused by the disappearing window
	m.syncQueue()
	for {
		if _, ok := m.checkMaskEvent(xproto.EventMaskEnterWindow); !ok {
			break
		}
	}
}
