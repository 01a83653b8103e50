// Package ewmh implements the extended window manager hints the manager
// publishes and consumes: the WM_Sn selection, window-type
// classification, the client list and the client-message requests other
// applications send.
package ewmh

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/jezek/xgb/xproto"
)

// WindowType is the EWMH classification the manager cares about.
type WindowType int

const (
	// WindowTypeOther covers normal windows and every type the manager
	// does not treat specially.
	WindowTypeOther WindowType = iota
	WindowTypeDesktop
	WindowTypeDock
)

// Conn is the slice of the display connection this package needs;
// satisfied by *x11.Conn.
type Conn interface {
	Root() xproto.Window
	Atom(name string) xproto.Atom
	CreateSimpleWindow(rect xproto.Rectangle, eventMask uint32, overrideRedirect bool) (xproto.Window, error)
	SetSelectionOwner(owner xproto.Window, selection xproto.Atom)
	GetSelectionOwner(selection xproto.Atom) xproto.Window
	SetPropertyString(win xproto.Window, prop xproto.Atom, value string)
	SetPropertyCardinals(win xproto.Window, prop xproto.Atom, values []uint32)
	SetPropertyWindows(win xproto.Window, prop xproto.Atom, wins []xproto.Window)
	SetPropertyAtoms(win xproto.Window, prop xproto.Atom, atoms []xproto.Atom)
	GetPropertyCardinals(win xproto.Window, prop xproto.Atom) ([]uint32, bool)
	GetPropertyWindows(win xproto.Window, prop xproto.Atom) ([]xproto.Window, bool)
	GetPropertyAtoms(win xproto.Window, prop xproto.Atom) ([]xproto.Atom, bool)
	SendEvent(win xproto.Window, mask uint32, event string)
	KillClient(win xproto.Window)
	Sync()
}

const wmName = "x-tilewm"

var supported = []string{
	"_NET_SUPPORTED",
	"_NET_SUPPORTING_WM_CHECK",
	"_NET_CLIENT_LIST",
	"_NET_ACTIVE_WINDOW",
	"_NET_CURRENT_DESKTOP",
	"_NET_NUMBER_OF_DESKTOPS",
	"_NET_DESKTOP_NAMES",
	"_NET_WM_NAME",
	"_NET_WM_DESKTOP",
	"_NET_WM_WINDOW_TYPE",
	"_NET_WM_WINDOW_TYPE_DESKTOP",
	"_NET_WM_WINDOW_TYPE_DOCK",
	"_NET_WM_STRUT",
	"_NET_WM_STRUT_PARTIAL",
	"_NET_WM_STATE",
	"_NET_WM_STATE_FULLSCREEN",
	"_NET_CLOSE_WINDOW",
}

// _NET_WM_STATE client-message actions (EWMH 1.3).
const (
	netWmStateRemove = 0
	netWmStateAdd    = 1
	netWmStateToggle = 2
)

type EWMH struct {
	conn     Conn
	clients  *wm.ClientManager
	monitors *wm.MonitorManager
	tags     *wm.TagManager

	ownWindow   xproto.Window
	wmSelection xproto.Atom

	// originalClientList is the previous window manager's client list,
	// captured before we publish our own. The startup scan uses it to
	// re-adopt clients across a manager restart.
	originalClientList []xproto.Window
}

func New(conn Conn, clients *wm.ClientManager, monitors *wm.MonitorManager, tags *wm.TagManager) (*EWMH, error) {
	e := &EWMH{
		conn:     conn,
		clients:  clients,
		monitors: monitors,
		tags:     tags,
	}
	e.originalClientList, _ = conn.GetPropertyWindows(conn.Root(), conn.Atom("_NET_CLIENT_LIST"))

	own, err := conn.CreateSimpleWindow(xproto.Rectangle{Width: 1, Height: 1}, 0, true)
	if err != nil {
		return nil, fmt.Errorf("create wm check window: %w", err)
	}
	e.ownWindow = own
	conn.SetPropertyString(own, conn.Atom("_NET_WM_NAME"), wmName)
	conn.SetPropertyWindows(own, conn.Atom("_NET_SUPPORTING_WM_CHECK"), []xproto.Window{own})
	conn.SetPropertyWindows(conn.Root(), conn.Atom("_NET_SUPPORTING_WM_CHECK"), []xproto.Window{own})

	// the manager selection for screen 0 (ICCCM 2.8)
	e.wmSelection = conn.Atom("WM_S0")
	conn.SetSelectionOwner(own, e.wmSelection)
	conn.Sync()
	if conn.GetSelectionOwner(e.wmSelection) != own {
		return nil, fmt.Errorf("could not acquire the WM_S0 selection: another window manager is running")
	}

	atoms := make([]xproto.Atom, 0, len(supported))
	for _, name := range supported {
		atoms = append(atoms, conn.Atom(name))
	}
	conn.SetPropertyAtoms(conn.Root(), conn.Atom("_NET_SUPPORTED"), atoms)
	e.publishDesktops()
	e.UpdateClientList()

	bus.Subscribe("ewmh.clientlist", func(_ context.Context, _ wm.ClientListChanged) error {
		e.UpdateClientList()
		return nil
	})
	bus.Subscribe("ewmh.focus", func(_ context.Context, ev wm.FocusChanged) error {
		e.UpdateActiveWindow(ev.Client)
		return nil
	})
	return e, nil
}

func (e *EWMH) WindowManagerSelection() xproto.Atom { return e.wmSelection }
func (e *EWMH) WindowManagerWindow() xproto.Window  { return e.ownWindow }

func (e *EWMH) NetWmNameAtom() xproto.Atom { return e.conn.Atom("_NET_WM_NAME") }

func (e *EWMH) OriginalClientList() []xproto.Window { return e.originalClientList }

// IsOwnWindow reports whether the window belongs to the manager itself.
func (e *EWMH) IsOwnWindow(win xproto.Window) bool {
	return win == e.ownWindow
}

// WindowType classifies a window by its first _NET_WM_WINDOW_TYPE atom.
func (e *EWMH) WindowType(win xproto.Window) WindowType {
	atoms, ok := e.conn.GetPropertyAtoms(win, e.conn.Atom("_NET_WM_WINDOW_TYPE"))
	if !ok || len(atoms) == 0 {
		return WindowTypeOther
	}
	switch atoms[0] {
	case e.conn.Atom("_NET_WM_WINDOW_TYPE_DESKTOP"):
		return WindowTypeDesktop
	case e.conn.Atom("_NET_WM_WINDOW_TYPE_DOCK"):
		return WindowTypeDock
	default:
		return WindowTypeOther
	}
}

// WindowGetInitialDesktop reads the _NET_WM_DESKTOP a window asked for.
func (e *EWMH) WindowGetInitialDesktop(win xproto.Window) (int, bool) {
	values, ok := e.conn.GetPropertyCardinals(win, e.conn.Atom("_NET_WM_DESKTOP"))
	if !ok || len(values) == 0 {
		return 0, false
	}
	return int(int32(values[0])), true
}

// HandleClientMessage interprets EWMH requests from other clients.
func (e *EWMH) HandleClientMessage(ev xproto.ClientMessageEvent) {
	switch ev.Type {
	case e.conn.Atom("_NET_ACTIVE_WINDOW"):
		if c := e.clients.Client(ev.Window); c != nil {
			e.clients.FocusClient(c, true, true, true)
		}
	case e.conn.Atom("_NET_CURRENT_DESKTOP"):
		data := ev.Data.Data32
		if len(data) == 0 {
			return
		}
		tag := e.tags.ByIndex(int(data[0]))
		if tag == nil {
			return
		}
		e.monitors.ShowTag(e.monitors.Focus(), tag)
		e.conn.SetPropertyCardinals(e.conn.Root(), e.conn.Atom("_NET_CURRENT_DESKTOP"), []uint32{data[0]})
	case e.conn.Atom("_NET_CLOSE_WINDOW"):
		e.closeWindow(ev.Window)
	case e.conn.Atom("_NET_WM_STATE"):
		e.handleWmState(ev)
	default:
		slog.Debug("Ignoring client message", "package", "ewmh", "type", ev.Type, "window", ev.Window)
	}
}

// handleWmState interprets a _NET_WM_STATE request: the action in the
// first data word, the state atoms to change in the next two. Only the
// fullscreen state is supported; other atoms are left alone.
func (e *EWMH) handleWmState(ev xproto.ClientMessageEvent) {
	c := e.clients.Client(ev.Window)
	if c == nil {
		return
	}
	data := ev.Data.Data32
	if len(data) < 3 {
		return
	}
	fullscreen := e.conn.Atom("_NET_WM_STATE_FULLSCREEN")
	if xproto.Atom(data[1]) != fullscreen && xproto.Atom(data[2]) != fullscreen {
		slog.Debug("Ignoring _NET_WM_STATE request", "package", "ewmh", "window", ev.Window, "state", data[1])
		return
	}
	switch data[0] {
	case netWmStateRemove:
		e.clients.SetFullscreen(c, false)
	case netWmStateAdd:
		e.clients.SetFullscreen(c, true)
	case netWmStateToggle:
		e.clients.SetFullscreen(c, !c.Fullscreen)
	}
	e.updateWmState(c)
}

// updateWmState republishes the window's _NET_WM_STATE property.
func (e *EWMH) updateWmState(c *wm.Client) {
	states := []xproto.Atom{}
	if c.Fullscreen {
		states = append(states, e.conn.Atom("_NET_WM_STATE_FULLSCREEN"))
	}
	e.conn.SetPropertyAtoms(c.Window, e.conn.Atom("_NET_WM_STATE"), states)
}

// closeWindow asks a window to close via WM_DELETE_WINDOW, killing the
// client outright when it does not participate in the protocol.
func (e *EWMH) closeWindow(win xproto.Window) {
	protocols, _ := e.conn.GetPropertyAtoms(win, e.conn.Atom("WM_PROTOCOLS"))
	deleteAtom := e.conn.Atom("WM_DELETE_WINDOW")
	for _, p := range protocols {
		if p != deleteAtom {
			continue
		}
		msg := xproto.ClientMessageEvent{
			Format: 32,
			Window: win,
			Type:   e.conn.Atom("WM_PROTOCOLS"),
			Data: xproto.ClientMessageDataUnionData32New([]uint32{
				uint32(deleteAtom), uint32(xproto.TimeCurrentTime), 0, 0, 0,
			}),
		}
		e.conn.SendEvent(win, xproto.EventMaskNoEvent, string(msg.Bytes()))
		return
	}
	e.conn.KillClient(win)
}

// UpdateClientList republishes _NET_CLIENT_LIST.
func (e *EWMH) UpdateClientList() {
	clients := e.clients.All()
	wins := make([]xproto.Window, 0, len(clients))
	for _, c := range clients {
		wins = append(wins, c.Window)
	}
	e.conn.SetPropertyWindows(e.conn.Root(), e.conn.Atom("_NET_CLIENT_LIST"), wins)
}

// UpdateActiveWindow republishes _NET_ACTIVE_WINDOW.
func (e *EWMH) UpdateActiveWindow(c *wm.Client) {
	win := xproto.Window(xproto.WindowNone)
	if c != nil {
		win = c.Window
	}
	e.conn.SetPropertyWindows(e.conn.Root(), e.conn.Atom("_NET_ACTIVE_WINDOW"), []xproto.Window{win})
}

func (e *EWMH) publishDesktops() {
	tags := e.tags.All()
	e.conn.SetPropertyCardinals(e.conn.Root(), e.conn.Atom("_NET_NUMBER_OF_DESKTOPS"), []uint32{uint32(len(tags))})
	e.conn.SetPropertyCardinals(e.conn.Root(), e.conn.Atom("_NET_CURRENT_DESKTOP"), []uint32{0})
}
