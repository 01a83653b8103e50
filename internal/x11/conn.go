// Package x11 wraps the xgb connection with the small request surface the
// window manager needs: a decoded event stream, sync, and fire-and-forget
// requests whose errors are swallowed because the target window may be gone
// by the time the request is issued.
package x11

import (
	"log/slog"
	"sync"

	"github.com/ItsNotGoodName/x-tilewm/internal/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// Event pairs a decoded X event with the wire send-event flag. The xgb
// decoder masks the flag off before handing out event structs, so the real
// connection reconstructs it where it is semantically load-bearing: a
// synthetic UnmapNotify is addressed to the root window (ICCCM 4.1.4).
type Event struct {
	Ev        xgb.Event
	Synthetic bool
}

type Conn struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
	root   xproto.Window
	events chan Event

	atomMu sync.Mutex
	atoms  map[string]xproto.Atom

	cursorMu sync.Mutex
	cursors  map[uint16]xproto.Cursor

	keyMu          sync.Mutex
	keysyms        []xproto.Keysym
	keysymsPerCode byte
	minKeycode     xproto.Keycode
	maxKeycode     xproto.Keycode
}

func Connect(display string) (*Conn, error) {
	conn, err := xgb.NewConnDisplay(display)
	if err != nil {
		return nil, err
	}

	setup := xproto.Setup(conn)
	screen := setup.DefaultScreen(conn)

	c := &Conn{
		conn:    conn,
		screen:  screen,
		root:    screen.Root,
		events:  make(chan Event, 64),
		atoms:   make(map[string]xproto.Atom),
		cursors: make(map[uint16]xproto.Cursor),
	}
	if err := c.refreshKeymap(setup.MinKeycode, setup.MaxKeycode); err != nil {
		conn.Close()
		return nil, err
	}

	go c.receive()
	return c, nil
}

func (c *Conn) Close()                     { c.conn.Close() }
func (c *Conn) Raw() *xgb.Conn             { return c.conn }
func (c *Conn) Root() xproto.Window        { return c.root }
func (c *Conn) Screen() *xproto.ScreenInfo { return c.screen }
func (c *Conn) Events() <-chan Event       { return c.events }

// receive forwards decoded events until the connection dies. Response
// errors to unchecked requests surface here; they are transient by design
// (the window a request targeted may already be destroyed).
func (c *Conn) receive() {
	defer close(c.events)
	for {
		ev, err := c.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		if err != nil {
			slog.Debug("Dropping X error", "package", "x11", "error", err)
			continue
		}
		c.events <- Event{Ev: ev, Synthetic: syntheticUnmap(ev, c.root)}
	}
}

func syntheticUnmap(ev xgb.Event, root xproto.Window) bool {
	um, ok := ev.(xproto.UnmapNotifyEvent)
	return ok && um.Event == root && um.Window != root
}

// Sync performs a round trip, guaranteeing every previously issued request
// has been processed by the server.
func (c *Conn) Sync() {
	xproto.GetInputFocus(c.conn).Reply()
}

// TakeSubstructureRedirect selects the window-manager event mask on the
// root window. Only one client may hold substructure redirection, so an
// error here means another window manager is running.
func (c *Conn) TakeSubstructureRedirect() error {
	return xproto.ChangeWindowAttributesChecked(c.conn, c.root,
		xproto.CwEventMask,
		[]uint32{
			xproto.EventMaskSubstructureRedirect |
				xproto.EventMaskSubstructureNotify |
				xproto.EventMaskStructureNotify |
				xproto.EventMaskPropertyChange |
				xproto.EventMaskButtonPress |
				xproto.EventMaskFocusChange,
		}).Check()
}

func (c *Conn) QueryTree(win xproto.Window) []xproto.Window {
	reply, err := xproto.QueryTree(c.conn, win).Reply()
	if err != nil {
		return nil
	}
	return reply.Children
}

func (c *Conn) GetAttributes(win xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	return xproto.GetWindowAttributes(c.conn, win).Reply()
}

func (c *Conn) Geometry(win xproto.Window) (xproto.Rectangle, error) {
	reply, err := xproto.GetGeometry(c.conn, xproto.Drawable(win)).Reply()
	if err != nil {
		return xproto.Rectangle{}, err
	}
	return xproto.Rectangle{X: reply.X, Y: reply.Y, Width: reply.Width, Height: reply.Height}, nil
}

func (c *Conn) MapWindow(win xproto.Window)   { xproto.MapWindow(c.conn, win) }
func (c *Conn) UnmapWindow(win xproto.Window) { xproto.UnmapWindow(c.conn, win) }

func (c *Conn) ReparentWindow(win, parent xproto.Window, x, y int16) {
	xproto.ReparentWindow(c.conn, win, parent, x, y)
}

func (c *Conn) DestroyWindow(win xproto.Window) { xproto.DestroyWindow(c.conn, win) }

func (c *Conn) ConfigureWindow(win xproto.Window, mask uint16, values []uint32) {
	xproto.ConfigureWindow(c.conn, win, mask, values)
}

func (c *Conn) MoveResizeWindow(win xproto.Window, rect xproto.Rectangle) {
	c.ConfigureWindow(win,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(uint16(rect.X)), uint32(uint16(rect.Y)), uint32(rect.Width), uint32(rect.Height)})
}

func (c *Conn) RaiseWindow(win xproto.Window) {
	c.ConfigureWindow(win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove})
}

func (c *Conn) LowerWindow(win xproto.Window) {
	c.ConfigureWindow(win, xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow})
}

func (c *Conn) SelectInput(win xproto.Window, mask uint32) {
	xproto.ChangeWindowAttributes(c.conn, win, xproto.CwEventMask, []uint32{mask})
}

func (c *Conn) SetInputFocus(win xproto.Window) {
	xproto.SetInputFocus(c.conn, xproto.InputFocusPointerRoot, win, xproto.TimeCurrentTime)
}

func (c *Conn) AllowEvents(mode byte, time xproto.Timestamp) {
	xproto.AllowEvents(c.conn, mode, time)
}

func (c *Conn) GrabPointer(win xproto.Window, mask uint16, cursor xproto.Cursor) {
	xproto.GrabPointer(c.conn, true, win, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync,
		xproto.WindowNone, cursor, xproto.TimeCurrentTime).Reply()
}

func (c *Conn) UngrabPointer() {
	xproto.UngrabPointer(c.conn, xproto.TimeCurrentTime)
}

func (c *Conn) QueryPointer() (x, y int16, ok bool) {
	reply, err := xproto.QueryPointer(c.conn, c.root).Reply()
	if err != nil {
		return 0, 0, false
	}
	return reply.RootX, reply.RootY, true
}

func (c *Conn) DefineCursor(win xproto.Window, cursor xproto.Cursor) {
	xproto.ChangeWindowAttributes(c.conn, win, xproto.CwCursor, []uint32{uint32(cursor)})
}

// CreateFontCursor returns a cursor for a shape from the standard cursor
// font, creating it once per connection.
func (c *Conn) CreateFontCursor(shape uint16) xproto.Cursor {
	c.cursorMu.Lock()
	defer c.cursorMu.Unlock()
	if cur, ok := c.cursors[shape]; ok {
		return cur
	}
	cur, err := xcursor.CreateCursor(c.conn, shape)
	if err != nil {
		slog.Debug("Failed to create cursor", "package", "x11", "shape", shape, "error", err)
		return xproto.CursorNone
	}
	c.cursors[shape] = cur
	return cur
}

func (c *Conn) SendEvent(win xproto.Window, mask uint32, event string) {
	xproto.SendEvent(c.conn, false, win, mask, event)
}

func (c *Conn) SetSelectionOwner(owner xproto.Window, selection xproto.Atom) {
	xproto.SetSelectionOwner(c.conn, owner, selection, xproto.TimeCurrentTime)
}

func (c *Conn) GetSelectionOwner(selection xproto.Atom) xproto.Window {
	reply, err := xproto.GetSelectionOwner(c.conn, selection).Reply()
	if err != nil {
		return xproto.WindowNone
	}
	return reply.Owner
}

// CreateSimpleWindow creates a tiny unmapped helper window, used for the
// window manager's own selection window and for decorations.
func (c *Conn) CreateSimpleWindow(rect xproto.Rectangle, eventMask uint32, overrideRedirect bool) (xproto.Window, error) {
	wid, err := xproto.NewWindowId(c.conn)
	if err != nil {
		return 0, err
	}
	override := uint32(0)
	if overrideRedirect {
		override = 1
	}
	err = xproto.CreateWindowChecked(c.conn, c.screen.RootDepth,
		wid, c.root,
		rect.X, rect.Y, rect.Width, rect.Height, 0,
		xproto.WindowClassInputOutput, c.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		[]uint32{c.screen.BlackPixel, override, eventMask}).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (c *Conn) KillClient(win xproto.Window) {
	xproto.KillClient(c.conn, uint32(win))
}
