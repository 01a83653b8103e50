package xwm

import (
	"fmt"

	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/ewmh"
	"github.com/ItsNotGoodName/x-tilewm/internal/ipc"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/x11"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// fakeXConn implements XConn, recording every request.
type fakeXConn struct {
	calls    []string
	events   chan x11.Event
	tree     []xproto.Window
	attrs    map[xproto.Window]*xproto.GetWindowAttributesReply
	lastMask uint16
	lastVals []uint32
}

func newFakeXConn() *fakeXConn {
	return &fakeXConn{
		events: make(chan x11.Event, 64),
		attrs:  make(map[xproto.Window]*xproto.GetWindowAttributesReply),
	}
}

func (f *fakeXConn) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeXConn) has(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeXConn) Root() xproto.Window      { return 1 }
func (f *fakeXConn) Events() <-chan x11.Event { return f.events }
func (f *fakeXConn) Sync()                    { f.record("sync") }

func (f *fakeXConn) QueryTree(win xproto.Window) []xproto.Window { return f.tree }

func (f *fakeXConn) GetAttributes(win xproto.Window) (*xproto.GetWindowAttributesReply, error) {
	if attrs, ok := f.attrs[win]; ok {
		return attrs, nil
	}
	return nil, fmt.Errorf("window 0x%x vanished", win)
}

func (f *fakeXConn) MapWindow(win xproto.Window)   { f.record("map 0x%x", win) }
func (f *fakeXConn) UnmapWindow(win xproto.Window) { f.record("unmap 0x%x", win) }

func (f *fakeXConn) ReparentWindow(win, parent xproto.Window, x, y int16) {
	f.record("reparent 0x%x into 0x%x", win, parent)
}

func (f *fakeXConn) ConfigureWindow(win xproto.Window, mask uint16, values []uint32) {
	f.lastMask, f.lastVals = mask, values
	f.record("configure 0x%x mask=%d", win, mask)
}

func (f *fakeXConn) SelectInput(win xproto.Window, mask uint32) {
	f.record("selectinput 0x%x", win)
}

func (f *fakeXConn) SetInputFocus(win xproto.Window) { f.record("setinputfocus 0x%x", win) }

func (f *fakeXConn) AllowEvents(mode byte, time xproto.Timestamp) {
	f.record("allowevents mode=%d", mode)
}

func (f *fakeXConn) GrabPointer(win xproto.Window, mask uint16, cursor xproto.Cursor) {
	f.record("grabpointer 0x%x cursor=%d", win, cursor)
}

func (f *fakeXConn) UngrabPointer() { f.record("ungrabpointer") }

func (f *fakeXConn) CreateFontCursor(shape uint16) xproto.Cursor { return xproto.Cursor(shape) }

func (f *fakeXConn) RefreshKeyboardMapping(ev xproto.MappingNotifyEvent) {
	f.record("refreshkeyboardmapping")
}

// wmConn implements wm.Conn for tests that exercise real model types.
type wmConn struct {
	calls   []string
	strings map[xproto.Window]map[xproto.Atom]string
}

func newWmConn() *wmConn {
	return &wmConn{strings: make(map[xproto.Window]map[xproto.Atom]string)}
}

func (f *wmConn) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *wmConn) has(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *wmConn) Root() xproto.Window { return 1 }
func (f *wmConn) Sync()               {}

func (f *wmConn) Atom(name string) xproto.Atom {
	var h uint32 = 5381
	for _, b := range []byte(name) {
		h = h*33 + uint32(b)
	}
	return xproto.Atom(h | 0x10000)
}

func (f *wmConn) MapWindow(win xproto.Window)     { f.record("map 0x%x", win) }
func (f *wmConn) UnmapWindow(win xproto.Window)   { f.record("unmap 0x%x", win) }
func (f *wmConn) DestroyWindow(win xproto.Window) { f.record("destroy 0x%x", win) }

func (f *wmConn) ReparentWindow(win, parent xproto.Window, x, y int16) {
	f.record("reparent 0x%x into 0x%x", win, parent)
}

func (f *wmConn) MoveResizeWindow(win xproto.Window, rect xproto.Rectangle) {
	f.record("moveresize 0x%x %dx%d%+d%+d", win, rect.Width, rect.Height, rect.X, rect.Y)
}

func (f *wmConn) RaiseWindow(win xproto.Window) { f.record("raise 0x%x", win) }
func (f *wmConn) LowerWindow(win xproto.Window) { f.record("lower 0x%x", win) }

func (f *wmConn) ConfigureWindow(win xproto.Window, mask uint16, values []uint32) {
	f.record("configure 0x%x", win)
}

func (f *wmConn) SelectInput(win xproto.Window, mask uint32) { f.record("selectinput 0x%x", win) }
func (f *wmConn) SetInputFocus(win xproto.Window)            { f.record("setinputfocus 0x%x", win) }

func (f *wmConn) SendEvent(win xproto.Window, mask uint32, event string) {
	f.record("sendevent 0x%x len=%d", win, len(event))
}

var nextTestWindow xproto.Window = 0x8000

func (f *wmConn) CreateSimpleWindow(rect xproto.Rectangle, eventMask uint32, overrideRedirect bool) (xproto.Window, error) {
	nextTestWindow++
	return nextTestWindow, nil
}

func (f *wmConn) CreateFontCursor(shape uint16) xproto.Cursor            { return xproto.Cursor(shape) }
func (f *wmConn) DefineCursor(win xproto.Window, cursor xproto.Cursor)   {}
func (f *wmConn) KillClient(win xproto.Window)                           { f.record("killclient 0x%x", win) }
func (f *wmConn) QueryPointer() (int16, int16, bool)                     { return 0, 0, true }
func (f *wmConn) Geometry(win xproto.Window) (xproto.Rectangle, error) {
	return xproto.Rectangle{Width: 100, Height: 80}, nil
}

func (f *wmConn) GetPropertyString(win xproto.Window, prop xproto.Atom) (string, bool) {
	value, ok := f.strings[win][prop]
	return value, ok
}

func (f *wmConn) GetPropertyTextList(win xproto.Window, prop xproto.Atom) ([]string, bool) {
	return nil, false
}

func (f *wmConn) GetPropertyCardinals(win xproto.Window, prop xproto.Atom) ([]uint32, bool) {
	return nil, false
}

func (f *wmConn) GetClassHint(win xproto.Window) (string, string) { return "", "" }

func (f *wmConn) GrabKey(key xproto.Keycode, modifiers uint16)              {}
func (f *wmConn) UngrabAllKeys()                                            {}
func (f *wmConn) KeycodeToKeysym(code xproto.Keycode, c int) xproto.Keysym  { return 0 }
func (f *wmConn) KeysymToKeycodes(sym xproto.Keysym) []xproto.Keycode      { return nil }

// fake collaborators

type focusCall struct {
	client *wm.Client
	raise  bool
}

type fakeClients struct {
	clients       map[xproto.Window]*wm.Client
	focus         *wm.Client
	focusCalls    []focusCall
	manageCalls   []xproto.Window
	overrides     []func(*wm.ClientChanges)
	unmapNotified []xproto.Window
	unmanaged     []xproto.Window
	ruleRuns      int
	manageResult  func(win xproto.Window) *wm.Client
}

func newFakeClients() *fakeClients {
	return &fakeClients{clients: make(map[xproto.Window]*wm.Client)}
}

func (f *fakeClients) Client(win xproto.Window) *wm.Client { return f.clients[win] }

func (f *fakeClients) ManageClient(win xproto.Window, visible, brief bool, override func(*wm.ClientChanges)) *wm.Client {
	if c, ok := f.clients[win]; ok {
		return c
	}
	f.manageCalls = append(f.manageCalls, win)
	f.overrides = append(f.overrides, override)
	if brief {
		return nil
	}
	var c *wm.Client
	if f.manageResult != nil {
		c = f.manageResult(win)
	} else {
		c = &wm.Client{Window: win}
	}
	f.clients[win] = c
	return c
}

func (f *fakeClients) ForceUnmanage(c *wm.Client) {
	f.unmanaged = append(f.unmanaged, c.Window)
	delete(f.clients, c.Window)
}

func (f *fakeClients) UnmapNotify(win xproto.Window) {
	f.unmapNotified = append(f.unmapNotified, win)
}

func (f *fakeClients) ApplyRules(c *wm.Client, channels command.OutputChannels) { f.ruleRuns++ }

func (f *fakeClients) Focus() *wm.Client { return f.focus }

func (f *fakeClients) FocusClient(c *wm.Client, switchTag, switchMonitor, raise bool) {
	if c == nil {
		return
	}
	f.focus = c
	f.focusCalls = append(f.focusCalls, focusCall{client: c, raise: raise})
}

type fakeMonitors struct {
	byTag       map[*wm.Tag]*wm.Monitor
	byCoord     *wm.Monitor
	focus       *wm.Monitor
	restacks    int
	detectCalls int
	focusFrames []*wm.FrameLeaf
}

func newFakeMonitors() *fakeMonitors {
	return &fakeMonitors{byTag: make(map[*wm.Tag]*wm.Monitor)}
}

func (f *fakeMonitors) Restack() { f.restacks++ }

func (f *fakeMonitors) ByTag(t *wm.Tag) *wm.Monitor {
	if t == nil {
		return nil
	}
	return f.byTag[t]
}

func (f *fakeMonitors) ByCoordinate(p wm.Point) *wm.Monitor { return f.byCoord }
func (f *fakeMonitors) Focus() *wm.Monitor                  { return f.focus }

func (f *fakeMonitors) FocusFrame(leaf *wm.FrameLeaf) {
	f.focusFrames = append(f.focusFrames, leaf)
}

func (f *fakeMonitors) DetectMonitorsCommand(input command.Input, channels command.OutputChannels) int {
	f.detectCalls++
	return command.ExitSuccess
}

type panelCall struct {
	kind string
	win  xproto.Window
}

type fakePanels struct {
	calls []panelCall
}

func (f *fakePanels) RegisterPanel(win xproto.Window) {
	f.calls = append(f.calls, panelCall{"register", win})
}

func (f *fakePanels) UnregisterPanel(win xproto.Window) {
	f.calls = append(f.calls, panelCall{"unregister", win})
}

func (f *fakePanels) PropertyChanged(win xproto.Window, atom xproto.Atom) {
	f.calls = append(f.calls, panelCall{"property", win})
}

func (f *fakePanels) GeometryChanged(win xproto.Window, rect xproto.Rectangle) {
	f.calls = append(f.calls, panelCall{"geometry", win})
}

func (f *fakePanels) RootWindowChanged(width, height uint16) {
	f.calls = append(f.calls, panelCall{"root", 0})
}

type fakeKeys struct {
	pressed int
	regrabs int
}

func (f *fakeKeys) HandleKeyPress(ev xproto.KeyPressEvent) { f.pressed++ }
func (f *fakeKeys) RegrabAll()                             { f.regrabs++ }

type fakeMouse struct {
	consume     bool
	handled     int
	motions     []wm.Point
	stops       int
	dragging    bool
	ra          wm.ResizeAction
	moveInits   []*wm.Client
	resizeInits []*wm.Client
}

func (f *fakeMouse) HandleEvent(state uint16, button xproto.Button, win xproto.Window) bool {
	f.handled++
	return f.consume
}

func (f *fakeMouse) HandleMotionEvent(p wm.Point) { f.motions = append(f.motions, p) }
func (f *fakeMouse) StopDrag()                    { f.stops++ }

func (f *fakeMouse) InitiateMove(c *wm.Client) { f.moveInits = append(f.moveInits, c) }

func (f *fakeMouse) InitiateResize(c *wm.Client, ra wm.ResizeAction) {
	f.resizeInits = append(f.resizeInits, c)
}

func (f *fakeMouse) IsDragging() bool            { return f.dragging }
func (f *fakeMouse) ResizeAction() wm.ResizeAction { return f.ra }

type fakeEwmh struct {
	own       map[xproto.Window]bool
	types     map[xproto.Window]ewmh.WindowType
	original  []xproto.Window
	desktops  map[xproto.Window]int
	handled   []xproto.ClientMessageEvent
	selection xproto.Atom
	wmWindow  xproto.Window
}

func newFakeEwmh() *fakeEwmh {
	return &fakeEwmh{
		own:       make(map[xproto.Window]bool),
		types:     make(map[xproto.Window]ewmh.WindowType),
		desktops:  make(map[xproto.Window]int),
		selection: 99,
		wmWindow:  50,
	}
}

func (f *fakeEwmh) HandleClientMessage(ev xproto.ClientMessageEvent) {
	f.handled = append(f.handled, ev)
}

func (f *fakeEwmh) IsOwnWindow(win xproto.Window) bool { return f.own[win] }

func (f *fakeEwmh) WindowType(win xproto.Window) ewmh.WindowType { return f.types[win] }

func (f *fakeEwmh) OriginalClientList() []xproto.Window { return f.original }

func (f *fakeEwmh) WindowGetInitialDesktop(win xproto.Window) (int, bool) {
	idx, ok := f.desktops[win]
	return idx, ok
}

func (f *fakeEwmh) WindowManagerSelection() xproto.Atom { return f.selection }
func (f *fakeEwmh) WindowManagerWindow() xproto.Window  { return f.wmWindow }
func (f *fakeEwmh) NetWmNameAtom() xproto.Atom          { return 0x20000 }

type fakeDecorations struct {
	byWindow map[xproto.Window]*wm.Client
}

func newFakeDecorations() *fakeDecorations {
	return &fakeDecorations{byWindow: make(map[xproto.Window]*wm.Client)}
}

func (f *fakeDecorations) ToClient(win xproto.Window) *wm.Client { return f.byWindow[win] }

type fakeFrameDecorations struct {
	byWindow map[xproto.Window]*wm.FrameDecoration
}

func newFakeFrameDecorations() *fakeFrameDecorations {
	return &fakeFrameDecorations{byWindow: make(map[xproto.Window]*wm.FrameDecoration)}
}

func (f *fakeFrameDecorations) WithWindow(win xproto.Window) *wm.FrameDecoration {
	return f.byWindow[win]
}

type fakeDesktops struct {
	registered   []xproto.Window
	unregistered []xproto.Window
}

func (f *fakeDesktops) Register(win xproto.Window) {
	f.registered = append(f.registered, win)
}

func (f *fakeDesktops) Unregister(win xproto.Window) bool {
	f.unregistered = append(f.unregistered, win)
	return false
}

type fakeTags struct {
	tags []*wm.Tag
}

func (f *fakeTags) ByIndex(idx int) *wm.Tag {
	if idx < 0 || idx >= len(f.tags) {
		return nil
	}
	return f.tags[idx]
}

type fakeIpc struct {
	connectable map[xproto.Window]bool
	added       []xproto.Window
	handled     []xproto.Window
	lastResult  ipc.CallResult
}

func newFakeIpc() *fakeIpc {
	return &fakeIpc{connectable: make(map[xproto.Window]bool)}
}

func (f *fakeIpc) IsConnectable(win xproto.Window) bool { return f.connectable[win] }

func (f *fakeIpc) AddConnection(win xproto.Window) { f.added = append(f.added, win) }

func (f *fakeIpc) HandleConnection(win xproto.Window, call func([]string) ipc.CallResult) {
	f.handled = append(f.handled, win)
	f.lastResult = call([]string{"echo", "ping"})
}

type fakeWatchers struct {
	scans int
}

func (f *fakeWatchers) ScanForChanges() { f.scans++ }

type fakeCommands struct {
	fn func(input command.Input, channels command.OutputChannels) int
}

func (f *fakeCommands) Call(input command.Input, channels command.OutputChannels) int {
	if f.fn == nil {
		return command.ExitSuccess
	}
	return f.fn(input, channels)
}

type fakeSettings struct {
	raiseOnClick       bool
	focusFollowsMouse  bool
	autoDetectMonitors bool
	importTagsFromEwmh bool
}

func (f *fakeSettings) RaiseOnClick() bool       { return f.raiseOnClick }
func (f *fakeSettings) FocusFollowsMouse() bool  { return f.focusFollowsMouse }
func (f *fakeSettings) AutoDetectMonitors() bool { return f.autoDetectMonitors }
func (f *fakeSettings) ImportTagsFromEwmh() bool { return f.importTagsFromEwmh }

// wrap queues an event the way the real connection would deliver it.
func wrap(ev xgb.Event) x11.Event { return x11.Event{Ev: ev} }
