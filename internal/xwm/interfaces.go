// Package xwm is the X event loop at the heart of the window manager: it
// pumps events from the display connection into per-type handlers,
// coordinates pointer grabs with the drag state, reaps child processes
// and adapts IPC requests into command calls. Everything here runs on
// the dispatcher goroutine.
package xwm

import (
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/ewmh"
	"github.com/ItsNotGoodName/x-tilewm/internal/ipc"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/x11"
	"github.com/jezek/xgb/xproto"
)

// XConn is the display connection as seen by the event loop; satisfied
// by *x11.Conn and by the recording fake in the tests.
type XConn interface {
	Root() xproto.Window
	Events() <-chan x11.Event
	Sync()
	QueryTree(win xproto.Window) []xproto.Window
	GetAttributes(win xproto.Window) (*xproto.GetWindowAttributesReply, error)
	MapWindow(win xproto.Window)
	UnmapWindow(win xproto.Window)
	ReparentWindow(win, parent xproto.Window, x, y int16)
	ConfigureWindow(win xproto.Window, mask uint16, values []uint32)
	SelectInput(win xproto.Window, mask uint32)
	SetInputFocus(win xproto.Window)
	AllowEvents(mode byte, time xproto.Timestamp)
	GrabPointer(win xproto.Window, mask uint16, cursor xproto.Cursor)
	UngrabPointer()
	CreateFontCursor(shape uint16) xproto.Cursor
	RefreshKeyboardMapping(ev xproto.MappingNotifyEvent)
}

type ClientManager interface {
	Client(win xproto.Window) *wm.Client
	ManageClient(win xproto.Window, visible, brief bool, override func(*wm.ClientChanges)) *wm.Client
	ForceUnmanage(c *wm.Client)
	UnmapNotify(win xproto.Window)
	ApplyRules(c *wm.Client, channels command.OutputChannels)
	Focus() *wm.Client
	FocusClient(c *wm.Client, switchTag, switchMonitor, raise bool)
}

type MonitorManager interface {
	Restack()
	ByTag(t *wm.Tag) *wm.Monitor
	ByCoordinate(p wm.Point) *wm.Monitor
	Focus() *wm.Monitor
	FocusFrame(leaf *wm.FrameLeaf)
	DetectMonitorsCommand(input command.Input, channels command.OutputChannels) int
}

type PanelManager interface {
	RegisterPanel(win xproto.Window)
	UnregisterPanel(win xproto.Window)
	PropertyChanged(win xproto.Window, atom xproto.Atom)
	GeometryChanged(win xproto.Window, rect xproto.Rectangle)
	RootWindowChanged(width, height uint16)
}

type KeyManager interface {
	HandleKeyPress(ev xproto.KeyPressEvent)
	RegrabAll()
}

type MouseManager interface {
	HandleEvent(state uint16, button xproto.Button, win xproto.Window) bool
	HandleMotionEvent(p wm.Point)
	StopDrag()
	InitiateMove(c *wm.Client)
	InitiateResize(c *wm.Client, ra wm.ResizeAction)
	IsDragging() bool
	ResizeAction() wm.ResizeAction
}

type Ewmh interface {
	HandleClientMessage(ev xproto.ClientMessageEvent)
	IsOwnWindow(win xproto.Window) bool
	WindowType(win xproto.Window) ewmh.WindowType
	OriginalClientList() []xproto.Window
	WindowGetInitialDesktop(win xproto.Window) (int, bool)
	WindowManagerSelection() xproto.Atom
	WindowManagerWindow() xproto.Window
	NetWmNameAtom() xproto.Atom
}

// Decorations resolves decoration windows back to the clients they
// frame.
type Decorations interface {
	ToClient(win xproto.Window) *wm.Client
}

type FrameDecorations interface {
	WithWindow(win xproto.Window) *wm.FrameDecoration
}

type DesktopWindows interface {
	Register(win xproto.Window)
	Unregister(win xproto.Window) bool
}

type Tags interface {
	ByIndex(idx int) *wm.Tag
}

type IpcServer interface {
	IsConnectable(win xproto.Window) bool
	AddConnection(win xproto.Window)
	HandleConnection(win xproto.Window, call func([]string) ipc.CallResult)
}

type Watchers interface {
	ScanForChanges()
}

type Commands interface {
	Call(input command.Input, channels command.OutputChannels) int
}

type Settings interface {
	RaiseOnClick() bool
	FocusFollowsMouse() bool
	AutoDetectMonitors() bool
	ImportTagsFromEwmh() bool
}

// Root bundles the collaborators the event loop drives.
type Root struct {
	Clients          ClientManager
	Monitors         MonitorManager
	Panels           PanelManager
	Keys             KeyManager
	Mouse            MouseManager
	Ewmh             Ewmh
	Decorations      Decorations
	FrameDecorations FrameDecorations
	Desktops         DesktopWindows
	Tags             Tags
	Ipc              IpcServer
	Watchers         Watchers
	Commands         Commands
	Settings         Settings
}
