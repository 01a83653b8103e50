package wm

import (
	"github.com/jezek/xgb/xproto"
)

// Conn is the slice of the display connection the model needs. It is
// satisfied by *x11.Conn; tests substitute a recording fake.
type Conn interface {
	Root() xproto.Window
	Sync()
	Atom(name string) xproto.Atom

	MapWindow(win xproto.Window)
	UnmapWindow(win xproto.Window)
	DestroyWindow(win xproto.Window)
	ReparentWindow(win, parent xproto.Window, x, y int16)
	MoveResizeWindow(win xproto.Window, rect xproto.Rectangle)
	RaiseWindow(win xproto.Window)
	LowerWindow(win xproto.Window)
	ConfigureWindow(win xproto.Window, mask uint16, values []uint32)
	SelectInput(win xproto.Window, mask uint32)
	SetInputFocus(win xproto.Window)
	SendEvent(win xproto.Window, mask uint32, event string)
	CreateSimpleWindow(rect xproto.Rectangle, eventMask uint32, overrideRedirect bool) (xproto.Window, error)
	CreateFontCursor(shape uint16) xproto.Cursor
	DefineCursor(win xproto.Window, cursor xproto.Cursor)
	KillClient(win xproto.Window)

	Geometry(win xproto.Window) (xproto.Rectangle, error)
	QueryPointer() (x, y int16, ok bool)
	GetPropertyString(win xproto.Window, prop xproto.Atom) (string, bool)
	GetPropertyTextList(win xproto.Window, prop xproto.Atom) ([]string, bool)
	GetPropertyCardinals(win xproto.Window, prop xproto.Atom) ([]uint32, bool)
	GetClassHint(win xproto.Window) (instance, class string)

	GrabKey(key xproto.Keycode, modifiers uint16)
	UngrabAllKeys()
	KeycodeToKeysym(code xproto.Keycode, column int) xproto.Keysym
	KeysymToKeycodes(sym xproto.Keysym) []xproto.Keycode
}
