package wm

import (
	"fmt"

	"github.com/jezek/xgb/xproto"
)

// fakeConn records requests and serves canned property data.
type fakeConn struct {
	calls      []string
	nextWindow xproto.Window
	geometries map[xproto.Window]xproto.Rectangle
	strings    map[xproto.Window]map[string]string
	cardinals  map[xproto.Window]map[string][]uint32
	classHints map[xproto.Window][2]string
	pointerX   int16
	pointerY   int16
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		nextWindow: 0x1000,
		geometries: make(map[xproto.Window]xproto.Rectangle),
		strings:    make(map[xproto.Window]map[string]string),
		cardinals:  make(map[xproto.Window]map[string][]uint32),
		classHints: make(map[xproto.Window][2]string),
	}
}

func (f *fakeConn) record(format string, args ...any) {
	f.calls = append(f.calls, fmt.Sprintf(format, args...))
}

func (f *fakeConn) Root() xproto.Window { return 1 }
func (f *fakeConn) Sync()               { f.record("sync") }

// Atoms are faked as a stable hash of the name; tests only compare them.
func (f *fakeConn) Atom(name string) xproto.Atom {
	var h uint32 = 5381
	for _, b := range []byte(name) {
		h = h*33 + uint32(b)
	}
	return xproto.Atom(h | 0x10000)
}

func (f *fakeConn) MapWindow(win xproto.Window)     { f.record("map 0x%x", win) }
func (f *fakeConn) UnmapWindow(win xproto.Window)   { f.record("unmap 0x%x", win) }
func (f *fakeConn) DestroyWindow(win xproto.Window) { f.record("destroy 0x%x", win) }

func (f *fakeConn) ReparentWindow(win, parent xproto.Window, x, y int16) {
	f.record("reparent 0x%x into 0x%x", win, parent)
}

func (f *fakeConn) MoveResizeWindow(win xproto.Window, rect xproto.Rectangle) {
	f.record("moveresize 0x%x %dx%d%+d%+d", win, rect.Width, rect.Height, rect.X, rect.Y)
}

func (f *fakeConn) RaiseWindow(win xproto.Window) { f.record("raise 0x%x", win) }
func (f *fakeConn) LowerWindow(win xproto.Window) { f.record("lower 0x%x", win) }

func (f *fakeConn) ConfigureWindow(win xproto.Window, mask uint16, values []uint32) {
	f.record("configure 0x%x mask=%d", win, mask)
}

func (f *fakeConn) SelectInput(win xproto.Window, mask uint32) {
	f.record("selectinput 0x%x", win)
}

func (f *fakeConn) SetInputFocus(win xproto.Window) { f.record("setinputfocus 0x%x", win) }

func (f *fakeConn) SendEvent(win xproto.Window, mask uint32, event string) {
	f.record("sendevent 0x%x len=%d", win, len(event))
}

func (f *fakeConn) CreateSimpleWindow(rect xproto.Rectangle, eventMask uint32, overrideRedirect bool) (xproto.Window, error) {
	f.nextWindow++
	f.record("createwindow 0x%x", f.nextWindow)
	return f.nextWindow, nil
}

func (f *fakeConn) CreateFontCursor(shape uint16) xproto.Cursor { return xproto.Cursor(shape) }

func (f *fakeConn) DefineCursor(win xproto.Window, cursor xproto.Cursor) {
	f.record("definecursor 0x%x", win)
}

func (f *fakeConn) KillClient(win xproto.Window) { f.record("killclient 0x%x", win) }

func (f *fakeConn) Geometry(win xproto.Window) (xproto.Rectangle, error) {
	if rect, ok := f.geometries[win]; ok {
		return rect, nil
	}
	return xproto.Rectangle{Width: 100, Height: 80}, nil
}

func (f *fakeConn) QueryPointer() (int16, int16, bool) { return f.pointerX, f.pointerY, true }

func (f *fakeConn) GetPropertyString(win xproto.Window, prop xproto.Atom) (string, bool) {
	m, ok := f.strings[win]
	if !ok {
		return "", false
	}
	for name, value := range m {
		if f.Atom(name) == prop || predefined(name) == prop {
			return value, true
		}
	}
	return "", false
}

func (f *fakeConn) GetPropertyTextList(win xproto.Window, prop xproto.Atom) ([]string, bool) {
	return nil, false
}

func (f *fakeConn) GetPropertyCardinals(win xproto.Window, prop xproto.Atom) ([]uint32, bool) {
	m, ok := f.cardinals[win]
	if !ok {
		return nil, false
	}
	for name, values := range m {
		if f.Atom(name) == prop || predefined(name) == prop {
			return values, true
		}
	}
	return nil, false
}

func (f *fakeConn) GetClassHint(win xproto.Window) (string, string) {
	hint := f.classHints[win]
	return hint[0], hint[1]
}

func (f *fakeConn) GrabKey(key xproto.Keycode, modifiers uint16) {
	f.record("grabkey %d mods=%d", key, modifiers)
}

func (f *fakeConn) UngrabAllKeys() { f.record("ungrabkeys") }

func (f *fakeConn) KeycodeToKeysym(code xproto.Keycode, column int) xproto.Keysym {
	// identity-ish mapping for tests: keycode 38 is "a" etc.
	switch code {
	case 38:
		return 'a'
	case 36:
		return 0xff0d // Return
	default:
		return 0
	}
}

func (f *fakeConn) KeysymToKeycodes(sym xproto.Keysym) []xproto.Keycode {
	switch sym {
	case 'a':
		return []xproto.Keycode{38}
	case 0xff0d:
		return []xproto.Keycode{36}
	default:
		return nil
	}
}

func predefined(name string) xproto.Atom {
	switch name {
	case "WM_NAME":
		return xproto.AtomWmName
	case "WM_HINTS":
		return xproto.AtomWmHints
	case "WM_NORMAL_HINTS":
		return xproto.AtomWmNormalHints
	case "WM_CLASS":
		return xproto.AtomWmClass
	default:
		return xproto.AtomNone
	}
}

func (f *fakeConn) has(call string) bool {
	for _, c := range f.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (f *fakeConn) reset() { f.calls = nil }
