package x11

import (
	"bytes"
	"encoding/binary"

	"github.com/jezek/xgb/xproto"
)

// Atom interns an atom name, caching the result for the connection
// lifetime.
func (c *Conn) Atom(name string) xproto.Atom {
	c.atomMu.Lock()
	defer c.atomMu.Unlock()
	if atom, ok := c.atoms[name]; ok {
		return atom
	}
	reply, err := xproto.InternAtom(c.conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return xproto.AtomNone
	}
	c.atoms[name] = reply.Atom
	return reply.Atom
}

func (c *Conn) getProperty(win xproto.Window, prop, typ xproto.Atom) (*xproto.GetPropertyReply, bool) {
	reply, err := xproto.GetProperty(c.conn, false, win, prop, typ, 0, 1<<16).Reply()
	if err != nil || reply.Format == 0 {
		return nil, false
	}
	return reply, true
}

func (c *Conn) GetPropertyString(win xproto.Window, prop xproto.Atom) (string, bool) {
	reply, ok := c.getProperty(win, prop, xproto.GetPropertyTypeAny)
	if !ok || reply.Format != 8 {
		return "", false
	}
	value := reply.Value
	if i := bytes.IndexByte(value, 0); i >= 0 {
		value = value[:i]
	}
	return string(value), true
}

// GetPropertyTextList reads a NUL-separated string list property, the
// encoding used for WM_CLASS and the IPC argument vector.
func (c *Conn) GetPropertyTextList(win xproto.Window, prop xproto.Atom) ([]string, bool) {
	reply, ok := c.getProperty(win, prop, xproto.GetPropertyTypeAny)
	if !ok || reply.Format != 8 {
		return nil, false
	}
	value := reply.Value
	value = bytes.TrimSuffix(value, []byte{0})
	if len(value) == 0 {
		return []string{}, true
	}
	parts := bytes.Split(value, []byte{0})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, string(p))
	}
	return out, true
}

func (c *Conn) GetPropertyCardinals(win xproto.Window, prop xproto.Atom) ([]uint32, bool) {
	reply, ok := c.getProperty(win, prop, xproto.GetPropertyTypeAny)
	if !ok || reply.Format != 32 {
		return nil, false
	}
	return decode32(reply.Value), true
}

func (c *Conn) GetPropertyWindows(win xproto.Window, prop xproto.Atom) ([]xproto.Window, bool) {
	values, ok := c.GetPropertyCardinals(win, prop)
	if !ok {
		return nil, false
	}
	out := make([]xproto.Window, 0, len(values))
	for _, v := range values {
		out = append(out, xproto.Window(v))
	}
	return out, true
}

func (c *Conn) GetPropertyAtoms(win xproto.Window, prop xproto.Atom) ([]xproto.Atom, bool) {
	values, ok := c.GetPropertyCardinals(win, prop)
	if !ok {
		return nil, false
	}
	out := make([]xproto.Atom, 0, len(values))
	for _, v := range values {
		out = append(out, xproto.Atom(v))
	}
	return out, true
}

// GetClassHint returns the WM_CLASS instance and class strings.
func (c *Conn) GetClassHint(win xproto.Window) (instance, class string) {
	list, ok := c.GetPropertyTextList(win, xproto.AtomWmClass)
	if !ok || len(list) == 0 {
		return "", ""
	}
	instance = list[0]
	if len(list) > 1 {
		class = list[1]
	}
	return instance, class
}

func (c *Conn) SetPropertyString(win xproto.Window, prop xproto.Atom, value string) {
	utf8 := c.Atom("UTF8_STRING")
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, win, prop, utf8,
		8, uint32(len(value)), []byte(value))
}

func (c *Conn) SetPropertyCardinals(win xproto.Window, prop xproto.Atom, values []uint32) {
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, win, prop, xproto.AtomCardinal,
		32, uint32(len(values)), encode32(values))
}

func (c *Conn) SetPropertyWindows(win xproto.Window, prop xproto.Atom, wins []xproto.Window) {
	values := make([]uint32, 0, len(wins))
	for _, w := range wins {
		values = append(values, uint32(w))
	}
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, win, prop, xproto.AtomWindow,
		32, uint32(len(values)), encode32(values))
}

func (c *Conn) SetPropertyAtoms(win xproto.Window, prop xproto.Atom, atoms []xproto.Atom) {
	values := make([]uint32, 0, len(atoms))
	for _, a := range atoms {
		values = append(values, uint32(a))
	}
	xproto.ChangeProperty(c.conn, xproto.PropModeReplace, win, prop, xproto.AtomAtom,
		32, uint32(len(values)), encode32(values))
}

func (c *Conn) DeleteProperty(win xproto.Window, prop xproto.Atom) {
	xproto.DeleteProperty(c.conn, win, prop)
}

func decode32(value []byte) []uint32 {
	out := make([]uint32, 0, len(value)/4)
	for len(value) >= 4 {
		out = append(out, binary.LittleEndian.Uint32(value))
		value = value[4:]
	}
	return out
}

func encode32(values []uint32) []byte {
	out := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}
