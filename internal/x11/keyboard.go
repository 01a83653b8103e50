package x11

import (
	"github.com/jezek/xgb/xproto"
)

func (c *Conn) refreshKeymap(min, max xproto.Keycode) error {
	reply, err := xproto.GetKeyboardMapping(c.conn, min, uint8(max-min+1)).Reply()
	if err != nil {
		return err
	}
	c.keyMu.Lock()
	c.keysyms = reply.Keysyms
	c.keysymsPerCode = reply.KeysymsPerKeycode
	c.minKeycode = min
	c.maxKeycode = max
	c.keyMu.Unlock()
	return nil
}

// RefreshKeyboardMapping refetches the cached keycode to keysym table
// after a MappingNotify.
func (c *Conn) RefreshKeyboardMapping(ev xproto.MappingNotifyEvent) {
	min, max := c.minKeycode, c.maxKeycode
	if min == 0 {
		setup := xproto.Setup(c.conn)
		min, max = setup.MinKeycode, setup.MaxKeycode
	}
	c.refreshKeymap(min, max)
}

// KeycodeToKeysym returns the keysym in the given column of a keycode's
// mapping entry, or 0 when the keycode is out of range.
func (c *Conn) KeycodeToKeysym(code xproto.Keycode, column int) xproto.Keysym {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	if code < c.minKeycode || code > c.maxKeycode || c.keysymsPerCode == 0 {
		return 0
	}
	i := int(code-c.minKeycode)*int(c.keysymsPerCode) + column
	if i >= len(c.keysyms) {
		return 0
	}
	return c.keysyms[i]
}

// KeysymToKeycodes returns every keycode whose first column maps to the
// keysym.
func (c *Conn) KeysymToKeycodes(sym xproto.Keysym) []xproto.Keycode {
	c.keyMu.Lock()
	defer c.keyMu.Unlock()
	var out []xproto.Keycode
	if c.keysymsPerCode == 0 {
		return out
	}
	for code := c.minKeycode; ; code++ {
		i := int(code-c.minKeycode) * int(c.keysymsPerCode)
		if i < len(c.keysyms) && c.keysyms[i] == sym {
			out = append(out, code)
		}
		if code == c.maxKeycode {
			break
		}
	}
	return out
}

func (c *Conn) GrabKey(key xproto.Keycode, modifiers uint16) {
	xproto.GrabKey(c.conn, true, c.root, modifiers, key,
		xproto.GrabModeAsync, xproto.GrabModeAsync)
}

func (c *Conn) UngrabAllKeys() {
	xproto.UngrabKey(c.conn, xproto.GrabAny, c.root, xproto.ModMaskAny)
}
