package wm

import (
	"fmt"
	"strings"

	"github.com/jezek/xgb/xproto"
)

// keysymNames covers the non-Latin keys bindable from the config file.
// Single Latin letters and digits map through their codepoint directly.
var keysymNames = map[string]xproto.Keysym{
	"space":     0x0020,
	"Tab":       0xff09,
	"Return":    0xff0d,
	"Escape":    0xff1b,
	"BackSpace": 0xff08,
	"Delete":    0xffff,
	"Home":      0xff50,
	"Left":      0xff51,
	"Up":        0xff52,
	"Right":     0xff53,
	"Down":      0xff54,
	"Prior":     0xff55,
	"Next":      0xff56,
	"End":       0xff57,
	"F1":        0xffbe,
	"F2":        0xffbf,
	"F3":        0xffc0,
	"F4":        0xffc1,
	"F5":        0xffc2,
	"F6":        0xffc3,
	"F7":        0xffc4,
	"F8":        0xffc5,
	"F9":        0xffc6,
	"F10":       0xffc7,
	"F11":       0xffc8,
	"F12":       0xffc9,
}

func ParseKeysym(name string) (xproto.Keysym, error) {
	if sym, ok := keysymNames[name]; ok {
		return sym, nil
	}
	if len(name) == 1 {
		r := rune(strings.ToLower(name)[0])
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return xproto.Keysym(r), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

var modifierNames = map[string]uint16{
	"Shift":   xproto.ModMaskShift,
	"Lock":    xproto.ModMaskLock,
	"Control": xproto.ModMaskControl,
	"Ctrl":    xproto.ModMaskControl,
	"Mod1":    xproto.ModMask1,
	"Alt":     xproto.ModMask1,
	"Mod2":    xproto.ModMask2,
	"Mod3":    xproto.ModMask3,
	"Mod4":    xproto.ModMask4,
	"Super":   xproto.ModMask4,
	"Mod5":    xproto.ModMask5,
}

func ParseModifiers(mods []string) (uint16, error) {
	var mask uint16
	for _, mod := range mods {
		m, ok := modifierNames[mod]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", mod)
		}
		mask |= m
	}
	return mask, nil
}

// relevantModMask strips the lock modifiers before comparing event state
// against a binding.
const relevantModMask = uint16(xproto.ModMaskShift | xproto.ModMaskControl |
	xproto.ModMask1 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5)
