package wm

import (
	"log/slog"

	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/jezek/xgb/xproto"
)

type KeyBinding struct {
	Mods   uint16
	Keysym xproto.Keysym
	Call   []string
}

// KeyManager grabs configured key combinations on the root window and
// turns presses into command calls.
type KeyManager struct {
	conn     Conn
	registry *command.Registry
	binds    []KeyBinding
}

func NewKeyManager(conn Conn, registry *command.Registry, cfg []config.Keybind) *KeyManager {
	km := &KeyManager{conn: conn, registry: registry}
	for _, kb := range cfg {
		if len(kb.Command) == 0 {
			slog.Warn("Ignoring keybind without command", "package", "wm", "key", kb.Key)
			continue
		}
		mods, err := ParseModifiers(kb.Mods)
		if err != nil {
			slog.Warn("Ignoring keybind", "package", "wm", "key", kb.Key, "error", err)
			continue
		}
		sym, err := ParseKeysym(kb.Key)
		if err != nil {
			slog.Warn("Ignoring keybind", "package", "wm", "key", kb.Key, "error", err)
			continue
		}
		km.binds = append(km.binds, KeyBinding{Mods: mods, Keysym: sym, Call: kb.Command})
	}
	return km
}

func (km *KeyManager) Bindings() []KeyBinding { return km.binds }

func (km *KeyManager) HandleKeyPress(ev xproto.KeyPressEvent) {
	sym := km.conn.KeycodeToKeysym(ev.Detail, 0)
	state := ev.State & relevantModMask
	for _, b := range km.binds {
		if b.Keysym != sym || b.Mods != state {
			continue
		}
		input := command.NewInput(b.Call[0], b.Call[1:])
		if code := km.registry.Call(input, command.Stdio()); code != command.ExitSuccess {
			slog.Warn("Keybind command failed", "package", "wm", "command", b.Call[0], "exit", code)
		}
		return
	}
}

// RegrabAll re-establishes every grab, also covering the lock modifier
// combinations so caps lock and num lock do not shadow bindings.
func (km *KeyManager) RegrabAll() {
	km.conn.UngrabAllKeys()
	lockMods := []uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2}
	for _, b := range km.binds {
		for _, code := range km.conn.KeysymToKeycodes(b.Keysym) {
			for _, lock := range lockMods {
				km.conn.GrabKey(code, b.Mods|lock)
			}
		}
	}
}
