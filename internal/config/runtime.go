package config

import "fmt"

// Runtime holds the mutable settings the window manager consults while
// running. It is read and written only on the dispatcher thread; the
// `set` command mutates it and `get` reads it.
type Runtime struct {
	settings Settings
}

func NewRuntime(settings Settings) *Runtime {
	return &Runtime{settings: settings}
}

func (r *Runtime) FocusFollowsMouse() bool  { return r.settings.FocusFollowsMouse }
func (r *Runtime) RaiseOnClick() bool       { return r.settings.RaiseOnClick }
func (r *Runtime) AutoDetectMonitors() bool { return r.settings.AutoDetectMonitors }
func (r *Runtime) ImportTagsFromEwmh() bool { return r.settings.ImportTagsFromEwmh }

func (r *Runtime) Get(name string) (string, error) {
	switch name {
	case "focus_follows_mouse":
		return formatBool(r.settings.FocusFollowsMouse), nil
	case "raise_on_click":
		return formatBool(r.settings.RaiseOnClick), nil
	case "auto_detect_monitors":
		return formatBool(r.settings.AutoDetectMonitors), nil
	case "import_tags_from_ewmh":
		return formatBool(r.settings.ImportTagsFromEwmh), nil
	default:
		return "", fmt.Errorf("unknown setting %q", name)
	}
}

func (r *Runtime) Set(name, value string) error {
	b, err := parseBool(value)
	if err != nil {
		return err
	}
	switch name {
	case "focus_follows_mouse":
		r.settings.FocusFollowsMouse = b
	case "raise_on_click":
		r.settings.RaiseOnClick = b
	case "auto_detect_monitors":
		r.settings.AutoDetectMonitors = b
	case "import_tags_from_ewmh":
		r.settings.ImportTagsFromEwmh = b
	default:
		return fmt.Errorf("unknown setting %q", name)
	}
	return nil
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func parseBool(s string) (bool, error) {
	switch s {
	case "true", "on", "1":
		return true, nil
	case "false", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean %q", s)
	}
}
