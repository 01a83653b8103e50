package config

var defaultConfig = Config{
	Tags: []Tag{
		{Name: "1"},
		{Name: "2"},
		{Name: "3"},
		{Name: "4"},
		{Name: "5"},
	},
	Settings: Settings{
		FocusFollowsMouse:  true,
		RaiseOnClick:       true,
		AutoDetectMonitors: false,
		ImportTagsFromEwmh: true,
	},
	Keybinds: []Keybind{
		{Mods: []string{"Mod4"}, Key: "Return", Command: []string{"spawn", "xterm"}},
		{Mods: []string{"Mod4", "Shift"}, Key: "q", Command: []string{"quit"}},
	},
	Mousebinds: []Mousebind{
		{Mods: []string{"Mod4"}, Button: 1, Action: "move"},
		{Mods: []string{"Mod4"}, Button: 3, Action: "resize"},
		{Mods: []string{"Mod4"}, Button: 2, Action: "zoom"},
	},
}

type Config struct {
	Tags       []Tag       `json:"tags" yaml:"tags"`
	Rules      []Rule      `json:"rules" yaml:"rules"`
	Settings   Settings    `json:"settings" yaml:"settings"`
	Keybinds   []Keybind   `json:"keybinds" yaml:"keybinds"`
	Mousebinds []Mousebind `json:"mousebinds" yaml:"mousebinds"`
}

type Tag struct {
	UUID string `json:"uuid" yaml:"uuid"`
	Name string `json:"name" yaml:"name"`
}

// Rule matches new clients by WM_CLASS instance/class or title and
// overrides their placement.
type Rule struct {
	Instance   string `json:"instance,omitempty" yaml:"instance,omitempty"`
	Class      string `json:"class,omitempty" yaml:"class,omitempty"`
	Title      string `json:"title,omitempty" yaml:"title,omitempty"`
	Tag        string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Floating   *bool  `json:"floating,omitempty" yaml:"floating,omitempty"`
	Pseudotile *bool  `json:"pseudotile,omitempty" yaml:"pseudotile,omitempty"`
}

type Settings struct {
	FocusFollowsMouse  bool `json:"focus_follows_mouse" yaml:"focus_follows_mouse"`
	RaiseOnClick       bool `json:"raise_on_click" yaml:"raise_on_click"`
	AutoDetectMonitors bool `json:"auto_detect_monitors" yaml:"auto_detect_monitors"`
	ImportTagsFromEwmh bool `json:"import_tags_from_ewmh" yaml:"import_tags_from_ewmh"`
}

type Keybind struct {
	Mods    []string `json:"mods" yaml:"mods"`
	Key     string   `json:"key" yaml:"key"`
	Command []string `json:"command" yaml:"command"`
}

type Mousebind struct {
	Mods   []string `json:"mods" yaml:"mods"`
	Button byte     `json:"button" yaml:"button"`
	Action string   `json:"action" yaml:"action"` // [move, resize, zoom]
}
