package wm

import (
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
)

// Root aggregates the window manager model, wired together in
// construction order.
type Root struct {
	Conn             Conn
	Settings         *config.Runtime
	Tags             *TagManager
	Desktops         *DesktopWindows
	Panels           *PanelManager
	Decorations      *Decorations
	FrameDecorations *FrameDecorations
	Clients          *ClientManager
	Monitors         *MonitorManager
	Keys             *KeyManager
	Mouse            *MouseManager
	Watchers         *Watchers
}

func New(conn Conn, settings *config.Runtime, cfg config.Config, registry *command.Registry) *Root {
	tags := NewTagManager(cfg.Tags)
	desktops := NewDesktopWindows(conn)
	panels := NewPanelManager(conn)
	decorations := NewDecorations(conn)
	frameDecorations := NewFrameDecorations(conn)
	clients := NewClientManager(conn, cfg.Rules, tags, decorations)
	monitors := NewMonitorManager(conn, tags, desktops)
	clients.SetMonitors(monitors)
	monitors.SetPanels(panels)
	panels.SetOnChange(monitors.UpdatePads)
	mouse := NewMouseManager(conn, clients, monitors, decorations, cfg.Mousebinds)
	keys := NewKeyManager(conn, registry, cfg.Keybinds)

	return &Root{
		Conn:             conn,
		Settings:         settings,
		Tags:             tags,
		Desktops:         desktops,
		Panels:           panels,
		Decorations:      decorations,
		FrameDecorations: frameDecorations,
		Clients:          clients,
		Monitors:         monitors,
		Keys:             keys,
		Mouse:            mouse,
		Watchers:         NewWatchers(),
	}
}
