package main

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/ItsNotGoodName/x-tilewm/internal/build"
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/xwm"
	"github.com/k0kubun/pp"
)

// RegisterCommands wires the built-in command set. Commands run on the
// dispatcher thread, either from key bindings or from IPC requests.
func RegisterCommands(registry *command.Registry, loop *xwm.MainLoop, root *wm.Root, settings *config.Runtime) {
	registry.Register("quit", func(_ command.Input, _ command.OutputChannels) int {
		loop.Quit()
		return command.ExitSuccess
	})

	registry.Register("version", func(_ command.Input, ch command.OutputChannels) int {
		fmt.Fprintf(ch.Out, "x-tilewm %s\n", build.Current.Version)
		return command.ExitSuccess
	})

	registry.Register("echo", func(input command.Input, ch command.OutputChannels) int {
		fmt.Fprintln(ch.Out, strings.Join(input.Args, " "))
		return command.ExitSuccess
	})

	registry.Register("true", func(_ command.Input, _ command.OutputChannels) int {
		return command.ExitSuccess
	})

	registry.Register("false", func(_ command.Input, _ command.OutputChannels) int {
		return command.ExitError
	})

	registry.Register("spawn", func(input command.Input, ch command.OutputChannels) int {
		if len(input.Args) == 0 {
			fmt.Fprintln(ch.Err, "spawn: missing command")
			return command.ExitError
		}
		cmd := exec.Command(input.Args[0], input.Args[1:]...)
		if err := cmd.Start(); err != nil {
			fmt.Fprintf(ch.Err, "spawn: %v\n", err)
			return command.ExitError
		}
		// the event loop reaps the child; release it so os/exec does not
		// expect a Wait
		cmd.Process.Release()
		return command.ExitSuccess
	})

	registry.Register("list_clients", func(_ command.Input, ch command.OutputChannels) int {
		for _, c := range root.Clients.All() {
			tag := ""
			if c.Tag != nil {
				tag = c.Tag.Name
			}
			fmt.Fprintf(ch.Out, "0x%x\t%s\t%s\n", c.Window, tag, c.Title)
		}
		return command.ExitSuccess
	})

	registry.Register("list_monitors", func(_ command.Input, ch command.OutputChannels) int {
		for _, m := range root.Monitors.All() {
			tag := ""
			if m.Tag != nil {
				tag = m.Tag.Name
			}
			fmt.Fprintf(ch.Out, "%d: %dx%d%+d%+d with tag %q\n",
				m.Index, m.Rect.Width, m.Rect.Height, m.Rect.X, m.Rect.Y, tag)
		}
		return command.ExitSuccess
	})

	registry.Register("detect_monitors", root.Monitors.DetectMonitorsCommand)

	registry.Register("get", func(input command.Input, ch command.OutputChannels) int {
		if len(input.Args) != 1 {
			fmt.Fprintln(ch.Err, "get: expected exactly one setting name")
			return command.ExitError
		}
		value, err := settings.Get(input.Args[0])
		if err != nil {
			fmt.Fprintf(ch.Err, "get: %v\n", err)
			return command.ExitError
		}
		fmt.Fprintln(ch.Out, value)
		return command.ExitSuccess
	})

	registry.Register("set", func(input command.Input, ch command.OutputChannels) int {
		if len(input.Args) != 2 {
			fmt.Fprintln(ch.Err, "set: expected a setting name and a value")
			return command.ExitError
		}
		if err := settings.Set(input.Args[0], input.Args[1]); err != nil {
			fmt.Fprintf(ch.Err, "set: %v\n", err)
			return command.ExitError
		}
		return command.ExitSuccess
	})

	registry.Register("watch", func(input command.Input, ch command.OutputChannels) int {
		if len(input.Args) != 1 {
			fmt.Fprintln(ch.Err, "watch: expected exactly one setting name")
			return command.ExitError
		}
		name := input.Args[0]
		if _, err := settings.Get(name); err != nil {
			fmt.Fprintf(ch.Err, "watch: %v\n", err)
			return command.ExitError
		}
		root.Watchers.AddWatch(name, func() string {
			value, _ := settings.Get(name)
			return value
		})
		return command.ExitSuccess
	})

	registry.Register("dump", func(_ command.Input, ch command.OutputChannels) int {
		type dumpMonitor struct {
			Index  int
			Tag    string
			Rect   string
			PadUp  uint16
			PadDn  uint16
			PadLt  uint16
			PadRt  uint16
		}
		type dumpClient struct {
			Window   uint32
			Title    string
			Tag      string
			Floating bool
		}
		var monitors []dumpMonitor
		for _, m := range root.Monitors.All() {
			tag := ""
			if m.Tag != nil {
				tag = m.Tag.Name
			}
			monitors = append(monitors, dumpMonitor{
				Index: m.Index,
				Tag:   tag,
				Rect:  fmt.Sprintf("%dx%d%+d%+d", m.Rect.Width, m.Rect.Height, m.Rect.X, m.Rect.Y),
				PadUp: m.Pad.Up, PadDn: m.Pad.Down, PadLt: m.Pad.Left, PadRt: m.Pad.Right,
			})
		}
		var clients []dumpClient
		for _, c := range root.Clients.All() {
			tag := ""
			if c.Tag != nil {
				tag = c.Tag.Name
			}
			clients = append(clients, dumpClient{
				Window: uint32(c.Window), Title: c.Title, Tag: tag, Floating: c.Floating,
			})
		}
		fmt.Fprintln(ch.Out, pp.Sprint(map[string]any{
			"monitors": monitors,
			"clients":  clients,
		}))
		return command.ExitSuccess
	})
}
