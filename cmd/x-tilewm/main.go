package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ItsNotGoodName/x-tilewm/internal/api"
	"github.com/ItsNotGoodName/x-tilewm/internal/build"
	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/ItsNotGoodName/x-tilewm/internal/ewmh"
	"github.com/ItsNotGoodName/x-tilewm/internal/ipc"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/x11"
	"github.com/ItsNotGoodName/x-tilewm/internal/xwm"
	"github.com/ItsNotGoodName/x-tilewm/pkg/sutureext"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/joho/godotenv"
	"github.com/phsym/console-slog"
	"github.com/thejerf/suture/v4"
)

type Options struct {
	Debug   bool   `doc:"enable debug"`
	Display string `doc:"X display to connect to, empty for $DISPLAY"`
	Config  string `doc:"config file" default:".x-tilewm.yaml"`
	HTTP    string `doc:"http api listen address, empty to disable"`
}

func main() {
	godotenv.Load()

	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		if options.Debug {
			InitLogger(slog.LevelDebug)
		} else {
			InitLogger(slog.LevelInfo)
		}

		OnServe(hooks, func(ctx context.Context) error {
			bus.SetContext(ctx)

			configFilePath, err := filepath.Abs(options.Config)
			if err != nil {
				return err
			}

			store, err := config.NewStore(config.NewYAML(configFilePath))
			if err != nil {
				return err
			}
			if err := config.Normalize(&store); err != nil {
				return err
			}
			cfg, err := store.GetConfig()
			if err != nil {
				return err
			}
			settings := config.NewRuntime(cfg.Settings)

			conn, err := x11.Connect(options.Display)
			if err != nil {
				return err
			}
			defer conn.Close()

			registry := command.NewRegistry()
			root := wm.New(conn, settings, cfg, registry)

			ew, err := ewmh.New(conn, root.Clients, root.Monitors, root.Tags)
			if err != nil {
				return err
			}
			if err := conn.TakeSubstructureRedirect(); err != nil {
				return errors.New("another window manager is already running")
			}

			root.Monitors.SetDetect(conn.DetectOutputs)

			loop := xwm.New(conn, &xwm.Root{
				Clients:          root.Clients,
				Monitors:         root.Monitors,
				Panels:           root.Panels,
				Keys:             root.Keys,
				Mouse:            root.Mouse,
				Ewmh:             ew,
				Decorations:      root.Decorations,
				FrameDecorations: root.FrameDecorations,
				Desktops:         root.Desktops,
				Tags:             root.Tags,
				Ipc:              ipc.NewServer(conn),
				Watchers:         root.Watchers,
				Commands:         registry,
				Settings:         settings,
			})
			RegisterCommands(registry, loop, root, settings)

			root.Keys.RegrabAll()
			loop.ScanExistingClients()

			super := sutureext.NewSimple("x-tilewm")
			if options.HTTP != "" {
				super.Add(api.New(options.HTTP, loop, root))
			}
			super.Add(sutureext.NewServiceFunc("xwm", func(ctx context.Context) error {
				if err := loop.Run(ctx); err != nil {
					return err
				}
				// a clean exit means quit or WM replacement; take the
				// whole process down instead of restarting the loop
				return suture.ErrTerminateSupervisorTree
			}))
			err = super.Serve(ctx)
			if errors.Is(err, suture.ErrTerminateSupervisorTree) {
				return nil
			}
			return err
		})
	})

	cli.Root().Version = build.Current.Version

	cli.Run()
}

func InitLogger(level slog.Level) {
	slog.SetDefault(slog.New(console.NewHandler(os.Stderr, &console.HandlerOptions{
		Level: level,
	})))
}

func OnServe(hooks humacli.Hooks, serveFn func(ctx context.Context) error) {
	stopC := make(chan struct{})
	hooks.OnStart(func() {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errC := make(chan error, 1)

		go func() { errC <- serveFn(ctx) }()

		select {
		case <-stopC:
			cancel()
		case err := <-errC:
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Fatal(err)
			}
			return
		}

		<-errC
		<-stopC
	})
	hooks.OnStop(func() {
		stopC <- struct{}{}
		stopC <- struct{}{}
	})
}
