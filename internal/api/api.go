// Package api exposes a small HTTP surface over the running manager: a
// state snapshot and a command bridge. Every request that touches the
// model is marshalled onto the dispatcher goroutine, so the
// single-threaded model holds.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/ItsNotGoodName/x-tilewm/internal/build"
	"github.com/ItsNotGoodName/x-tilewm/internal/ipc"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/xwm"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
)

type ClientInfo struct {
	Window   uint32 `json:"window"`
	Title    string `json:"title"`
	Tag      string `json:"tag"`
	Floating bool   `json:"floating"`
}

type MonitorInfo struct {
	Index  int    `json:"index"`
	Tag    string `json:"tag"`
	X      int16  `json:"x"`
	Y      int16  `json:"y"`
	Width  uint16 `json:"width"`
	Height uint16 `json:"height"`
}

type State struct {
	Clients  []ClientInfo  `json:"clients"`
	Monitors []MonitorInfo `json:"monitors"`
}

type Server struct {
	address string
	handler http.Handler
}

func New(address string, loop *xwm.MainLoop, root *wm.Root) *Server {
	router := chi.NewMux()
	router.Use(logger)
	humaAPI := humachi.New(router, huma.DefaultConfig("x-tilewm", build.Current.Version))

	huma.Register(humaAPI, huma.Operation{
		OperationID: "get-state",
		Method:      http.MethodGet,
		Path:        "/api/state",
		Summary:     "Snapshot of clients and monitors",
	}, func(ctx context.Context, _ *struct{}) (*stateOutput, error) {
		done := make(chan State, 1)
		loop.Post(func() { done <- snapshot(root) })
		select {
		case state := <-done:
			return &stateOutput{Body: state}, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})

	huma.Register(humaAPI, huma.Operation{
		OperationID: "call-command",
		Method:      http.MethodPost,
		Path:        "/api/command",
		Summary:     "Run a command on the dispatcher thread",
	}, func(ctx context.Context, input *commandInput) (*commandOutput, error) {
		return &commandOutput{Body: loop.Call(input.Body.Call)}, nil
	})

	return &Server{address: address, handler: router}
}

type stateOutput struct {
	Body State
}

type commandInput struct {
	Body struct {
		Call []string `json:"call" doc:"Command name followed by arguments"`
	}
}

type commandOutput struct {
	Body ipc.CallResult
}

func snapshot(root *wm.Root) State {
	state := State{Clients: []ClientInfo{}, Monitors: []MonitorInfo{}}
	for _, c := range root.Clients.All() {
		info := ClientInfo{
			Window:   uint32(c.Window),
			Title:    c.Title,
			Floating: c.Floating,
		}
		if c.Tag != nil {
			info.Tag = c.Tag.Name
		}
		state.Clients = append(state.Clients, info)
	}
	for _, m := range root.Monitors.All() {
		info := MonitorInfo{
			Index: m.Index,
			X:     m.Rect.X, Y: m.Rect.Y,
			Width: m.Rect.Width, Height: m.Rect.Height,
		}
		if m.Tag != nil {
			info.Tag = m.Tag.Name
		}
		state.Monitors = append(state.Monitors, info)
	}
	return state
}

func (s *Server) String() string {
	return "api.Server(" + s.address + ")"
}

func (s *Server) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	server := &http.Server{Handler: s.handler}

	errC := make(chan error, 1)
	go func() { errC <- server.Serve(listener) }()
	slog.Info("HTTP API listening", "package", "api", "address", s.address)

	select {
	case err := <-errC:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return ctx.Err()
}

func logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("Handled request", "package", "api", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
