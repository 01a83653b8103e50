// Package ipc implements the X-property request channel a command line
// client uses to talk to the running manager: the client creates a
// window with a well-known class instance, writes its argument vector
// into a property and reads the reply properties back.
package ipc

import (
	"log/slog"

	"github.com/jezek/xgb/xproto"
)

// ClassInstance marks a window as an IPC endpoint via the WM_CLASS
// instance string.
const ClassInstance = "_XTILEWM_IPC"

const (
	atomArgs       = "_XTILEWM_IPC_ARGS"
	atomOutput     = "_XTILEWM_IPC_OUTPUT"
	atomError      = "_XTILEWM_IPC_ERROR"
	atomExitStatus = "_XTILEWM_IPC_EXIT_STATUS"
)

// CallResult is the reply to one IPC request.
type CallResult struct {
	ExitCode int    `json:"exit_code"`
	Output   string `json:"output"`
	Error    string `json:"error"`
}

// Conn is the slice of the display connection this package needs;
// satisfied by *x11.Conn.
type Conn interface {
	Atom(name string) xproto.Atom
	GetClassHint(win xproto.Window) (instance, class string)
	GetPropertyTextList(win xproto.Window, prop xproto.Atom) ([]string, bool)
	SetPropertyString(win xproto.Window, prop xproto.Atom, value string)
	SetPropertyCardinals(win xproto.Window, prop xproto.Atom, values []uint32)
	DeleteProperty(win xproto.Window, prop xproto.Atom)
	SelectInput(win xproto.Window, mask uint32)
}

type Server struct {
	conn        Conn
	connections map[xproto.Window]struct{}
}

func NewServer(conn Conn) *Server {
	return &Server{
		conn:        conn,
		connections: make(map[xproto.Window]struct{}),
	}
}

// IsConnectable reports whether a window identifies itself as an IPC
// endpoint.
func (s *Server) IsConnectable(win xproto.Window) bool {
	instance, _ := s.conn.GetClassHint(win)
	return instance == ClassInstance
}

// AddConnection starts watching an endpoint window for request
// properties.
func (s *Server) AddConnection(win xproto.Window) {
	if _, ok := s.connections[win]; ok {
		return
	}
	s.connections[win] = struct{}{}
	s.conn.SelectInput(win, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	slog.Debug("Added IPC connection", "package", "ipc", "window", win)
}

// RemoveConnection forgets a destroyed endpoint window.
func (s *Server) RemoveConnection(win xproto.Window) {
	delete(s.connections, win)
}

// HandleConnection services a pending request on the window, if any,
// using the supplied command adapter, and publishes the reply.
func (s *Server) HandleConnection(win xproto.Window, call func([]string) CallResult) {
	args, ok := s.conn.GetPropertyTextList(win, s.conn.Atom(atomArgs))
	if !ok {
		return
	}
	result := call(args)
	s.conn.SetPropertyString(win, s.conn.Atom(atomOutput), result.Output)
	s.conn.SetPropertyString(win, s.conn.Atom(atomError), result.Error)
	s.conn.SetPropertyCardinals(win, s.conn.Atom(atomExitStatus), []uint32{uint32(result.ExitCode)})
	s.conn.DeleteProperty(win, s.conn.Atom(atomArgs))
}
