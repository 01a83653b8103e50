package xwm

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/ipc"
	"github.com/ItsNotGoodName/x-tilewm/internal/wm"
	"github.com/ItsNotGoodName/x-tilewm/internal/x11"
	"github.com/ItsNotGoodName/x-tilewm/internal/xcursor"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"golang.org/x/sys/unix"
)

// ChildExited is published for every reaped child process.
type ChildExited struct {
	Pid    int
	Status int
}

// lastEvent bounds the handler table; core X event codes are below it.
const lastEvent = 36

type handlerFunc func(ev x11.Event)

// MainLoop pumps X events until quit. The handler table is populated
// once at construction and never changes; unregistered event types are
// dropped silently.
type MainLoop struct {
	conn XConn
	root *Root

	handlerTable [lastEvent]handlerFunc
	queue        []x11.Event
	eventsClosed bool

	aboutToQuit       bool
	duringEnterNotify bool

	sigchld   chan os.Signal
	proactive chan func()
}

func New(conn XConn, root *Root) *MainLoop {
	m := &MainLoop{
		conn:      conn,
		root:      root,
		sigchld:   make(chan os.Signal, 1),
		proactive: make(chan func(), 8),
	}

	m.handlerTable[xproto.ButtonPress] = m.buttonPress
	m.handlerTable[xproto.ButtonRelease] = m.buttonRelease
	m.handlerTable[xproto.ClientMessage] = m.clientMessage
	m.handlerTable[xproto.ConfigureNotify] = m.configureNotify
	m.handlerTable[xproto.ConfigureRequest] = m.configureRequest
	m.handlerTable[xproto.CreateNotify] = m.createNotify
	m.handlerTable[xproto.DestroyNotify] = m.destroyNotify
	m.handlerTable[xproto.EnterNotify] = m.enterNotify
	m.handlerTable[xproto.Expose] = m.expose
	m.handlerTable[xproto.FocusIn] = m.focusIn
	m.handlerTable[xproto.KeyPress] = m.keyPress
	m.handlerTable[xproto.MapNotify] = m.mapNotify
	m.handlerTable[xproto.MapRequest] = m.mapRequest
	m.handlerTable[xproto.MappingNotify] = m.mappingNotify
	m.handlerTable[xproto.MotionNotify] = m.motionNotify
	m.handlerTable[xproto.PropertyNotify] = m.propertyNotify
	m.handlerTable[xproto.UnmapNotify] = m.unmapNotify
	m.handlerTable[xproto.SelectionClear] = m.selectionClear

	signal.Notify(m.sigchld, unix.SIGCHLD)

	bus.Subscribe("xwm.dragged", func(_ context.Context, ev wm.DraggedClientChanged) error {
		m.draggedClientChanges(ev.Client)
		return nil
	})
	bus.Subscribe("xwm.dropenternotify", func(_ context.Context, _ wm.DropEnterNotifyEvents) error {
		m.DropEnterNotifyEvents()
		return nil
	})

	return m
}

// Run pumps events until Quit is called or the connection dies. Children
// are reaped before every wait and after every wake, so a SIGCHLD that
// interrupts the wait never leaves zombies behind even when no X event
// is pending.
func (m *MainLoop) Run(ctx context.Context) error {
	for !m.aboutToQuit {
		m.collectZombies()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-m.sigchld:
		case f := <-m.proactive:
			f()
		case ev, ok := <-m.conn.Events():
			if !ok {
				m.eventsClosed = true
				return nil
			}
			m.queue = append(m.queue, ev)
		}
		m.collectZombies()
		if m.aboutToQuit {
			break
		}
		m.syncQueue()
		for len(m.queue) > 0 && !m.aboutToQuit {
			ev := m.queue[0]
			m.queue = m.queue[1:]
			if code := eventCode(ev.Ev); code >= 0 && m.handlerTable[code] != nil {
				m.handlerTable[code](ev)
			}
			m.root.Watchers.ScanForChanges()
			m.syncQueue()
		}
	}
	return nil
}

// Quit makes the loop exit at its next safe point. Call it on the
// dispatcher goroutine; from elsewhere use Post.
func (m *MainLoop) Quit() {
	m.aboutToQuit = true
}

// Post schedules a closure on the dispatcher goroutine. It runs at the
// wait safe point, never in the middle of a handler.
func (m *MainLoop) Post(f func()) {
	m.proactive <- f
}

// Call runs an IPC call vector on the dispatcher goroutine and waits for
// the result. It must not be called from the dispatcher itself.
func (m *MainLoop) Call(call []string) ipc.CallResult {
	done := make(chan ipc.CallResult, 1)
	m.Post(func() {
		done <- m.CallCommand(call)
	})
	return <-done
}

// collectZombies reaps exited children without blocking and announces
// each one.
func (m *MainLoop) collectZombies() {
	for {
		var status unix.WaitStatus
		pid, err := unix.Wait4(-1, &status, unix.WNOHANG, nil)
		if err != nil || pid <= 0 {
			return
		}
		bus.Publish(ChildExited{Pid: pid, Status: status.ExitStatus()})
	}
}

// syncQueue flushes the outgoing request queue and moves every event the
// server already delivered into the local queue.
func (m *MainLoop) syncQueue() {
	m.conn.Sync()
	m.pump()
}

func (m *MainLoop) pump() {
	if m.eventsClosed {
		return
	}
	for {
		select {
		case ev, ok := <-m.conn.Events():
			if !ok {
				m.eventsClosed = true
				return
			}
			m.queue = append(m.queue, ev)
		default:
			return
		}
	}
}

// checkMaskEvent removes and returns the first queued event matching the
// mask, mirroring the display-side masked-event check.
func (m *MainLoop) checkMaskEvent(mask uint32) (x11.Event, bool) {
	for i, ev := range m.queue {
		if matchesMask(ev.Ev, mask) {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			return ev, true
		}
	}
	return x11.Event{}, false
}

// matchesMask covers the masks the loop filters on: pointer crossings,
// focus changes and button motion.
func matchesMask(ev xgb.Event, mask uint32) bool {
	switch ev.(type) {
	case xproto.EnterNotifyEvent:
		return mask&xproto.EventMaskEnterWindow != 0
	case xproto.FocusInEvent, xproto.FocusOutEvent:
		return mask&xproto.EventMaskFocusChange != 0
	case xproto.MotionNotifyEvent:
		return mask&(xproto.EventMaskButtonMotion|xproto.EventMaskPointerMotion) != 0
	default:
		return false
	}
}

// DropEnterNotifyEvents flushes queued pointer-crossing events. Inside an
// EnterNotify handler it is a no-op: the handler cannot have produced
// artificial crossings, and on quick movements the already-queued enter
// events are legitimate and must survive.
func (m *MainLoop) DropEnterNotifyEvents() {
	if m.duringEnterNotify {
		return
	}
	m.syncQueue()
	for {
		if _, ok := m.checkMaskEvent(xproto.EventMaskEnterWindow); !ok {
			return
		}
	}
}

// draggedClientChanges reacts to the drag state: a new dragged client
// gets a pointer grab with the matching cursor, a cleared one releases
// the grab and flushes the crossings the ungrab produced.
func (m *MainLoop) draggedClientChanges(dragged *wm.Client) {
	if dragged != nil {
		shape, ok := m.root.Mouse.ResizeAction().CursorShape()
		if !ok {
			shape = xcursor.Fleur
		}
		cursor := m.conn.CreateFontCursor(shape)
		m.conn.GrabPointer(dragged.Window,
			xproto.EventMaskPointerMotion|xproto.EventMaskButtonRelease, cursor)
		return
	}
	m.conn.UngrabPointer()
	m.syncQueue()
	for {
		if _, ok := m.checkMaskEvent(xproto.EventMaskEnterWindow); !ok {
			break
		}
	}
}

// eventCode maps a decoded event to its protocol code; -1 drops events
// the table cannot index.
func eventCode(ev xgb.Event) int {
	switch ev.(type) {
	case xproto.KeyPressEvent:
		return xproto.KeyPress
	case xproto.KeyReleaseEvent:
		return xproto.KeyRelease
	case xproto.ButtonPressEvent:
		return xproto.ButtonPress
	case xproto.ButtonReleaseEvent:
		return xproto.ButtonRelease
	case xproto.MotionNotifyEvent:
		return xproto.MotionNotify
	case xproto.EnterNotifyEvent:
		return xproto.EnterNotify
	case xproto.LeaveNotifyEvent:
		return xproto.LeaveNotify
	case xproto.FocusInEvent:
		return xproto.FocusIn
	case xproto.FocusOutEvent:
		return xproto.FocusOut
	case xproto.ExposeEvent:
		return xproto.Expose
	case xproto.CreateNotifyEvent:
		return xproto.CreateNotify
	case xproto.DestroyNotifyEvent:
		return xproto.DestroyNotify
	case xproto.UnmapNotifyEvent:
		return xproto.UnmapNotify
	case xproto.MapNotifyEvent:
		return xproto.MapNotify
	case xproto.MapRequestEvent:
		return xproto.MapRequest
	case xproto.ConfigureNotifyEvent:
		return xproto.ConfigureNotify
	case xproto.ConfigureRequestEvent:
		return xproto.ConfigureRequest
	case xproto.PropertyNotifyEvent:
		return xproto.PropertyNotify
	case xproto.SelectionClearEvent:
		return xproto.SelectionClear
	case xproto.ClientMessageEvent:
		return xproto.ClientMessage
	case xproto.MappingNotifyEvent:
		return xproto.MappingNotify
	default:
		slog.Debug("Unknown event type", "package", "xwm", "event", ev)
		return -1
	}
}
