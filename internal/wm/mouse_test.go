package wm

import (
	"context"
	"testing"

	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/jezek/xgb/xproto"
)

func newMouseFixture(t *testing.T) (*fakeConn, *ClientManager, *MouseManager, *Client) {
	t.Helper()
	bus.Reset()
	conn := newFakeConn()
	tags := NewTagManager([]config.Tag{{Name: "1"}})
	decorations := NewDecorations(conn)
	clients := NewClientManager(conn, nil, tags, decorations)
	mouse := NewMouseManager(conn, clients, NewMonitorManager(conn, tags, NewDesktopWindows(conn)), decorations, []config.Mousebind{
		{Mods: []string{"Mod4"}, Button: 1, Action: "move"},
	})

	c := clients.ManageClient(10, true, false, nil)
	if c == nil {
		t.Fatal("manage failed")
	}
	c.Floating = true
	c.FloatSize = xproto.Rectangle{X: 10, Y: 20, Width: 100, Height: 80}
	return conn, clients, mouse, c
}

func TestMouseDragMove(t *testing.T) {
	conn, clients, mouse, c := newMouseFixture(t)

	var draggedEvents []*Client
	bus.Subscribe("test", func(_ context.Context, ev DraggedClientChanged) error {
		draggedEvents = append(draggedEvents, ev.Client)
		return nil
	})

	conn.pointerX, conn.pointerY = 50, 50
	mouse.InitiateMove(c)
	if !mouse.IsDragging() {
		t.Fatal("expected a drag in progress")
	}
	if clients.Dragged() != c {
		t.Fatal("expected the dragged client to be tracked")
	}

	mouse.HandleMotionEvent(Point{X: 60, Y: 45})
	if c.FloatSize.X != 20 || c.FloatSize.Y != 15 {
		t.Fatalf("FloatSize = %+v, want X=20 Y=15", c.FloatSize)
	}

	mouse.StopDrag()
	if mouse.IsDragging() {
		t.Fatal("expected the drag to end")
	}
	if len(draggedEvents) != 2 || draggedEvents[0] != c || draggedEvents[1] != nil {
		t.Fatalf("dragged signal sequence = %v", draggedEvents)
	}
}

func TestMouseDragResizeEdges(t *testing.T) {
	conn, _, mouse, c := newMouseFixture(t)

	conn.pointerX, conn.pointerY = 0, 0
	mouse.InitiateResize(c, ResizeAction{Left: true, Top: true})
	if got := mouse.ResizeAction(); !got.Left || !got.Top || got.Right || got.Bottom {
		t.Fatalf("ResizeAction() = %+v", got)
	}

	mouse.HandleMotionEvent(Point{X: 10, Y: 5})
	if c.FloatSize.X != 20 || c.FloatSize.Width != 90 {
		t.Fatalf("left resize: FloatSize = %+v", c.FloatSize)
	}
	if c.FloatSize.Y != 25 || c.FloatSize.Height != 75 {
		t.Fatalf("top resize: FloatSize = %+v", c.FloatSize)
	}
}

func TestMouseHandleEventBindings(t *testing.T) {
	_, _, mouse, c := newMouseFixture(t)

	if mouse.HandleEvent(0, 1, c.Window) {
		t.Fatal("unmodified press must not match the Mod4 binding")
	}
	if !mouse.HandleEvent(xproto.ModMask4, 1, c.Window) {
		t.Fatal("Mod4+Button1 on a client must be consumed")
	}
	if mouse.HandleEvent(xproto.ModMask4, 1, 0xdead) {
		t.Fatal("press on an unknown window must not be consumed")
	}
}

func TestMouseIgnoresTiledClients(t *testing.T) {
	_, _, mouse, c := newMouseFixture(t)
	c.Floating = false

	mouse.InitiateMove(c)
	if mouse.IsDragging() {
		t.Fatal("tiled clients must not be drag-movable")
	}
}
