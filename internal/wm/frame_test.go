package wm

import (
	"testing"

	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/jezek/xgb/xproto"
)

func newTestTag(t *testing.T) (*TagManager, *Tag) {
	t.Helper()
	tm := NewTagManager([]config.Tag{{Name: "1"}, {Name: "2"}, {Name: "3"}})
	return tm, tm.ByIndex(0)
}

func newTestClient(conn Conn, win xproto.Window, tag *Tag) *Client {
	c := NewClient(conn, win)
	c.Tag = tag
	tag.addClient(c)
	return c
}

func TestFrameLeafVerticalLayout(t *testing.T) {
	conn := newFakeConn()
	_, tag := newTestTag(t)
	a := newTestClient(conn, 10, tag)
	b := newTestClient(conn, 11, tag)

	tag.Root.ApplyLayout(xproto.Rectangle{X: 0, Y: 0, Width: 800, Height: 600})

	if got := a.LastSize; got.Height != 300 || got.Width != 800 || got.Y != 0 {
		t.Fatalf("client a geometry = %+v", got)
	}
	if got := b.LastSize; got.Height != 300 || got.Y != 300 {
		t.Fatalf("client b geometry = %+v", got)
	}
}

func TestFrameLeafMaxLayoutRaisesSelection(t *testing.T) {
	conn := newFakeConn()
	_, tag := newTestTag(t)
	a := newTestClient(conn, 10, tag)
	b := newTestClient(conn, 11, tag)

	leaf := tag.Root.FirstLeaf()
	leaf.SetLayout(LayoutMax)
	leaf.Select(b)

	conn.reset()
	tag.Root.ApplyLayout(xproto.Rectangle{Width: 640, Height: 480})

	if a.LastSize.Width != 640 || b.LastSize.Width != 640 {
		t.Fatalf("max layout must give every client the full rect, got %+v and %+v", a.LastSize, b.LastSize)
	}
	if !conn.has("raise 0xb") {
		t.Fatalf("max layout must raise the selected client, calls: %v", conn.calls)
	}
}

func TestFrameLeafSkipsFloatingAndMinimized(t *testing.T) {
	conn := newFakeConn()
	_, tag := newTestTag(t)
	a := newTestClient(conn, 10, tag)
	b := newTestClient(conn, 11, tag)
	c := newTestClient(conn, 12, tag)
	b.Floating = true
	b.FloatSize = xproto.Rectangle{X: 5, Y: 5, Width: 50, Height: 40}
	c.Minimized = true
	c.visible = true

	tag.Root.ApplyLayout(xproto.Rectangle{Width: 600, Height: 600})

	if a.LastSize.Height != 600 {
		t.Fatalf("only one tiled client, expected the full height, got %+v", a.LastSize)
	}
	if b.LastSize.Width != 50 {
		t.Fatalf("floating client must keep its floating size, got %+v", b.LastSize)
	}
	if c.Visible() {
		t.Fatal("minimized client must stay hidden")
	}
}

func TestFrameWithClient(t *testing.T) {
	conn := newFakeConn()
	_, tag := newTestTag(t)
	a := newTestClient(conn, 10, tag)

	leaf := tag.FrameWithClient(a)
	if leaf == nil {
		t.Fatal("expected to find the client's leaf")
	}
	other := NewClient(conn, 99)
	if tag.FrameWithClient(other) != nil {
		t.Fatal("expected no leaf for an unknown client")
	}
}

func TestFrameSplitLayout(t *testing.T) {
	conn := newFakeConn()
	_, tag := newTestTag(t)
	a := newTestClient(conn, 10, tag)

	left := tag.Root.FirstLeaf()
	right := newFrameLeaf(tag)
	tag.Root = &FrameSplit{a: left, b: right, percent: 50}
	b := NewClient(conn, 11)
	b.Tag = tag
	right.addClient(b)

	tag.Root.ApplyLayout(xproto.Rectangle{Width: 800, Height: 600})

	if a.LastSize.Width != 400 || a.LastSize.X != 0 {
		t.Fatalf("left client geometry = %+v", a.LastSize)
	}
	if b.LastSize.Width != 400 || b.LastSize.X != 400 {
		t.Fatalf("right client geometry = %+v", b.LastSize)
	}
}
