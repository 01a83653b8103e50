package wm

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestApplySizeHints(t *testing.T) {
	c := NewClient(newFakeConn(), 10)
	c.hints = sizeHints{
		flags: hintMinSize | hintMaxSize | hintResizeInc | hintBaseSize,
		minW:  100, minH: 50,
		maxW: 500, maxH: 400,
		incW: 7, incH: 13,
		baseW: 2, baseH: 4,
	}

	tests := []struct {
		name         string
		w, h         uint16
		wantW, wantH uint16
	}{
		{"clamped to min", 10, 10, 100, 50},
		{"clamped to max", 900, 900, 500, 400},
		{"snapped to increment", 300, 300, 296, 290},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.w, tt.h
			c.ApplySizeHints(&w, &h)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("ApplySizeHints(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestClientHideAbsorbsUnmap(t *testing.T) {
	conn := newFakeConn()
	c := NewClient(conn, 10)
	c.visible = true

	c.Hide()

	if c.ignoreUnmaps != 1 {
		t.Fatalf("ignoreUnmaps = %d, want 1", c.ignoreUnmaps)
	}
	if !conn.has("unmap 0xa") {
		t.Fatalf("expected an unmap request, calls: %v", conn.calls)
	}
	// hiding twice must not double-count
	c.Hide()
	if c.ignoreUnmaps != 1 {
		t.Fatalf("ignoreUnmaps = %d after second hide, want 1", c.ignoreUnmaps)
	}
}

func TestClientSendConfigure(t *testing.T) {
	conn := newFakeConn()
	c := NewClient(conn, 10)
	c.LastSize = xproto.Rectangle{X: 3, Y: 4, Width: 5, Height: 6}

	c.SendConfigure()

	if len(conn.calls) != 1 || conn.calls[0] != "sendevent 0xa len=32" {
		t.Fatalf("expected one 32-byte synthetic ConfigureNotify, calls: %v", conn.calls)
	}
}

func TestClientPseudotileKeepsFloatSize(t *testing.T) {
	conn := newFakeConn()
	c := NewClient(conn, 10)
	c.Pseudotile = true
	c.FloatSize = xproto.Rectangle{Width: 100, Height: 100}

	c.Tile(xproto.Rectangle{X: 0, Y: 0, Width: 400, Height: 300})

	if c.LastSize.Width != 100 || c.LastSize.Height != 100 {
		t.Fatalf("pseudotiled client must keep its floating size, got %+v", c.LastSize)
	}
	if c.LastSize.X != 150 || c.LastSize.Y != 100 {
		t.Fatalf("pseudotiled client must be centered, got %+v", c.LastSize)
	}
}

func TestResizeActionCursorShape(t *testing.T) {
	tests := []struct {
		ra     ResizeAction
		wantOK bool
	}{
		{ResizeAction{}, false},
		{ResizeAction{Left: true}, true},
		{ResizeAction{Top: true, Left: true}, true},
		{ResizeAction{Bottom: true, Right: true}, true},
	}
	for _, tt := range tests {
		if _, ok := tt.ra.CursorShape(); ok != tt.wantOK {
			t.Fatalf("CursorShape(%+v) ok = %v, want %v", tt.ra, ok, tt.wantOK)
		}
	}
}
