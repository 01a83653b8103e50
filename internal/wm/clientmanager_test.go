package wm

import (
	"context"
	"testing"

	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func newClientFixture(t *testing.T, rules []config.Rule) (*fakeConn, *ClientManager, *TagManager) {
	t.Helper()
	bus.Reset()
	conn := newFakeConn()
	tags := NewTagManager([]config.Tag{{Name: "1"}, {Name: "2"}, {Name: "3"}})
	clients := NewClientManager(conn, rules, tags, NewDecorations(conn))
	return conn, clients, tags
}

func TestManageClientIsIdempotent(t *testing.T) {
	_, clients, _ := newClientFixture(t, nil)

	first := clients.ManageClient(10, true, false, nil)
	second := clients.ManageClient(10, true, false, nil)
	if first == nil || first != second {
		t.Fatalf("managing twice must return the same client, got %v and %v", first, second)
	}
}

func TestManageClientAppliesRulesAndOverride(t *testing.T) {
	conn, clients, tags := newClientFixture(t, []config.Rule{
		{Class: "URxvt", Tag: "2", Floating: boolPtr(true)},
	})
	conn.classHints[10] = [2]string{"urxvt", "URxvt"}

	c := clients.ManageClient(10, true, false, nil)
	if c.Tag != tags.ByName("2") || !c.Floating {
		t.Fatalf("rule not applied: tag=%v floating=%v", c.Tag, c.Floating)
	}

	// a scanner override wins over the rule's tag
	conn.classHints[11] = [2]string{"urxvt", "URxvt"}
	c2 := clients.ManageClient(11, true, false, func(changes *ClientChanges) {
		changes.TagName = "3"
	})
	if c2.Tag != tags.ByName("3") {
		t.Fatalf("override not applied: tag=%v", c2.Tag)
	}
}

func TestBriefManageLeavesNothingBehind(t *testing.T) {
	_, clients, _ := newClientFixture(t, nil)

	if c := clients.ManageClient(10, true, true, nil); c != nil {
		t.Fatalf("brief manage must return nil, got %v", c)
	}
	if clients.Client(10) != nil {
		t.Fatal("brief manage must not leave the client managed")
	}
}

func TestUnmapNotifyStateMachine(t *testing.T) {
	_, clients, _ := newClientFixture(t, nil)
	c := clients.ManageClient(10, true, false, nil)

	c.ignoreUnmaps = 1
	clients.UnmapNotify(10)
	if clients.Client(10) == nil {
		t.Fatal("an absorbed unmap must not unmanage")
	}
	clients.UnmapNotify(10)
	if clients.Client(10) != nil {
		t.Fatal("a real unmap must unmanage")
	}
	// unknown windows are ignored
	clients.UnmapNotify(10)
}

func TestFocusClientTracksFocusAndRaises(t *testing.T) {
	conn, clients, _ := newClientFixture(t, nil)
	c := clients.ManageClient(10, true, false, nil)

	var focusEvents []*Client
	bus.Subscribe("test", func(_ context.Context, ev FocusChanged) error {
		focusEvents = append(focusEvents, ev.Client)
		return nil
	})

	conn.reset()
	clients.FocusClient(c, false, true, true)

	if clients.Focus() != c {
		t.Fatal("expected the client to be focused")
	}
	if !conn.has("setinputfocus 0xa") {
		t.Fatalf("expected the input focus to be asserted, calls: %v", conn.calls)
	}
	if !conn.has("raise 0xa") {
		t.Fatalf("expected the client to be raised, calls: %v", conn.calls)
	}
	if len(focusEvents) != 1 || focusEvents[0] != c {
		t.Fatalf("focus signal = %v", focusEvents)
	}

	clients.FocusClient(nil, false, true, true)
	if clients.Focus() != c {
		t.Fatal("focusing nil must not change anything")
	}
}

func TestForceUnmanageClearsFocus(t *testing.T) {
	_, clients, _ := newClientFixture(t, nil)
	c := clients.ManageClient(10, true, false, nil)
	clients.FocusClient(c, false, true, false)

	clients.ForceUnmanage(c)

	if clients.Focus() != nil {
		t.Fatal("unmanaging the focused client must clear the focus")
	}
	if clients.Client(10) != nil {
		t.Fatal("client must be gone")
	}
	if c.Tag.FrameWithClient(c) != nil {
		t.Fatal("client must leave its frame")
	}
}

func TestApplyRulesMovesTag(t *testing.T) {
	conn, clients, tags := newClientFixture(t, []config.Rule{
		{Instance: "term", Tag: "2"},
	})
	c := clients.ManageClient(10, true, false, nil)
	if c.Tag != tags.ByIndex(0) {
		t.Fatalf("expected the default tag first, got %v", c.Tag)
	}

	// the client illegally changes WM_CLASS afterwards
	conn.classHints[10] = [2]string{"term", "Term"}
	clients.ApplyRules(c, command.Stdio())

	if c.Tag != tags.ByName("2") {
		t.Fatalf("expected the rule to move the client, got %v", c.Tag)
	}
	if tags.ByIndex(0).FrameWithClient(c) != nil {
		t.Fatal("client must leave the old tag's frames")
	}
	if tags.ByName("2").FrameWithClient(c) == nil {
		t.Fatal("client must join the new tag's frames")
	}
}
