package wm

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ItsNotGoodName/x-tilewm/internal/bus"
	"github.com/ItsNotGoodName/x-tilewm/internal/command"
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
	"github.com/jezek/xgb/xproto"
)

// ClientChanges is the rule output applied while managing a client.
type ClientChanges struct {
	TagName    string
	Floating   *bool
	Pseudotile *bool
}

type ClientManager struct {
	conn        Conn
	rules       []config.Rule
	tags        *TagManager
	decorations *Decorations
	monitors    *MonitorManager

	clients map[xproto.Window]*Client
	focus   *Client
	dragged *Client
}

func NewClientManager(conn Conn, rules []config.Rule, tags *TagManager, decorations *Decorations) *ClientManager {
	return &ClientManager{
		conn:        conn,
		rules:       rules,
		tags:        tags,
		decorations: decorations,
		clients:     make(map[xproto.Window]*Client),
	}
}

// SetMonitors breaks the construction cycle between the client and
// monitor managers.
func (cm *ClientManager) SetMonitors(monitors *MonitorManager) {
	cm.monitors = monitors
}

func (cm *ClientManager) Client(win xproto.Window) *Client {
	return cm.clients[win]
}

func (cm *ClientManager) All() []*Client {
	out := make([]*Client, 0, len(cm.clients))
	for _, c := range cm.clients {
		out = append(out, c)
	}
	return out
}

// ManageClient takes over a window. Managing an already-managed window is
// a no-op returning the existing client. With brief set, the client is
// managed just long enough for rules to run and is unmanaged again before
// returning; the return value is nil in that case.
func (cm *ClientManager) ManageClient(win xproto.Window, visible, brief bool, override func(*ClientChanges)) *Client {
	if c := cm.clients[win]; c != nil {
		return c
	}
	if cm.decorations.ToClient(win) != nil {
		return nil
	}

	c := NewClient(cm.conn, win)
	c.visible = visible
	c.UpdateTitle()
	c.UpdateSizeHints()
	c.UpdateWmHints()

	changes := cm.ruleChanges(c)
	if override != nil {
		override(&changes)
	}
	tag := cm.tags.ByName(changes.TagName)
	if tag == nil {
		tag = cm.currentTag()
	}
	c.Tag = tag
	if changes.Floating != nil {
		c.Floating = *changes.Floating
	}
	if changes.Pseudotile != nil {
		c.Pseudotile = *changes.Pseudotile
	}

	cm.clients[win] = c
	tag.addClient(c)

	if brief {
		slog.Debug("Briefly managed window to apply rules", "package", "wm", "window", win)
		cm.ForceUnmanage(c)
		return nil
	}

	cm.conn.SelectInput(win,
		xproto.EventMaskEnterWindow|xproto.EventMaskFocusChange|
			xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	cm.decorations.Create(c)

	bus.Publish(ClientListChanged{})
	if cm.monitors != nil {
		if mon := cm.monitors.ByTag(tag); mon != nil {
			mon.ApplyLayout()
		}
	}
	slog.Debug("Managed client", "package", "wm", "client", c.String(), "tag", tag.Name)
	return c
}

// ForceUnmanage drops a client from the model unconditionally.
func (cm *ClientManager) ForceUnmanage(c *Client) {
	if cm.clients[c.Window] != c {
		return
	}
	if cm.dragged == c {
		cm.SetDragged(nil)
	}
	if c.Tag != nil {
		c.Tag.removeClient(c)
	}
	cm.decorations.Destroy(c)
	delete(cm.clients, c.Window)
	if cm.focus == c {
		cm.focus = nil
		bus.Publish(FocusChanged{Client: nil})
	}
	bus.Publish(ClientListChanged{})
	if cm.monitors != nil && c.Tag != nil {
		if mon := cm.monitors.ByTag(c.Tag); mon != nil {
			mon.ApplyLayout()
		}
	}
	slog.Debug("Unmanaged client", "package", "wm", "client", c.String())
}

// UnmapNotify feeds the unmap state machine: unmaps the manager itself
// produced are absorbed, everything else unmanages the client.
func (cm *ClientManager) UnmapNotify(win xproto.Window) {
	c := cm.clients[win]
	if c == nil {
		return
	}
	if c.ignoreUnmaps > 0 {
		c.ignoreUnmaps--
		return
	}
	cm.ForceUnmanage(c)
}

// ApplyRules re-evaluates the rule set against a client, moving it
// between tags and toggling float state as needed.
func (cm *ClientManager) ApplyRules(c *Client, channels command.OutputChannels) {
	changes := cm.ruleChanges(c)
	if changes.Floating != nil {
		c.Floating = *changes.Floating
	}
	if changes.Pseudotile != nil {
		c.Pseudotile = *changes.Pseudotile
	}
	if changes.TagName != "" && (c.Tag == nil || c.Tag.Name != changes.TagName) {
		tag := cm.tags.ByName(changes.TagName)
		if tag == nil {
			fmt.Fprintf(channels.Err, "rule names unknown tag %q\n", changes.TagName)
		} else {
			cm.MoveClientToTag(c, tag)
		}
	}
	if cm.monitors != nil && c.Tag != nil {
		if mon := cm.monitors.ByTag(c.Tag); mon != nil {
			mon.ApplyLayout()
		}
	}
}

func (cm *ClientManager) MoveClientToTag(c *Client, tag *Tag) {
	if c.Tag == tag {
		return
	}
	old := c.Tag
	if old != nil {
		old.removeClient(c)
	}
	c.Tag = tag
	tag.addClient(c)
	if cm.monitors != nil {
		if mon := cm.monitors.ByTag(old); mon != nil {
			mon.ApplyLayout()
		}
		if mon := cm.monitors.ByTag(tag); mon != nil {
			mon.ApplyLayout()
		} else {
			c.Hide()
		}
	}
	bus.Publish(ClientListChanged{})
}

func (cm *ClientManager) ruleChanges(c *Client) ClientChanges {
	instance, class := cm.conn.GetClassHint(c.Window)
	var changes ClientChanges
	for _, rule := range cm.rules {
		if rule.Instance != "" && rule.Instance != instance {
			continue
		}
		if rule.Class != "" && rule.Class != class {
			continue
		}
		if rule.Title != "" && !strings.Contains(c.Title, rule.Title) {
			continue
		}
		if rule.Tag != "" {
			changes.TagName = rule.Tag
		}
		if rule.Floating != nil {
			changes.Floating = rule.Floating
		}
		if rule.Pseudotile != nil {
			changes.Pseudotile = rule.Pseudotile
		}
	}
	return changes
}

func (cm *ClientManager) currentTag() *Tag {
	if cm.monitors != nil {
		if mon := cm.monitors.Focus(); mon != nil && mon.Tag != nil {
			return mon.Tag
		}
	}
	return cm.tags.ByIndex(0)
}

func (cm *ClientManager) Focus() *Client { return cm.focus }

// FocusClient gives a client the input focus, making its tag visible
// first when switchMonitor allows it.
func (cm *ClientManager) FocusClient(c *Client, switchTag, switchMonitor, raise bool) {
	if c == nil {
		return
	}
	var mon *Monitor
	if cm.monitors != nil {
		mon = cm.monitors.ByTag(c.Tag)
		if mon == nil && switchMonitor {
			mon = cm.monitors.Focus()
			if mon != nil {
				cm.monitors.ShowTag(mon, c.Tag)
			}
		}
		if mon != nil {
			cm.monitors.SetFocus(mon)
		}
	}
	if c.Tag != nil {
		if leaf := c.Tag.FrameWithClient(c); leaf != nil {
			leaf.Select(c)
			c.Tag.SetFocusedFrame(leaf)
		}
	}
	cm.focus = c
	cm.conn.SetInputFocus(c.Window)
	if raise {
		c.Raise()
	}
	if mon != nil {
		mon.ApplyLayout()
	}
	bus.Publish(FocusChanged{Client: c})
}

// SetFullscreen toggles a client's fullscreen state and relayouts its
// monitor. The client's floating and tiled geometry is untouched, so
// dropping the state restores it.
func (cm *ClientManager) SetFullscreen(c *Client, fullscreen bool) {
	if c == nil || c.Fullscreen == fullscreen {
		return
	}
	c.Fullscreen = fullscreen
	if cm.monitors != nil {
		if mon := cm.monitors.ByTag(c.Tag); mon != nil {
			mon.ApplyLayout()
		}
	}
}

func (cm *ClientManager) Dragged() *Client { return cm.dragged }

// SetDragged tracks the client currently being drag-moved or resized and
// announces changes on the bus.
func (cm *ClientManager) SetDragged(c *Client) {
	if cm.dragged == c {
		return
	}
	cm.dragged = c
	bus.Publish(DraggedClientChanged{Client: c})
}
