package wm

import (
	"github.com/ItsNotGoodName/x-tilewm/internal/config"
)

// Tag is a named virtual workspace. Every managed client belongs to
// exactly one tag; a tag is visible on at most one monitor.
type Tag struct {
	Name     string
	Floating bool
	Root     Frame
	index    int
	focused  *FrameLeaf
}

func newTag(name string, index int) *Tag {
	t := &Tag{Name: name, index: index}
	leaf := newFrameLeaf(t)
	t.Root = leaf
	t.focused = leaf
	return t
}

func (t *Tag) Index() int { return t.index }

// FocusedFrame is the leaf new clients are inserted into.
func (t *Tag) FocusedFrame() *FrameLeaf {
	if t.focused == nil {
		t.focused = t.Root.FirstLeaf()
	}
	return t.focused
}

func (t *Tag) SetFocusedFrame(f *FrameLeaf) {
	if f != nil && f.tag == t {
		t.focused = f
	}
}

func (t *Tag) FrameWithClient(c *Client) *FrameLeaf {
	return t.Root.FrameWithClient(c)
}

func (t *Tag) Clients() []*Client {
	return t.Root.Clients(nil)
}

func (t *Tag) addClient(c *Client) {
	t.FocusedFrame().addClient(c)
}

func (t *Tag) removeClient(c *Client) {
	if leaf := t.FrameWithClient(c); leaf != nil {
		leaf.removeClient(c)
	}
}

type TagManager struct {
	tags []*Tag
}

func NewTagManager(cfg []config.Tag) *TagManager {
	tm := &TagManager{}
	for _, t := range cfg {
		tm.tags = append(tm.tags, newTag(t.Name, len(tm.tags)))
	}
	if len(tm.tags) == 0 {
		tm.tags = append(tm.tags, newTag("default", 0))
	}
	return tm
}

func (tm *TagManager) All() []*Tag { return tm.tags }

func (tm *TagManager) ByName(name string) *Tag {
	for _, t := range tm.tags {
		if t.Name == name {
			return t
		}
	}
	return nil
}

func (tm *TagManager) ByIndex(idx int) *Tag {
	if idx < 0 || idx >= len(tm.tags) {
		return nil
	}
	return tm.tags[idx]
}
