package wm

// Signals published on the bus. They are emitted on the dispatcher thread
// and delivered synchronously.

// DraggedClientChanged fires when a mouse drag starts (Client set) or
// stops (Client nil).
type DraggedClientChanged struct {
	Client *Client
}

// DropEnterNotifyEvents asks the event loop to flush spurious pointer
// crossing events caused by a grab, ungrab or window change.
type DropEnterNotifyEvents struct{}

// ClientListChanged fires whenever a client is managed or unmanaged.
type ClientListChanged struct{}

// FocusChanged fires when the focused client changes; Client may be nil.
type FocusChanged struct {
	Client *Client
}
