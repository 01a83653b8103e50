package wm

import (
	"log/slog"
)

// Watchers observe derived model state for external consumers (the
// `watch` command). The event loop scans after every handler so watched
// values are at most one handler out of date.
type Watchers struct {
	watches []*watch
}

type watch struct {
	name string
	read func() string
	last string
}

func NewWatchers() *Watchers {
	return &Watchers{}
}

// AddWatch registers a named value provider. The current value is
// captured immediately so the first scan only reports real changes.
func (w *Watchers) AddWatch(name string, read func() string) {
	w.watches = append(w.watches, &watch{name: name, read: read, last: read()})
}

func (w *Watchers) RemoveWatch(name string) bool {
	for i, entry := range w.watches {
		if entry.name == name {
			w.watches = append(w.watches[:i], w.watches[i+1:]...)
			return true
		}
	}
	return false
}

// ScanForChanges re-reads every watched value and reports changes.
func (w *Watchers) ScanForChanges() {
	for _, entry := range w.watches {
		value := entry.read()
		if value == entry.last {
			continue
		}
		slog.Info("Watched value changed", "package", "wm", "name", entry.name, "old", entry.last, "new", value)
		entry.last = value
	}
}
