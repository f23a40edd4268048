// Package render maintains the server-side view of a widget's message pane:
// an ordered list of rendered bubbles plus a typing indicator, with change
// events fanned out to any connected transports.
package render

import (
	"html"
	"sync"

	"github.com/oakline/concierge/internal/model/conversation"
	"github.com/oakline/concierge/internal/sanitize"
)

// Kind discriminates log events on the wire.
type Kind string

const (
	KindMessage Kind = "message"
	KindTyping  Kind = "typing"
)

// Entry is one rendered bubble. HTML is safe to inject into the widget pane:
// user content arrives escaped, assistant content arrives sanitized.
type Entry struct {
	Role conversation.Role `json:"role"`
	HTML string            `json:"html"`
}

// Event describes one change to the log view. Scroll tells the client to move
// the pane to the end (smoothly where supported, a jump otherwise).
type Event struct {
	Kind   Kind   `json:"event"`
	Entry  *Entry `json:"entry,omitempty"`
	Typing bool   `json:"typing"`
	Scroll bool   `json:"scroll"`
}

// Log is the per-session message pane. All mutation goes through Append and
// SetTyping; subscribers observe changes over buffered channels.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	typing  bool
	subs    map[chan Event]struct{}
}

// NewLog returns an empty log with no typing indicator shown.
func NewLog() *Log {
	return &Log{
		entries: make([]Entry, 0, 16),
		subs:    make(map[chan Event]struct{}),
	}
}

// Append renders one turn into the pane. User content is inserted as literal
// text with no markup interpretation; assistant content is passed through the
// sanitizer. Either way the insertion scrolls the pane to the end.
func (l *Log) Append(role conversation.Role, content string) Entry {
	var rendered string
	if role == conversation.RoleAssistant {
		rendered = sanitize.Clean(content)
	} else {
		rendered = html.EscapeString(content)
	}

	entry := Entry{Role: role, HTML: rendered}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.broadcast(Event{Kind: KindMessage, Entry: &entry, Typing: l.typing, Scroll: true})
	l.mu.Unlock()

	return entry
}

// SetTyping shows or hides the typing affordance. Showing it also scrolls the
// pane to the end, matching the message path.
func (l *Log) SetTyping(visible bool) {
	l.mu.Lock()
	l.typing = visible
	l.broadcast(Event{Kind: KindTyping, Typing: visible, Scroll: visible})
	l.mu.Unlock()
}

// Snapshot returns the rendered entries and the current typing state, for
// transports that attach after the conversation started.
func (l *Log) Snapshot() ([]Entry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	copied := make([]Entry, len(l.entries))
	copy(copied, l.entries)
	return copied, l.typing
}

// Subscribe registers a buffered event channel. The caller owns the channel
// lifetime and must Unsubscribe when done.
func (l *Log) Subscribe(buffer int) chan Event {
	ch := make(chan Event, buffer)
	l.mu.Lock()
	l.subs[ch] = struct{}{}
	l.mu.Unlock()
	return ch
}

// Unsubscribe detaches a channel registered with Subscribe.
func (l *Log) Unsubscribe(ch chan Event) {
	l.mu.Lock()
	delete(l.subs, ch)
	l.mu.Unlock()
}

// broadcast delivers an event to every subscriber without blocking; a
// subscriber that cannot keep up misses events rather than stalling the log.
// Callers hold l.mu.
func (l *Log) broadcast(ev Event) {
	for ch := range l.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
