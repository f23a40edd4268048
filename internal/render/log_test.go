package render_test

import (
	"strings"
	"testing"

	"github.com/oakline/concierge/internal/model/conversation"
	"github.com/oakline/concierge/internal/render"
)

func TestAppendUserContentIsEscaped(t *testing.T) {
	log := render.NewLog()
	entry := log.Append(conversation.RoleUser, "<script>alert(1)</script>")

	if strings.Contains(entry.HTML, "<script") {
		t.Fatalf("user markup interpreted: %q", entry.HTML)
	}
	if !strings.Contains(entry.HTML, "&lt;script&gt;") {
		t.Fatalf("user content not escaped literally: %q", entry.HTML)
	}
}

func TestAppendAssistantContentIsSanitized(t *testing.T) {
	log := render.NewLog()
	entry := log.Append(conversation.RoleAssistant, "<p>Hi <script>alert(1)</script>there</p>")

	if entry.HTML != "<p>Hi there</p>" {
		t.Fatalf("unexpected sanitized output: %q", entry.HTML)
	}
}

func TestAppendEmitsScrollingMessageEvent(t *testing.T) {
	log := render.NewLog()
	ch := log.Subscribe(4)
	defer log.Unsubscribe(ch)

	log.Append(conversation.RoleUser, "hello")

	select {
	case ev := <-ch:
		if ev.Kind != render.KindMessage {
			t.Fatalf("expected message event, got %q", ev.Kind)
		}
		if !ev.Scroll {
			t.Fatal("message event should request a scroll to end")
		}
		if ev.Entry == nil || ev.Entry.HTML != "hello" {
			t.Fatalf("unexpected entry: %+v", ev.Entry)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestSetTypingEvents(t *testing.T) {
	log := render.NewLog()
	ch := log.Subscribe(4)
	defer log.Unsubscribe(ch)

	log.SetTyping(true)
	ev := <-ch
	if ev.Kind != render.KindTyping || !ev.Typing || !ev.Scroll {
		t.Fatalf("unexpected show-typing event: %+v", ev)
	}

	log.SetTyping(false)
	ev = <-ch
	if ev.Typing || ev.Scroll {
		t.Fatalf("hide-typing should not scroll: %+v", ev)
	}
}

func TestSnapshotCopiesEntries(t *testing.T) {
	log := render.NewLog()
	log.Append(conversation.RoleUser, "one")
	log.SetTyping(true)

	entries, typing := log.Snapshot()
	if len(entries) != 1 || !typing {
		t.Fatalf("unexpected snapshot: %d entries, typing=%v", len(entries), typing)
	}
	entries[0].HTML = "mutated"

	fresh, _ := log.Snapshot()
	if fresh[0].HTML != "one" {
		t.Fatalf("snapshot aliases log storage: %q", fresh[0].HTML)
	}
}

func TestSlowSubscriberDoesNotBlockLog(t *testing.T) {
	log := render.NewLog()
	ch := log.Subscribe(1)
	defer log.Unsubscribe(ch)

	// Second append would block on an unbuffered-style full channel; the log
	// must drop instead.
	log.Append(conversation.RoleUser, "one")
	log.Append(conversation.RoleUser, "two")

	entries, _ := log.Snapshot()
	if len(entries) != 2 {
		t.Fatalf("log lost entries: %d", len(entries))
	}
}
