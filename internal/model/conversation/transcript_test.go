package conversation_test

import (
	"testing"

	"github.com/oakline/concierge/internal/model/conversation"
)

func TestTranscriptAppendPreservesOrder(t *testing.T) {
	tr := conversation.NewTranscript()
	tr.Append(conversation.Turn{Role: conversation.RoleUser, Content: "first"})
	tr.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: "second"})
	tr.Append(conversation.Turn{Role: conversation.RoleUser, Content: "third"})

	payload := tr.ContextPayload()
	if len(payload) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(payload))
	}
	if payload[0].Content != "first" || payload[1].Content != "second" || payload[2].Content != "third" {
		t.Fatalf("unexpected order: %+v", payload)
	}
	if payload[0].Role != conversation.RoleUser || payload[1].Role != conversation.RoleAssistant {
		t.Fatalf("unexpected roles: %+v", payload)
	}
}

func TestTranscriptContextPayloadIsACopy(t *testing.T) {
	tr := conversation.NewTranscript()
	tr.Append(conversation.Turn{Role: conversation.RoleUser, Content: "original"})

	payload := tr.ContextPayload()
	payload[0].Content = "mutated"

	if got := tr.ContextPayload()[0].Content; got != "original" {
		t.Fatalf("transcript mutated through payload copy: %q", got)
	}
}

func TestTranscriptLen(t *testing.T) {
	tr := conversation.NewTranscript()
	if tr.Len() != 0 {
		t.Fatalf("new transcript should be empty, got %d", tr.Len())
	}
	tr.Append(conversation.Turn{Role: conversation.RoleUser, Content: "hello"})
	if tr.Len() != 1 {
		t.Fatalf("expected 1 turn, got %d", tr.Len())
	}
}
