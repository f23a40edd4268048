package conversation

// Transcript is the ordered, append-only record of a session's turns. It is
// replayed to the assistant as context on every request, so insertion order
// is load-bearing: turns are never removed or reordered.
//
// Transcript is not safe for concurrent use; the owning controller serializes
// access.
type Transcript struct {
	turns []Turn
}

// NewTranscript returns an empty transcript. Every session starts with empty
// context; nothing is persisted across sessions.
func NewTranscript() *Transcript {
	return &Transcript{turns: make([]Turn, 0, 16)}
}

// Append records a turn at the end of the transcript.
func (t *Transcript) Append(turn Turn) {
	t.turns = append(t.turns, turn)
}

// ContextPayload returns a copy of the full history in insertion order,
// suitable for transmission to the assistant.
func (t *Transcript) ContextPayload() []Turn {
	copied := make([]Turn, len(t.turns))
	copy(copied, t.turns)
	return copied
}

// Len reports the number of recorded turns.
func (t *Transcript) Len() int {
	return len(t.turns)
}
