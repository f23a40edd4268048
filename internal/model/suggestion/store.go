package suggestion

// Store exposes suggestion retrieval for HTTP handlers. Submitting a
// suggestion goes through the normal message path, so listing is all the
// widget needs.
type Store interface {
	List() []Suggestion
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Suggestion
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied
// suggestions.
func NewMemoryStore(items []Suggestion) *MemoryStore {
	return &MemoryStore{items: append([]Suggestion(nil), items...)}
}

// List returns the configured suggestions.
func (s *MemoryStore) List() []Suggestion {
	return append([]Suggestion(nil), s.items...)
}
