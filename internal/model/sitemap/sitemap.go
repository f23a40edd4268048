package sitemap

// Page is one internal destination the assistant may link to. Paths are
// root-relative by construction, which is the only shape the widget's
// sanitizer lets through.
type Page struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Store exposes the linkable pages for prompt assembly.
type Store interface {
	List() []Page
}

// MemoryStore implements Store with an in-memory slice.
type MemoryStore struct {
	items []Page
}

// NewMemoryStore returns a MemoryStore preloaded with the supplied pages.
func NewMemoryStore(items []Page) *MemoryStore {
	return &MemoryStore{items: append([]Page(nil), items...)}
}

// List returns the known pages.
func (s *MemoryStore) List() []Page {
	return append([]Page(nil), s.items...)
}

// Seed provides the static top-level pages that are always available.
func Seed() []Page {
	return []Page{
		{Title: "About", Path: "/about/"},
		{Title: "Contact", Path: "/contact/"},
		{Title: "Book Consultation", Path: "/book/"},
		{Title: "Practice Areas Index", Path: "/practice-areas/"},
		{Title: "Blog Index", Path: "/blog/"},
		{Title: "Case Studies Index", Path: "/cases/"},
		{Title: "Privacy Policy", Path: "/privacy/"},
		{Title: "Terms of Use", Path: "/terms/"},
	}
}
