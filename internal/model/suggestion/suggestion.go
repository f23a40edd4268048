package suggestion

// Suggestion is one canned question offered in the widget before the first
// exchange. Submitting one goes through the normal message path.
type Suggestion struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Question string `json:"question"`
}

// Seed provides the default suggested questions shown to new sessions.
func Seed() []Suggestion {
	return []Suggestion{
		{
			ID:       "practice-areas",
			Label:    "Practice areas",
			Question: "What areas of law do you practise?",
		},
		{
			ID:       "book-consultation",
			Label:    "Book a consultation",
			Question: "How do I book a consultation?",
		},
		{
			ID:       "fees",
			Label:    "Fees",
			Question: "How are fees structured?",
		},
		{
			ID:       "first-meeting",
			Label:    "First meeting",
			Question: "What should I bring to a first meeting?",
		},
	}
}
