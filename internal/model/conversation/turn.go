package conversation

// Role identifies the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one message unit in a conversation. For user turns Content carries
// the augmented message (raw text plus the instructional suffix); for
// assistant turns it carries the reply exactly as received, pre-sanitization.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
