package models

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single entry of a conversation. A slice of messages is
// ordered chronologically.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest carries every parameter that affects the generated text.
type CompletionRequest struct {
	Messages       []Message `json:"messages"`
	Model          string    `json:"model"`
	Temperature    float64   `json:"temperature"`
	TopProbability float64   `json:"top_p"`
}
