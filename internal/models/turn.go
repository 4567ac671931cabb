package models

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message unit in a conversation: a role and its text content.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
