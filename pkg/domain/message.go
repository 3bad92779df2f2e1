package domain

// Role identifies the author of a Message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleHuman, RoleAssistant:
		return true
	}
	return false
}

// Message is a single chat message. It is a value type and is never mutated once created.
type Message struct {
	Role    Role   `json:"role" yaml:"role"`
	Content string `json:"content" yaml:"content"`
}

// SystemMessage wraps text as a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// HumanMessage wraps text as a human message.
func HumanMessage(content string) Message {
	return Message{Role: RoleHuman, Content: content}
}

// AssistantMessage wraps text as an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
