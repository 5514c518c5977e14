package entities

// ChatRole identifies who produced a chat message
type ChatRole string

const (
	// RoleUser marks messages typed by the user
	RoleUser ChatRole = "user"

	// RoleAssistant marks messages produced from collaborator responses
	RoleAssistant ChatRole = "assistant"

	// RolePending marks the single in-flight placeholder awaiting a response
	RolePending ChatRole = "pending"
)

// ChatMessage is one entry in a conversation. The history is append-only
// except for the removal of exactly one pending placeholder when its
// corresponding response arrives.
type ChatMessage struct {
	ID      string   `json:"id"`
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}
