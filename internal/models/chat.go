package models

// ChatRole labels one side of the assistant conversation.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatTurn is one message in the assistant conversation.
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatHistoryWindow is how many prior turns accompany a chat message.
const ChatHistoryWindow = 6

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history"`
}

// ChatResponse is the POST /chat reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// TrimHistory returns the last ChatHistoryWindow turns of history.
func TrimHistory(history []ChatTurn) []ChatTurn {
	if len(history) <= ChatHistoryWindow {
		return history
	}
	return history[len(history)-ChatHistoryWindow:]
}
