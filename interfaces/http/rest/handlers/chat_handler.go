package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"pathfinder-backend/application/chat"
	"pathfinder-backend/domain/core/entities"
	"pathfinder-backend/pkg/api"
)

// ChatHandler serves the conversation endpoints
type ChatHandler struct {
	session *chat.Session
	logger  *zap.Logger
}

// NewChatHandler creates a chat handler
func NewChatHandler(session *chat.Session, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{session: session, logger: logger}
}

// SendMessageRequest is the expected body for POST /chat/messages
type SendMessageRequest struct {
	Text string `json:"text"`
}

// MessageResponse is one conversation entry with its parsed content
type MessageResponse struct {
	ID      string            `json:"id"`
	Role    entities.ChatRole `json:"role"`
	Content string            `json:"content"`
	Blocks  []chat.Block      `json:"blocks,omitempty"`
}

// ConversationResponse is the full conversation state
type ConversationResponse struct {
	Messages []MessageResponse `json:"messages"`
	Awaiting bool              `json:"awaiting"`
}

func (h *ChatHandler) conversation() ConversationResponse {
	messages := h.session.Messages()
	out := ConversationResponse{
		Messages: make([]MessageResponse, 0, len(messages)),
		Awaiting: h.session.IsAwaiting(),
	}
	for _, m := range messages {
		resp := MessageResponse{ID: m.ID, Role: m.Role, Content: m.Content}
		if m.Role == entities.RoleAssistant {
			resp.Blocks = chat.Parse(m.Content)
		}
		out.Messages = append(out.Messages, resp)
	}
	return out
}

// GetConversation handles GET /chat
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	api.Success(w, http.StatusOK, h.conversation())
}

// SendMessage handles POST /chat/messages. The reply arrives later through
// the conversation state; the immediate response shows the pending turn.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.session.SendMessage(r.Context(), req.Text)
	api.Success(w, http.StatusAccepted, h.conversation())
}

// AskRecommendations handles POST /chat/recommendations
func (h *ChatHandler) AskRecommendations(w http.ResponseWriter, r *http.Request) {
	h.session.AskForRecommendations(r.Context())
	api.Success(w, http.StatusAccepted, h.conversation())
}
