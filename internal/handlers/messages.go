package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Aarti-panchal01/Khoj/internal/services"
	"github.com/go-chi/chi/v5"
)

// MessageHandler provides HTTP handlers for conversations.
type MessageHandler struct {
	messageService *services.MessageService
}

// NewMessageHandler constructs a handler with the provided service.
func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// ConversationRouter registers conversation routes on the given router.
func ConversationRouter(r chi.Router, messageService *services.MessageService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewMessageHandler(messageService)

	r.Route("/{conversationID}", func(r chi.Router) {
		r.Get("/", handler.GetConversation)
		r.With(authMiddleware).Post("/messages", handler.SendMessage)
		r.With(authMiddleware).Post("/participants", handler.AddParticipant)
	})
}

func (h *MessageHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversation, err := h.messageService.Conversation(r.Context(), chi.URLParam(r, "conversationID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch conversation")
		return
	}
	if conversation == nil {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}
	writeJSON(w, http.StatusOK, conversation)
}

// SendMessage appends a message from the authenticated user, creating
// the conversation on first use.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	senderID, err := userIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	message, err := h.messageService.Send(r.Context(), chi.URLParam(r, "conversationID"), senderID, req.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

func (h *MessageHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	var req AddParticipantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.messageService.AddParticipant(r.Context(), chi.URLParam(r, "conversationID"), req.UserID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to add participant")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type AddParticipantRequest struct {
	UserID string `json:"userId"`
}
