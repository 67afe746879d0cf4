package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Aarti-panchal01/Khoj/internal/services"
	"github.com/Aarti-panchal01/Khoj/internal/store"
	"github.com/Aarti-panchal01/Khoj/types"
	"github.com/go-chi/chi/v5"
)

// UserHandler provides HTTP handlers for user-scoped resources.
type UserHandler struct {
	userService    *services.UserService
	itemService    *services.ItemService
	messageService *services.MessageService
}

// UserRouter registers user routes on the given router.
func UserRouter(
	r chi.Router,
	userService *services.UserService,
	itemService *services.ItemService,
	messageService *services.MessageService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := &UserHandler{
		userService:    userService,
		itemService:    itemService,
		messageService: messageService,
	}

	r.Route("/{userID}", func(r chi.Router) {
		r.With(authMiddleware).Put("/", handler.UpdateUser)
		r.Get("/items", handler.ListUserItems)
		r.Get("/conversations", handler.ListUserConversations)
	})
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var upd types.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, err := h.userService.Update(r.Context(), chi.URLParam(r, "userID"), upd)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "User not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user.Password = ""
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) ListUserItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.ListByUser(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	writeJSON(w, http.StatusOK, ItemListResponse{Success: true, Items: items})
}

func (h *UserHandler) ListUserConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := h.messageService.UserConversations(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}
