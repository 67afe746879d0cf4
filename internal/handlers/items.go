package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Aarti-panchal01/Khoj/internal/services"
	"github.com/Aarti-panchal01/Khoj/internal/store"
	"github.com/Aarti-panchal01/Khoj/types"
	"github.com/go-chi/chi/v5"
)

// ItemHandler provides HTTP handlers for lost/found items.
type ItemHandler struct {
	itemService *services.ItemService
}

// NewItemHandler constructs a handler with the provided service.
func NewItemHandler(itemService *services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

// ItemRouter registers item routes on the given router.
func ItemRouter(r chi.Router, itemService *services.ItemService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewItemHandler(itemService)

	r.Get("/", handler.ListItems)
	r.With(authMiddleware).Post("/", handler.CreateItem)
	r.Route("/{itemID}", func(r chi.Router) {
		r.Get("/", handler.GetItem)
		r.With(authMiddleware).Put("/", handler.UpdateItem)
		r.With(authMiddleware).Delete("/", handler.DeleteItem)
	})
}

// ListItems applies the query-string filters conjunctively and returns
// the matches in stored (newest-first) order.
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	filter, err := parseItemFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.itemService.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	writeJSON(w, http.StatusOK, ItemListResponse{Success: true, Items: items})
}

func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.Get(r.Context(), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch item")
		return
	}
	if item == nil {
		writeError(w, http.StatusNotFound, "Item not found")
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req types.Item
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Type != types.ItemTypeLost && req.Type != types.ItemTypeFound {
		writeError(w, http.StatusBadRequest, "type must be lost or found")
		return
	}

	item, err := h.itemService.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, store.ErrNotAuthenticated) {
			writeError(w, http.StatusUnauthorized, "User not authenticated")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var upd types.ItemUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	item, err := h.itemService.Update(r.Context(), chi.URLParam(r, "itemID"), upd)
	if err != nil {
		if errors.Is(err, store.ErrItemNotFound) {
			writeError(w, http.StatusNotFound, "Item not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// DeleteItem always reports success, including for ids that do not
// exist; the delete path has no not-found branch on purpose.
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := h.itemService.Delete(r.Context(), chi.URLParam(r, "itemID")); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Categories returns the fixed category list.
func Categories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.Categories)
}

// ItemListResponse is the item list payload.
type ItemListResponse struct {
	Success bool         `json:"success"`
	Items   []types.Item `json:"items"`
}

func parseItemFilter(r *http.Request) (types.ItemFilter, error) {
	query := r.URL.Query()
	filter := types.ItemFilter{
		Type:     strings.TrimSpace(query.Get("type")),
		Category: strings.TrimSpace(query.Get("category")),
		Status:   strings.TrimSpace(query.Get("status")),
		Search:   strings.TrimSpace(query.Get("search")),
	}

	if filter.Type != "" && filter.Type != types.ItemTypeLost && filter.Type != types.ItemTypeFound {
		return types.ItemFilter{}, errors.New("invalid type")
	}

	// urgent is tri-state: absent means "don't filter".
	if raw := strings.TrimSpace(query.Get("urgent")); raw != "" {
		switch raw {
		case "true":
			urgent := true
			filter.Urgent = &urgent
		case "false":
			urgent := false
			filter.Urgent = &urgent
		default:
			return types.ItemFilter{}, errors.New("invalid urgent")
		}
	}

	return filter, nil
}
