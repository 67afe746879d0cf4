package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aarti-panchal01/Khoj/internal/kv"
	"github.com/Aarti-panchal01/Khoj/internal/services"
	"github.com/Aarti-panchal01/Khoj/internal/store"
	"github.com/Aarti-panchal01/Khoj/types"
	"github.com/go-chi/chi/v5"
)

func newAPITestRouter(t *testing.T) http.Handler {
	t.Helper()

	entityStore := store.New(kv.NewMemoryKV())
	if err := entityStore.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	userService := services.NewUserService(entityStore)
	itemService := services.NewItemService(entityStore, nil)
	messageService := services.NewMessageService(entityStore, nil)
	authMiddleware := RequireAuth(testJWTSecret)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			AuthRouter(r, userService, testJWTSecret)
		})
		r.Route("/users", func(r chi.Router) {
			UserRouter(r, userService, itemService, messageService, authMiddleware)
		})
		r.Route("/items", func(r chi.Router) {
			ItemRouter(r, itemService, authMiddleware)
		})
		r.Route("/conversations", func(r chi.Router) {
			ConversationRouter(r, messageService, authMiddleware)
		})
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAndLogin(t *testing.T, router http.Handler) (types.User, string) {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name: "Asha", Email: "asha@college.edu", Password: "secret",
		Phone: "555-0101", College: "Sample College",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "asha@college.edu", Password: "secret",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token")
	}
	return resp.User, resp.Token
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router := newAPITestRouter(t)
	registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Name: "Imposter", Email: "asha@college.edu", Password: "other",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	router := newAPITestRouter(t)
	registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "asha@college.edu", Password: "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMeReturnsSessionUser(t *testing.T) {
	router := newAPITestRouter(t)
	user, token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var me types.User
	if err := json.Unmarshal(rec.Body.Bytes(), &me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.ID != user.ID {
		t.Errorf("expected user %q, got %q", user.ID, me.ID)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	router := newAPITestRouter(t)
	_, token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/auth/me", token, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestCreateItemOverHTTP(t *testing.T) {
	router := newAPITestRouter(t)
	user, token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/items", token, types.Item{
		Type: types.ItemTypeLost, Title: "Umbrella", Category: "Other", Location: "Bus Stop",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var item types.Item
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decode item: %v", err)
	}
	if item.UserID != user.ID || item.UserEmail != user.Email {
		t.Error("expected owner fields snapshotted from the session user")
	}
	if item.Status != types.ItemStatusActive {
		t.Errorf("expected active status, got %q", item.Status)
	}
}

func TestCreateItemWithoutStoreSession(t *testing.T) {
	router := newAPITestRouter(t)
	_, token := registerAndLogin(t, router)

	// Logging out clears the session pointer; a still-valid JWT is not
	// enough to attribute a new item.
	rec := doJSON(t, router, http.MethodPost, "/api/auth/logout", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/items", token, types.Item{
		Type: types.ItemTypeLost, Title: "Umbrella",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListItemsWithFilters(t *testing.T) {
	router := newAPITestRouter(t)
	_, token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/items", token, types.Item{
		Type: types.ItemTypeLost, Title: "Red Wallet", Category: "Wallets", Urgent: true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/items?type=lost&urgent=true", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}

	var resp ItemListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	// Our wallet plus the seeded urgent ID-card item, newest first.
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(resp.Items))
	}
	if resp.Items[0].Title != "Red Wallet" {
		t.Errorf("expected newest first, got %q", resp.Items[0].Title)
	}
}

func TestDeleteItemMissingReportsSuccess(t *testing.T) {
	router := newAPITestRouter(t)
	_, token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodDelete, "/api/items/missing", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a missing id, got %d", rec.Code)
	}
}

func TestConversationFlowOverHTTP(t *testing.T) {
	router := newAPITestRouter(t)
	user, token := registerAndLogin(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/conversations/conv_42/messages", token, SendMessageRequest{Text: "hello"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("send: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/conversations/conv_42", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	var conversation types.Conversation
	if err := json.Unmarshal(rec.Body.Bytes(), &conversation); err != nil {
		t.Fatalf("decode conversation: %v", err)
	}
	if conversation.ItemID != "42" {
		t.Errorf("expected item association 42, got %q", conversation.ItemID)
	}
	if len(conversation.Participants) != 1 || conversation.Participants[0] != user.ID {
		t.Errorf("expected participants [%s], got %v", user.ID, conversation.Participants)
	}
}
