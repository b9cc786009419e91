package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/atelierhq/go-studio-backend/internal/auth"
	"github.com/atelierhq/go-studio-backend/internal/domain"
	"github.com/atelierhq/go-studio-backend/internal/http/middleware"
	"github.com/atelierhq/go-studio-backend/internal/services"
)

type fakeConversationService struct {
	getFn          func(ctx context.Context, id string, principal *auth.Principal) (*domain.Conversation, error)
	createFn       func(ctx context.Context, principal *auth.Principal, in services.CreateConversationInput) (*domain.Conversation, error)
	updateTitleFn  func(ctx context.Context, id string, principal *auth.Principal, in services.UpdateConversationInput) (*domain.Conversation, error)
	deleteFn       func(ctx context.Context, id string, principal *auth.Principal) error
	listFn         func(ctx context.Context, principal *auth.Principal, page, pageSize int) ([]domain.Conversation, int64, error)
	listMessagesFn func(ctx context.Context, conversationID string, principal *auth.Principal, page, pageSize int) ([]domain.Message, int64, error)
	appendFn       func(ctx context.Context, conversationID string, principal *auth.Principal, in services.AppendMessageInput) (*domain.Message, error)
}

func (f *fakeConversationService) Get(ctx context.Context, id string, p *auth.Principal) (*domain.Conversation, error) {
	return f.getFn(ctx, id, p)
}

func (f *fakeConversationService) Create(ctx context.Context, p *auth.Principal, in services.CreateConversationInput) (*domain.Conversation, error) {
	return f.createFn(ctx, p, in)
}

func (f *fakeConversationService) UpdateTitle(ctx context.Context, id string, p *auth.Principal, in services.UpdateConversationInput) (*domain.Conversation, error) {
	return f.updateTitleFn(ctx, id, p, in)
}

func (f *fakeConversationService) Delete(ctx context.Context, id string, p *auth.Principal) error {
	return f.deleteFn(ctx, id, p)
}

func (f *fakeConversationService) ListPage(ctx context.Context, p *auth.Principal, page, pageSize int) ([]domain.Conversation, int64, error) {
	return f.listFn(ctx, p, page, pageSize)
}

func (f *fakeConversationService) ListMessages(ctx context.Context, id string, p *auth.Principal, page, pageSize int) ([]domain.Message, int64, error) {
	return f.listMessagesFn(ctx, id, p, page, pageSize)
}

func (f *fakeConversationService) AppendMessage(ctx context.Context, id string, p *auth.Principal, in services.AppendMessageInput) (*domain.Message, error) {
	return f.appendFn(ctx, id, p, in)
}

func newConversationRouter(svc ConversationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewConversationHandlers(svc)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Authenticate(middleware.AuthOptions{AllowHeaderFallback: true}))
	r.GET("/chat/conversations", h.List)
	r.POST("/chat/conversations", h.Create)
	r.GET("/chat/conversations/:id", h.Get)
	r.PATCH("/chat/conversations/:id", h.Update)
	r.DELETE("/chat/conversations/:id", h.Delete)
	r.GET("/chat/conversations/:id/messages", h.ListMessages)
	r.POST("/chat/conversations/:id/messages", h.PostMessage)
	return r
}

func TestConversationGet(t *testing.T) {
	t.Run("anonymous reading is 403 not 401", func(t *testing.T) {
		svc := &fakeConversationService{
			getFn: func(_ context.Context, id string, _ *auth.Principal) (*domain.Conversation, error) {
				return nil, domain.NewAccessDenied("conversation", id)
			},
		}
		w := doJSON(t, newConversationRouter(svc), http.MethodGet, "/chat/conversations/c1", "", "")

		if w.Code != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", w.Code)
		}
		if body := decodeError(t, w); body.Code != "CONVERSATION_ACCESS_DENIED" {
			t.Errorf("code = %q, want CONVERSATION_ACCESS_DENIED", body.Code)
		}
	})

	t.Run("missing is 404", func(t *testing.T) {
		svc := &fakeConversationService{
			getFn: func(_ context.Context, id string, _ *auth.Principal) (*domain.Conversation, error) {
				return nil, domain.NewNotFound("conversation", id)
			},
		}
		w := doJSON(t, newConversationRouter(svc), http.MethodGet, "/chat/conversations/ghost", "user-123", "")

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		if body := decodeError(t, w); !strings.Contains(body.Error, "ghost") {
			t.Errorf("error = %q, want the id included", body.Error)
		}
	})
}

func TestConversationCreate(t *testing.T) {
	svc := &fakeConversationService{
		createFn: func(_ context.Context, p *auth.Principal, in services.CreateConversationInput) (*domain.Conversation, error) {
			return &domain.Conversation{ID: "c-new", OwnerID: p.ID, Title: in.Title}, nil
		},
	}
	w := doJSON(t, newConversationRouter(svc), http.MethodPost, "/chat/conversations", "user-123", `{"title":"Ideas"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	var got domain.Conversation
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if got.Title != "Ideas" || got.OwnerID != "user-123" {
		t.Errorf("conversation = %+v", got)
	}
}

func TestConversationUpdate(t *testing.T) {
	svc := &fakeConversationService{
		updateTitleFn: func(_ context.Context, id string, _ *auth.Principal, in services.UpdateConversationInput) (*domain.Conversation, error) {
			return &domain.Conversation{ID: id, OwnerID: "user-123", Title: in.Title}, nil
		},
	}
	w := doJSON(t, newConversationRouter(svc), http.MethodPatch, "/chat/conversations/c1", "user-123", `{"title":"Renamed"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Renamed") {
		t.Errorf("body = %s, want renamed title", w.Body.String())
	}
}

func TestConversationDelete(t *testing.T) {
	svc := &fakeConversationService{
		deleteFn: func(_ context.Context, _ string, _ *auth.Principal) error { return nil },
	}
	w := doJSON(t, newConversationRouter(svc), http.MethodDelete, "/chat/conversations/c1", "user-123", "")

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
}

func TestMessagesList(t *testing.T) {
	svc := &fakeConversationService{
		listMessagesFn: func(_ context.Context, id string, _ *auth.Principal, page, pageSize int) ([]domain.Message, int64, error) {
			return []domain.Message{
				{ID: "m1", ConversationID: id, Role: "user", Content: "hello"},
				{ID: "m2", ConversationID: id, Role: "assistant", Content: "hi"},
			}, 2, nil
		},
	}
	w := doJSON(t, newConversationRouter(svc), http.MethodGet, "/chat/conversations/c1/messages", "user-123", "")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Items []domain.Message `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.Items) != 2 || body.Items[0].Role != "user" {
		t.Errorf("items = %+v", body.Items)
	}
}

func TestMessagePost(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeConversationService{
			appendFn: func(_ context.Context, id string, _ *auth.Principal, in services.AppendMessageInput) (*domain.Message, error) {
				return &domain.Message{ID: "m-new", ConversationID: id, Role: in.Role, Content: in.Content}, nil
			},
		}
		w := doJSON(t, newConversationRouter(svc), http.MethodPost, "/chat/conversations/c1/messages", "user-123",
			`{"role":"user","content":"hello"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
		}
	})

	t.Run("invalid role is 400 with field detail", func(t *testing.T) {
		svc := &fakeConversationService{
			appendFn: func(_ context.Context, _ string, _ *auth.Principal, _ services.AppendMessageInput) (*domain.Message, error) {
				return nil, domain.NewValidation(map[string]string{"role": "must be one of: user, assistant"})
			},
		}
		w := doJSON(t, newConversationRouter(svc), http.MethodPost, "/chat/conversations/c1/messages", "user-123",
			`{"role":"system","content":"x"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		body := decodeError(t, w)
		fields, ok := body.Details["fields"].(map[string]any)
		if !ok || fields["role"] == nil {
			t.Errorf("details = %v, want a role message", body.Details)
		}
	})
}
