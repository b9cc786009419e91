// Conversation HTTP handlers.
//
// REST endpoints for chat conversations and their messages:
//   - GET    /chat/conversations               (list, paginated)
//   - POST   /chat/conversations               (create)
//   - GET    /chat/conversations/:id           (read, owner only)
//   - PATCH  /chat/conversations/:id           (rename, owner only)
//   - DELETE /chat/conversations/:id           (delete + cascade messages)
//   - GET    /chat/conversations/:id/messages  (list messages, paginated)
//   - POST   /chat/conversations/:id/messages  (append a message)
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atelierhq/go-studio-backend/internal/auth"
	"github.com/atelierhq/go-studio-backend/internal/domain"
	"github.com/atelierhq/go-studio-backend/internal/http/middleware"
	"github.com/atelierhq/go-studio-backend/internal/services"
	"github.com/atelierhq/go-studio-backend/internal/utils"
)

// ConversationService defines conversation and message operations consumed
// by HTTP handlers. Implementations must be safe for concurrent use and
// honor the provided context.
type ConversationService interface {
	Get(ctx context.Context, id string, principal *auth.Principal) (*domain.Conversation, error)
	Create(ctx context.Context, principal *auth.Principal, in services.CreateConversationInput) (*domain.Conversation, error)
	UpdateTitle(ctx context.Context, id string, principal *auth.Principal, in services.UpdateConversationInput) (*domain.Conversation, error)
	Delete(ctx context.Context, id string, principal *auth.Principal) error
	ListPage(ctx context.Context, principal *auth.Principal, page, pageSize int) ([]domain.Conversation, int64, error)
	ListMessages(ctx context.Context, conversationID string, principal *auth.Principal, page, pageSize int) ([]domain.Message, int64, error)
	AppendMessage(ctx context.Context, conversationID string, principal *auth.Principal, in services.AppendMessageInput) (*domain.Message, error)
}

// ConversationHandlers groups the conversation and message endpoints.
type ConversationHandlers struct {
	svc ConversationService
}

// NewConversationHandlers constructs ConversationHandlers bound to svc.
func NewConversationHandlers(svc ConversationService) *ConversationHandlers {
	return &ConversationHandlers{svc: svc}
}

// List returns a page of the authenticated user's conversations.
// GET /chat/conversations?page=&pageSize=
func (h *ConversationHandlers) List(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	params := pageParams(c)

	items, total, err := h.svc.ListPage(c.Request.Context(), principal, params.Page, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, utils.NewPage(items, total, params))
}

// Create starts a new conversation for the authenticated user.
// POST /chat/conversations
func (h *ConversationHandlers) Create(c *gin.Context) {
	var in services.CreateConversationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid JSON body")
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("title", in.Title).Msg("conversation.create_started")

	conv, err := h.svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("conversation_id", conv.ID).Msg("conversation.create_completed")
	ok(c, http.StatusCreated, conv)
}

// Get returns a single conversation owned by the caller.
// GET /chat/conversations/:id
func (h *ConversationHandlers) Get(c *gin.Context) {
	id := c.Param("id")
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("conversation_id", id).Msg("conversation.get_started")

	conv, err := h.svc.Get(c.Request.Context(), id, middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("conversation_id", id).Msg("conversation.get_completed")
	ok(c, http.StatusOK, conv)
}

// Update renames a conversation owned by the caller.
// PATCH /chat/conversations/:id
func (h *ConversationHandlers) Update(c *gin.Context) {
	id := c.Param("id")

	var in services.UpdateConversationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid JSON body")
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("conversation_id", id).Msg("conversation.update_started")

	conv, err := h.svc.UpdateTitle(c.Request.Context(), id, middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("conversation_id", id).Msg("conversation.update_completed")
	ok(c, http.StatusOK, conv)
}

// Delete removes a conversation owned by the caller along with its messages.
// DELETE /chat/conversations/:id
func (h *ConversationHandlers) Delete(c *gin.Context) {
	id := c.Param("id")
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("conversation_id", id).Msg("conversation.delete_started")

	if err := h.svc.Delete(c.Request.Context(), id, middleware.PrincipalFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("conversation_id", id).Msg("conversation.delete_completed")
	noContent(c)
}

// ListMessages returns a page of a conversation's messages in chronological
// order.
// GET /chat/conversations/:id/messages?page=&pageSize=
func (h *ConversationHandlers) ListMessages(c *gin.Context) {
	id := c.Param("id")
	params := pageParams(c)
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("conversation_id", id).Msg("messages.get_started")

	items, total, err := h.svc.ListMessages(c.Request.Context(), id, middleware.PrincipalFrom(c), params.Page, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("conversation_id", id).Int("count", len(items)).Msg("messages.get_completed")
	ok(c, http.StatusOK, utils.NewPage(items, total, params))
}

// PostMessage appends a message to a conversation owned by the caller.
// POST /chat/conversations/:id/messages
func (h *ConversationHandlers) PostMessage(c *gin.Context) {
	id := c.Param("id")

	var in services.AppendMessageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid JSON body")
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("conversation_id", id).Msg("message.create_started")

	m, err := h.svc.AppendMessage(c.Request.Context(), id, middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("conversation_id", id).Str("message_id", m.ID).Msg("message.create_completed")
	ok(c, http.StatusCreated, m)
}
