// Package services – ConversationService
//
// Conversations are always private to their owner: the read policy is
// evaluated with IsPublic unset, so anonymous and non-owner callers are
// denied uniformly. Messages are a sub-resource; every message operation
// first resolves and authorizes the parent conversation.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/atelierhq/go-studio-backend/internal/auth"
	"github.com/atelierhq/go-studio-backend/internal/domain"
)

const resourceConversation = "conversation"

// Message author roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationRepo defines the repository contract required by
// ConversationService, covering conversations and their messages.
type ConversationRepo interface {
	CreateConversation(ctx context.Context, db *gorm.DB, ownerID, title string) (*domain.Conversation, error)
	FindConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error)
	FindConversationForOwner(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Conversation, error)
	CountConversations(ctx context.Context, db *gorm.DB, ownerID string) (int64, error)
	ListConversationsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Conversation, error)
	UpdateConversationTitle(ctx context.Context, db *gorm.DB, id, ownerID, title string) (*domain.Conversation, error)
	DeleteConversation(ctx context.Context, db *gorm.DB, id, ownerID string) (bool, error)

	CreateMessage(ctx context.Context, db *gorm.DB, conversationID, role, content string) (*domain.Message, error)
	CountMessages(ctx context.Context, db *gorm.DB, conversationID string) (int64, error)
	ListMessagesPage(ctx context.Context, db *gorm.DB, conversationID string, offset, limit int) ([]domain.Message, error)
}

// CreateConversationInput is the validated payload for creating a conversation.
type CreateConversationInput struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// UpdateConversationInput is the validated payload for renaming a conversation.
type UpdateConversationInput struct {
	Title string `json:"title" validate:"required,min=1,max=255"`
}

// AppendMessageInput is the validated payload for appending a message.
type AppendMessageInput struct {
	Role    string `json:"role" validate:"required,oneof=user assistant"`
	Content string `json:"content" validate:"required"`
}

// ConversationService provides conversation and message operations with
// owner-only access.
type ConversationService struct {
	DB   *gorm.DB
	Repo ConversationRepo
}

// NewConversationService constructs a ConversationService bound to db and r.
func NewConversationService(db *gorm.DB, r ConversationRepo) *ConversationService {
	return &ConversationService{DB: db, Repo: r}
}

// Get loads a conversation by id; only the owner may read it.
func (s *ConversationService) Get(ctx context.Context, id string, principal *auth.Principal) (*domain.Conversation, error) {
	c, err := s.Repo.FindConversation(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.NewNotFound(resourceConversation, id)
	}

	d := auth.Decide(auth.Resource{OwnerID: c.OwnerID}, principal, auth.ActionRead)
	if !d.Allowed {
		return nil, domain.NewAccessDenied(resourceConversation, id)
	}
	return c, nil
}

// Create validates input and persists a new conversation owned by principal.
func (s *ConversationService) Create(ctx context.Context, principal *auth.Principal, in CreateConversationInput) (*domain.Conversation, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}
	return s.Repo.CreateConversation(ctx, s.DB, principal.ID, in.Title)
}

// UpdateTitle renames a conversation owned by principal, preserving the
// 404/403 distinction via a second unscoped lookup on an owner-scoped miss.
func (s *ConversationService) UpdateTitle(ctx context.Context, id string, principal *auth.Principal, in UpdateConversationInput) (*domain.Conversation, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	c, err := s.Repo.FindConversationForOwner(ctx, s.DB, id, principal.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, s.missingOrDenied(ctx, id)
	}
	return s.Repo.UpdateConversationTitle(ctx, s.DB, id, principal.ID, in.Title)
}

// Delete removes a conversation owned by principal; its messages go with it
// via the database cascade.
func (s *ConversationService) Delete(ctx context.Context, id string, principal *auth.Principal) error {
	if principal == nil {
		return domain.ErrUnauthorized
	}

	c, err := s.Repo.FindConversationForOwner(ctx, s.DB, id, principal.ID)
	if err != nil {
		return err
	}
	if c == nil {
		// No delete is attempted for records the caller does not own.
		return s.missingOrDenied(ctx, id)
	}

	if _, err := s.Repo.DeleteConversation(ctx, s.DB, id, principal.ID); err != nil {
		return err
	}
	return nil
}

// ListPage returns a page of the principal's conversations and the total count.
func (s *ConversationService) ListPage(ctx context.Context, principal *auth.Principal, page, pageSize int) ([]domain.Conversation, int64, error) {
	if principal == nil {
		return nil, 0, domain.ErrUnauthorized
	}

	total, err := s.Repo.CountConversations(ctx, s.DB, principal.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}

	offset := (page - 1) * pageSize
	items, err := s.Repo.ListConversationsPage(ctx, s.DB, principal.ID, offset, pageSize)
	return items, total, err
}

// ListMessages returns a page of a conversation's messages after verifying
// the caller may read the parent conversation.
func (s *ConversationService) ListMessages(ctx context.Context, conversationID string, principal *auth.Principal, page, pageSize int) ([]domain.Message, int64, error) {
	if _, err := s.Get(ctx, conversationID, principal); err != nil {
		return nil, 0, err
	}

	total, err := s.Repo.CountMessages(ctx, s.DB, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	offset := (page - 1) * pageSize
	items, err := s.Repo.ListMessagesPage(ctx, s.DB, conversationID, offset, pageSize)
	return items, total, err
}

// AppendMessage validates and appends a message to a conversation owned by
// principal.
func (s *ConversationService) AppendMessage(ctx context.Context, conversationID string, principal *auth.Principal, in AppendMessageInput) (*domain.Message, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	c, err := s.Repo.FindConversationForOwner(ctx, s.DB, conversationID, principal.ID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, s.missingOrDenied(ctx, conversationID)
	}
	return s.Repo.CreateMessage(ctx, s.DB, conversationID, in.Role, in.Content)
}

func (s *ConversationService) missingOrDenied(ctx context.Context, id string) error {
	existing, err := s.Repo.FindConversation(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NewNotFound(resourceConversation, id)
	}
	return domain.NewAccessDenied(resourceConversation, id)
}
