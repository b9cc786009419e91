// Package repo – conversation persistence. Same conventions as the project
// repository: context-aware free functions, (nil, nil) for absent rows on
// lookups, raw gorm errors otherwise.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/go-studio-backend/internal/domain"
)

// CreateConversation inserts a new Conversation row owned by ownerID with the
// given title.
func CreateConversation(ctx context.Context, db *gorm.DB, ownerID, title string) (*domain.Conversation, error) {
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// FindConversation fetches a conversation by id alone, regardless of owner.
// Returns (nil, nil) when no such row exists.
func FindConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindConversationForOwner fetches a conversation scoped by both id and owner.
// Returns (nil, nil) when no matching row exists.
func FindConversationForOwner(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CountConversations returns the total number of conversations owned by ownerID.
func CountConversations(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}

// ListConversationsPage returns a paginated slice of conversations for
// ownerID, ordered by creation time descending.
func ListConversationsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateConversationTitle updates the title of a conversation identified by
// id and owned by ownerID, then returns the refreshed row. If no rows are
// affected, it returns ErrNotFound.
func UpdateConversationTitle(ctx context.Context, db *gorm.DB, id, ownerID, title string) (*domain.Conversation, error) {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Update("title", title)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var c domain.Conversation
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteConversation removes the conversation identified by id and owned by
// ownerID. Dependent messages are removed by the database's cascade rule.
// It reports whether a row was actually deleted.
func DeleteConversation(ctx context.Context, db *gorm.DB, id, ownerID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Conversation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
