// Package repo – project persistence.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - Lookups return (nil, nil) for absent rows so callers can branch without
//     an errors.Is check on every read.
//   - Mutations that match no row return ErrNotFound (an alias of
//     gorm.ErrRecordNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// Two lookup shapes exist deliberately: FindProject resolves by id alone,
// while FindProjectForOwner is scoped by (id, owner). The service layer uses
// the scoped form first and falls back to the unscoped one to tell "absent"
// apart from "owned by someone else".
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atelierhq/go-studio-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateProject inserts a new Project row owned by ownerID. The project ID is
// a randomly generated UUID (string), and CreatedAt is set to UTC.
func CreateProject(ctx context.Context, db *gorm.DB, ownerID, name, slug string, description *string, isPublic bool) (*domain.Project, error) {
	p := &domain.Project{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        name,
		Slug:        slug,
		Description: description,
		IsPublic:    isPublic,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// FindProject fetches a project by id alone, regardless of owner.
// Returns (nil, nil) when no such row exists so callers can branch without
// an errors.Is check on every read.
func FindProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error) {
	var p domain.Project
	err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProjectForOwner fetches a project scoped by both id and owner in a
// single round-trip. Returns (nil, nil) when no matching row exists.
func FindProjectForOwner(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Project, error) {
	var p domain.Project
	err := db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindProjectBySlug fetches a project by its unique slug. Returns (nil, nil)
// when no such row exists. Used for pre-insert collision checks.
func FindProjectBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Project, error) {
	var p domain.Project
	err := db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// CountProjects returns the total number of projects owned by ownerID.
func CountProjects(ctx context.Context, db *gorm.DB, ownerID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("owner_id = ?", ownerID).
		Count(&total).Error
	return total, err
}

// ListProjectsPage returns a paginated slice of projects for ownerID, ordered
// by creation time descending. Use CountProjects to obtain the total for
// pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListProjectsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Project, error) {
	var out []domain.Project
	err := db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateProject applies the given column updates to the project identified by
// id and owned by ownerID, then returns the refreshed row. If no rows are
// affected (project missing or not owned by ownerID), it returns ErrNotFound.
func UpdateProject(ctx context.Context, db *gorm.DB, id, ownerID string, updates map[string]any) (*domain.Project, error) {
	res := db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	var p domain.Project
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DeleteProject removes the project identified by id and owned by ownerID.
// It reports whether a row was actually deleted.
func DeleteProject(ctx context.Context, db *gorm.DB, id, ownerID string) (bool, error) {
	res := db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Project{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
