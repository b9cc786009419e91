// Package services – ProjectService
//
// This file implements the ProjectService, which manages the lifecycle of
// projects. Every operation follows the same shape: fetch, authorize,
// validate, mutate. Policy failures are converted to domain errors as soon as
// they are detected, and handlers translate them to HTTP exactly once.
//
// The 404-versus-403 distinction is deliberate: mutations first try an
// owner-scoped lookup (one round-trip for the common case) and, only when
// that misses, re-check the id unscoped so that "no such project" and
// "someone else's project" remain observably different outcomes.
package services

import (
	"context"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/atelierhq/go-studio-backend/internal/auth"
	"github.com/atelierhq/go-studio-backend/internal/domain"
)

// resourceProject names the project resource kind in domain errors; the HTTP
// boundary derives error codes (PROJECT_NOT_FOUND, ...) from it.
const resourceProject = "project"

// ProjectRepo defines the repository contract required by ProjectService.
// Implementations are responsible for persistence of project records.
type ProjectRepo interface {
	// CreateProject inserts a new project row for the given owner.
	CreateProject(ctx context.Context, db *gorm.DB, ownerID, name, slug string, description *string, isPublic bool) (*domain.Project, error)

	// FindProject fetches a project by id alone; (nil, nil) when absent.
	FindProject(ctx context.Context, db *gorm.DB, id string) (*domain.Project, error)

	// FindProjectForOwner fetches a project scoped by id and owner; (nil, nil) when absent.
	FindProjectForOwner(ctx context.Context, db *gorm.DB, id, ownerID string) (*domain.Project, error)

	// FindProjectBySlug fetches a project by unique slug; (nil, nil) when absent.
	FindProjectBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Project, error)

	// CountProjects returns the total number of projects for pagination.
	CountProjects(ctx context.Context, db *gorm.DB, ownerID string) (int64, error)

	// ListProjectsPage returns a page of projects belonging to the owner.
	ListProjectsPage(ctx context.Context, db *gorm.DB, ownerID string, offset, limit int) ([]domain.Project, error)

	// UpdateProject applies column updates to an owner-scoped project and
	// returns the refreshed row.
	UpdateProject(ctx context.Context, db *gorm.DB, id, ownerID string, updates map[string]any) (*domain.Project, error)

	// DeleteProject removes an owner-scoped project, reporting whether a row
	// was deleted.
	DeleteProject(ctx context.Context, db *gorm.DB, id, ownerID string) (bool, error)
}

// CreateProjectInput is the validated payload for creating a project.
type CreateProjectInput struct {
	Name        string  `json:"name" validate:"required,min=3,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsPublic    bool    `json:"is_public"`
}

// UpdateProjectInput is the validated patch for updating a project. All
// fields are optional; nil means "leave unchanged".
type UpdateProjectInput struct {
	Name        *string `json:"name" validate:"omitempty,min=3,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public"`
}

// ProjectService provides project-level operations: create with slug
// uniqueness, visibility-aware reads, owner-only mutations, and paginated
// listing.
type ProjectService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the project repository used by this service.
	Repo ProjectRepo
}

// NewProjectService constructs a ProjectService bound to db and r.
func NewProjectService(db *gorm.DB, r ProjectRepo) *ProjectService {
	return &ProjectService{DB: db, Repo: r}
}

// Get loads a project by id and enforces read visibility: public projects are
// returned to anyone, private projects only to their owner. A missing id is
// NotFound; an existing but inaccessible one is AccessDenied.
func (s *ProjectService) Get(ctx context.Context, id string, principal *auth.Principal) (*domain.Project, error) {
	tr := otel.Tracer("services/ProjectService")
	ctx, span := tr.Start(ctx, "Get", trace.WithAttributes(attribute.String("project.id", id)))
	defer span.End()

	p, err := s.Repo.FindProject(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound(resourceProject, id)
	}

	d := auth.Decide(auth.Resource{OwnerID: p.OwnerID, IsPublic: p.IsPublic}, principal, auth.ActionRead)
	if !d.Allowed {
		return nil, domain.NewAccessDenied(resourceProject, id)
	}
	return p, nil
}

// Create validates input, derives a unique slug from the name, and persists a
// new project owned by principal. A slug collision fails with a ConflictError
// before any insert is attempted.
func (s *ProjectService) Create(ctx context.Context, principal *auth.Principal, in CreateProjectInput) (*domain.Project, error) {
	tr := otel.Tracer("services/ProjectService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	slug := Slugify(in.Name)
	existing, err := s.Repo.FindProjectBySlug(ctx, s.DB, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.NewConflict(resourceProject, "slug", slug)
	}

	return s.Repo.CreateProject(ctx, s.DB, principal.ID, in.Name, slug, in.Description, in.IsPublic)
}

// Update validates the patch and applies it to a project owned by principal.
// When the owner-scoped lookup misses, a second unscoped lookup distinguishes
// a truly absent id (NotFound) from someone else's project (AccessDenied).
// The slug is immutable; renaming a project does not re-derive it.
func (s *ProjectService) Update(ctx context.Context, id string, principal *auth.Principal, in UpdateProjectInput) (*domain.Project, error) {
	if principal == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}

	p, err := s.Repo.FindProjectForOwner(ctx, s.DB, id, principal.ID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, s.missingOrDenied(ctx, id)
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsPublic != nil {
		updates["is_public"] = *in.IsPublic
	}
	if len(updates) == 0 {
		return p, nil
	}

	return s.Repo.UpdateProject(ctx, s.DB, id, principal.ID, updates)
}

// Delete removes a project owned by principal; dependent records are removed
// by the persistence layer's cascade rules. The 404/403 distinction matches
// Update.
func (s *ProjectService) Delete(ctx context.Context, id string, principal *auth.Principal) error {
	if principal == nil {
		return domain.ErrUnauthorized
	}

	p, err := s.Repo.FindProjectForOwner(ctx, s.DB, id, principal.ID)
	if err != nil {
		return err
	}
	if p == nil {
		// No delete is attempted for records the caller does not own.
		return s.missingOrDenied(ctx, id)
	}

	if _, err := s.Repo.DeleteProject(ctx, s.DB, id, principal.ID); err != nil {
		return err
	}
	return nil
}

// ListPage returns a page of the principal's projects and the total count.
// Invalid page/pageSize values are the caller's concern; offsets here are
// taken as computed.
func (s *ProjectService) ListPage(ctx context.Context, principal *auth.Principal, page, pageSize int) ([]domain.Project, int64, error) {
	if principal == nil {
		return nil, 0, domain.ErrUnauthorized
	}

	total, err := s.Repo.CountProjects(ctx, s.DB, principal.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Project{}, 0, nil
	}

	offset := (page - 1) * pageSize
	items, err := s.Repo.ListProjectsPage(ctx, s.DB, principal.ID, offset, pageSize)
	return items, total, err
}

// missingOrDenied re-checks an id unscoped after an owner-scoped miss: the
// extra read buys the 404/403 distinction.
func (s *ProjectService) missingOrDenied(ctx context.Context, id string) error {
	existing, err := s.Repo.FindProject(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if existing == nil {
		return domain.NewNotFound(resourceProject, id)
	}
	return domain.NewAccessDenied(resourceProject, id)
}
