// Project HTTP handlers.
//
// This file exposes REST endpoints for project resources:
//   - GET    /projects          (list, paginated, owner-scoped)
//   - POST   /projects          (create)
//   - GET    /projects/:id      (read, public or owner)
//   - PATCH  /projects/:id      (update, owner only)
//   - DELETE /projects/:id      (delete, owner only)
//
// Handlers are transport-thin: they decode input, call application services,
// and translate results into HTTP responses. All failures funnel through
// respondError, so status mapping lives in one place.
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

//
// Service contracts (context-aware)
//

// ProjectService defines project lifecycle operations consumed by HTTP
// handlers. Implementations must be safe for concurrent use and honor the
// provided context.
type ProjectService interface {
	// Get loads a project, enforcing read visibility.
	Get(ctx context.Context, id string, principal *auth.Principal) (*domain.Project, error)
	// Create persists a new project owned by principal.
	Create(ctx context.Context, principal *auth.Principal, in services.CreateProjectInput) (*domain.Project, error)
	// Update applies a patch to a project owned by principal.
	Update(ctx context.Context, id string, principal *auth.Principal, in services.UpdateProjectInput) (*domain.Project, error)
	// Delete removes a project owned by principal.
	Delete(ctx context.Context, id string, principal *auth.Principal) error
	// ListPage returns a page of the principal's projects and the total count.
	ListPage(ctx context.Context, principal *auth.Principal, page, pageSize int) ([]domain.Project, int64, error)
}

// ProjectHandlers groups the project endpoints.
type ProjectHandlers struct {
	svc ProjectService
}

// NewProjectHandlers constructs ProjectHandlers bound to svc.
func NewProjectHandlers(svc ProjectService) *ProjectHandlers {
	return &ProjectHandlers{svc: svc}
}

//
// Helpers
//

// pageParams parses page/pageSize query params, falling back to defaults on
// invalid values. The fallback is silent toward the client but logged at
// warn so bad callers remain visible.
func pageParams(c *gin.Context) utils.PageParams {
	rawPage := c.Query("page")
	rawSize := c.Query("pageSize")
	params := utils.NewPageParams(rawPage, rawSize)

	pageInvalid := rawPage != "" && utils.AtoiDefault(rawPage, -1) != params.Page
	sizeInvalid := rawSize != "" && utils.AtoiDefault(rawSize, -1) != params.PageSize
	if pageInvalid || sizeInvalid {
		middleware.LoggerFrom(c).Warn().
			Str("page", rawPage).
			Str("page_size", rawSize).
			Msg("list.invalid_pagination")
	}
	return params
}

//
// Handlers
//

// List returns a page of the authenticated user's projects.
// GET /projects?page=&pageSize=
func (h *ProjectHandlers) List(c *gin.Context) {
	principal := middleware.PrincipalFrom(c)
	params := pageParams(c)

	items, total, err := h.svc.ListPage(c.Request.Context(), principal, params.Page, params.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, utils.NewPage(items, total, params))
}

// Create persists a new project for the authenticated user.
// POST /projects
func (h *ProjectHandlers) Create(c *gin.Context) {
	var in services.CreateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid JSON body")
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("name", in.Name).Msg("project.create_started")

	p, err := h.svc.Create(c.Request.Context(), middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("project_id", p.ID).Msg("project.create_completed")
	ok(c, http.StatusCreated, p)
}

// Get returns a single project. Public projects are served to anyone,
// private projects only to their owner.
// GET /projects/:id
func (h *ProjectHandlers) Get(c *gin.Context) {
	id := c.Param("id")
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("project_id", id).Msg("project.get_started")

	p, err := h.svc.Get(c.Request.Context(), id, middleware.PrincipalFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("project_id", id).Msg("project.get_completed")
	ok(c, http.StatusOK, p)
}

// Update applies a partial update to a project owned by the caller.
// PATCH /projects/:id
func (h *ProjectHandlers) Update(c *gin.Context) {
	id := c.Param("id")

	var in services.UpdateProjectInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "invalid JSON body")
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().Str("project_id", id).Msg("project.update_started")

	p, err := h.svc.Update(c.Request.Context(), id, middleware.PrincipalFrom(c), in)
	if err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("project_id", id).Msg("project.update_completed")
	ok(c, http.StatusOK, p)
}

// Delete removes a project owned by the caller; dependent records cascade at
// the persistence layer.
// DELETE /projects/:id
func (h *ProjectHandlers) Delete(c *gin.Context) {
	id := c.Param("id")
	lg := middleware.LoggerFrom(c)
	lg.Info().Str("project_id", id).Msg("project.delete_started")

	if err := h.svc.Delete(c.Request.Context(), id, middleware.PrincipalFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	lg.Info().Str("project_id", id).Msg("project.delete_completed")
	noContent(c)
}
