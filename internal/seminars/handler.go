package seminars

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/response"
)

// TrainingTypes lists the types offered in the seminar form.
type TrainingTypes interface {
	List(ctx context.Context, sess models.Session) ([]models.TrainingType, error)
}

// Handler handles seminar HTTP endpoints.
type Handler struct {
	svc   *Service
	types TrainingTypes
}

// NewHandler creates a seminars handler.
func NewHandler(svc *Service, types TrainingTypes) *Handler {
	return &Handler{svc: svc, types: types}
}

// Page handles GET /seminaires.
func (h *Handler) Page(c *gin.Context) {
	ctx, sess := c.Request.Context(), middleware.SessionFrom(c)
	list, err := h.svc.List(ctx, sess)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	types, err := h.types.List(ctx, sess)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.OK(c, gin.H{"seminaires": list, "types": types, "flashes": response.PopFlashes(c)})
}

// Create handles POST /seminaires/create.
func (h *Handler) Create(c *gin.Context) {
	out, err := h.svc.Create(c.Request.Context(), middleware.SessionFrom(c), formInput(c))
	response.Apply(c, out, err)
}

// Edit handles POST /seminaires/:id/edit.
func (h *Handler) Edit(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), middleware.SessionFrom(c), id, formInput(c))
	response.Apply(c, out, err)
}

// Delete handles POST /seminaires/:id/delete.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Delete(c.Request.Context(), middleware.SessionFrom(c), id)
	response.Apply(c, out, err)
}

// Register mounts the routes on a group guarded by RequireSession.
func (h *Handler) Register(g gin.IRoutes) {
	g.GET(PagePath, h.Page)
	g.POST(PagePath+"/create", h.Create)
	g.POST(PagePath+"/:id/edit", h.Edit)
	g.POST(PagePath+"/:id/delete", h.Delete)
}

func formInput(c *gin.Context) Input {
	return Input{
		Reference:    c.PostForm("reference"),
		Theme:        c.PostForm("theme"),
		TrainingType: c.PostForm("type_formation"),
	}
}
