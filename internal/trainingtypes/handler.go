package trainingtypes

import (
	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/pkg/response"
)

// Handler handles training type HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a training types handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Page handles GET /types_de_formation.
func (h *Handler) Page(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.OK(c, gin.H{"types": list, "flashes": response.PopFlashes(c)})
}

// Create handles POST /types_de_formation/create.
func (h *Handler) Create(c *gin.Context) {
	out, err := h.svc.Create(c.Request.Context(), middleware.SessionFrom(c), c.PostForm("name"))
	response.Apply(c, out, err)
}

// Edit handles POST /types_de_formation/:id/edit.
func (h *Handler) Edit(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), middleware.SessionFrom(c), id, c.PostForm("name"))
	response.Apply(c, out, err)
}

// Delete handles POST /types_de_formation/:id/delete.
func (h *Handler) Delete(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Delete(c.Request.Context(), middleware.SessionFrom(c), id)
	response.Apply(c, out, err)
}

// Register mounts the routes on a group already guarded by RequireSession.
func (h *Handler) Register(g gin.IRoutes) {
	g.GET(PagePath, h.Page)
	g.POST(PagePath+"/create", h.Create)
	g.POST(PagePath+"/:id/edit", h.Edit)
	g.POST(PagePath+"/:id/delete", h.Delete)
}
