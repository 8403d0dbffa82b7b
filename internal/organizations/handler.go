package organizations

import (
	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/pkg/response"
)

// Handler handles organization HTTP endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates an organizations handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Page handles GET /organismes.
func (h *Handler) Page(c *gin.Context) {
	page, err := h.svc.Page(c.Request.Context(), middleware.SessionFrom(c))
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.OK(c, gin.H{
		"organismes": page.Organizations,
		"countries":  page.Countries,
		"flashes":    response.PopFlashes(c),
	})
}

// Create handles POST /organismes/create with form fields organisme and pays.
func (h *Handler) Create(c *gin.Context) {
	out, err := h.svc.Create(c.Request.Context(), middleware.SessionFrom(c), c.PostForm("organisme"), c.PostForm("pays"))
	response.Apply(c, out, err)
}

// Edit handles POST /organismes/:id/edit.
func (h *Handler) Edit(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), middleware.SessionFrom(c), id, c.PostForm("organisme"), c.PostForm("pays"))
	response.Apply(c, out, err)
}

// Delete handles POST /organismes/:id/delete.
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
