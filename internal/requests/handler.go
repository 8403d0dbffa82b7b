package requests

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/seminaires/backend/internal/middleware"
	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/internal/organizations"
	"github.com/seminaires/backend/pkg/response"
)

// OperationsPath is the processing status page.
const OperationsPath = "/operations"

// TrainingTypeLister is implemented by *trainingtypes.Service.
type TrainingTypeLister interface {
	List(ctx context.Context, sess models.Session) ([]models.TrainingType, error)
}

// VenueLister is implemented by *venues.Service.
type VenueLister interface {
	List(ctx context.Context, sess models.Session) ([]models.Venue, error)
}

// SeminarLister is implemented by *seminars.Service.
type SeminarLister interface {
	List(ctx context.Context, sess models.Session) ([]models.Seminar, error)
}

// OrganizationPager is implemented by *organizations.Service.
type OrganizationPager interface {
	Page(ctx context.Context, sess models.Session) (organizations.Page, error)
}

// ReferenceData feeds the dropdowns of the requests page.
type ReferenceData struct {
	Types         TrainingTypeLister
	Venues        VenueLister
	Seminars      SeminarLister
	Organizations OrganizationPager
}

// Handler handles request HTTP endpoints.
type Handler struct {
	svc    *Service
	lookup *Lookup
	refs   ReferenceData
}

// NewHandler creates a requests handler.
func NewHandler(svc *Service, lookup *Lookup, refs ReferenceData) *Handler {
	return &Handler{svc: svc, lookup: lookup, refs: refs}
}

// Page handles GET /demandes: the requests and everything the form needs.
func (h *Handler) Page(c *gin.Context) {
	ctx, sess := c.Request.Context(), middleware.SessionFrom(c)
	list, err := h.svc.List(ctx, sess, pageQuery(c))
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	types, err := h.refs.Types.List(ctx, sess)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	venues, err := h.refs.Venues.List(ctx, sess)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	seminars, err := h.refs.Seminars.List(ctx, sess)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	orgs, err := h.refs.Organizations.Page(ctx, sess)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.OK(c, gin.H{
		"demandes":   list,
		"types":      types,
		"lieux":      venues,
		"seminaires": seminars,
		"organismes": orgs.Organizations,
		"countries":  orgs.Countries,
		"flashes":    response.PopFlashes(c),
	})
}

// Lookup handles POST /demandes with a JSON action body.
func (h *Handler) Lookup(c *gin.Context) {
	var body LookupRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "Requête invalide")
		return
	}
	values, err := h.lookup.Do(c.Request.Context(), middleware.SessionFrom(c), body)
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.List(c, values)
}

// Filter handles GET /filtrer-demandes.
func (h *Handler) Filter(c *gin.Context) {
	list, err := h.svc.Filter(c.Request.Context(), middleware.SessionFrom(c), SimpleCriteria{
		Type:      c.Query("type"),
		Reference: c.Query("seminaire"),
		Country:   c.Query("pays"),
		Venue:     c.Query("lieu"),
		Contact:   c.Query("contact"),
		Start:     c.Query("debut"),
		End:       c.Query("fin"),
		Page:      pageQuery(c),
	})
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.List(c, list)
}

// FilterAdvanced handles GET /filtrer-demandes-avances?types[]=..&seminaires[]=..
func (h *Handler) FilterAdvanced(c *gin.Context) {
	list, err := h.svc.FilterAdvanced(c.Request.Context(), middleware.SessionFrom(c), AdvancedCriteria{
		Types:      c.QueryArray("types[]"),
		References: c.QueryArray("seminaires[]"),
		Start:      c.Query("debut"),
		End:        c.Query("fin"),
		Page:       pageQuery(c),
	})
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.List(c, list)
}

// Operations handles GET /operations: requests with their processing statuses.
func (h *Handler) Operations(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), middleware.SessionFrom(c), pageQuery(c))
	if err != nil {
		response.Apply(c, response.NoOutcome, err)
		return
	}
	response.OK(c, gin.H{"demandes": list, "flashes": response.PopFlashes(c)})
}

// Create handles POST /demandes/create.
func (h *Handler) Create(c *gin.Context) {
	out, err := h.svc.Create(c.Request.Context(), middleware.SessionFrom(c), formInput(c))
	response.Apply(c, out, err)
}

// Edit handles POST /demandes/:id/edit.
func (h *Handler) Edit(c *gin.Context) {
	id, ok := response.IDParam(c)
	if !ok {
		return
	}
	out, err := h.svc.Update(c.Request.Context(), middleware.SessionFrom(c), id, formInput(c))
	response.Apply(c, out, err)
}

// Delete handles POST /demandes/:id/delete.
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
	g.POST(PagePath, h.Lookup)
	g.GET("/filtrer-demandes", h.Filter)
	g.GET("/filtrer-demandes-avances", h.FilterAdvanced)
	g.GET(OperationsPath, h.Operations)
	g.POST(PagePath+"/create", h.Create)
	g.POST(PagePath+"/:id/edit", h.Edit)
	g.POST(PagePath+"/:id/delete", h.Delete)
}

func pageQuery(c *gin.Context) Page {
	return ParsePage(c.Query("limit"), c.Query("offset"))
}

func formInput(c *gin.Context) Input {
	return Input{
		Type:                c.PostForm("type"),
		Reference:           c.PostForm("reference"),
		Theme:               c.PostForm("theme"),
		Civilite:            c.PostForm("civilite"),
		Nom:                 c.PostForm("nom"),
		Prenoms:             c.PostForm("prenoms"),
		Telephones:          c.PostForm("telephones"),
		Emails:              c.PostForm("emails"),
		Pays:                c.PostForm("pays"),
		Organisme:           c.PostForm("organisme"),
		Contact:             c.PostForm("contact"),
		Lieu:                c.PostForm("lieu"),
		DateDebut:           c.PostForm("date_debut"),
		DateFin:             c.PostForm("date_fin"),
		Duree:               c.PostForm("duree"),
		DateReceptionEmail:  c.PostForm("date_reception_email"),
		DateReceptionAccuse: c.PostForm("date_reception_accuse"),
		Proforma:            c.PostForm("proforma"),
		FicheInscription:    c.PostForm("fiche_inscription"),
		Attestation:         c.PostForm("attestation"),
	}
}
