package requests

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/apperr"
	"github.com/seminaires/backend/pkg/flash"
)

// PagePath is the requests page.
const PagePath = "/demandes"

const (
	msgMissingKey = "Le type, la référence et le thème sont obligatoires!"
	msgDuplicate  = "Cette demande existe déjà."
)

// Store is the persistence used by Service (implemented by *Repository).
type Store interface {
	Find(ctx context.Context, f Filter) ([]models.Request, error)
	Create(ctx context.Context, req *models.Request) error
	Update(ctx context.Context, req *models.Request) error
	Delete(ctx context.Context, id int64) error
}

// Input carries the request form fields as submitted.
type Input struct {
	Type                string
	Reference           string
	Theme               string
	Civilite            string
	Nom                 string
	Prenoms             string
	Telephones          string
	Emails              string
	Pays                string
	Organisme           string
	Contact             string
	Lieu                string
	DateDebut           string
	DateFin             string
	Duree               string
	DateReceptionEmail  string
	DateReceptionAccuse string
	Proforma            string
	FicheInscription    string
	Attestation         string
}

// Service implements request CRUD and the filter engine.
type Service struct {
	store  Store
	parse  parser
	logger *zap.Logger
}

// NewService creates a requests service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, parse: parser{logger: logger}, logger: logger}
}

// List returns every request by id, bounded by page.
func (s *Service) List(ctx context.Context, sess models.Session, page Page) ([]models.RequestView, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.find(ctx, Filter{Page: page})
}

// Filter runs the simple filter. Without criteria every request matches.
func (s *Service) Filter(ctx context.Context, sess models.Session, c SimpleCriteria) ([]models.RequestView, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.find(ctx, s.parse.simple(c))
}

// FilterAdvanced runs the set filter. Unlike Filter, no type, no reference
// and no valid date yields no request at all, and the store is not queried.
func (s *Service) FilterAdvanced(ctx context.Context, sess models.Session, c AdvancedCriteria) ([]models.RequestView, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	f, ok := s.parse.advanced(c)
	if !ok {
		return []models.RequestView{}, nil
	}
	return s.find(ctx, f)
}

func (s *Service) find(ctx context.Context, f Filter) ([]models.RequestView, error) {
	list, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	views := make([]models.RequestView, 0, len(list))
	for i := range list {
		views = append(views, list[i].View())
	}
	return views, nil
}

// Create records a request.
func (s *Service) Create(ctx context.Context, sess models.Session, in Input) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	req, err := in.request()
	if err != nil {
		return invalid(err)
	}
	if err := s.store.Create(ctx, &req); err != nil {
		return conflictOr(err)
	}
	s.logger.Info("request created", zap.Int64("id", req.ID), zap.String("reference", req.Reference), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Success, "Demande ajoutée avec succès!"), nil
}

// Update replaces every field of request id.
func (s *Service) Update(ctx context.Context, sess models.Session, id int64, in Input) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	req, err := in.request()
	if err != nil {
		return invalid(err)
	}
	req.ID = id
	if err := s.store.Update(ctx, &req); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return flash.Outcome{}, notFound(id)
		}
		return conflictOr(err)
	}
	s.logger.Info("request updated", zap.Int64("id", id), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Success, "Demande mise à jour avec succès!"), nil
}

// Delete removes request id.
func (s *Service) Delete(ctx context.Context, sess models.Session, id int64) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return flash.Outcome{}, notFound(id)
		}
		return flash.Outcome{}, err
	}
	s.logger.Info("request deleted", zap.Int64("id", id), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Info, fmt.Sprintf("Demande #%d supprimée!", id)), nil
}

// request validates the form. Dates are optional but must be YYYY-MM-DD when
// given; empty statuses take the "not yet" value.
func (in Input) request() (models.Request, error) {
	req := models.Request{
		Type:         strings.TrimSpace(in.Type),
		Reference:    strings.TrimSpace(in.Reference),
		Theme:        strings.TrimSpace(in.Theme),
		Civility:     strings.TrimSpace(in.Civilite),
		LastName:     strings.TrimSpace(in.Nom),
		FirstNames:   strings.TrimSpace(in.Prenoms),
		Phones:       strings.TrimSpace(in.Telephones),
		Emails:       strings.TrimSpace(in.Emails),
		Country:      strings.TrimSpace(in.Pays),
		Organization: strings.TrimSpace(in.Organisme),
		Contact:      strings.TrimSpace(in.Contact),
		Venue:        strings.TrimSpace(in.Lieu),
		Duration:     strings.TrimSpace(in.Duree),
	}
	if req.Type == "" || req.Reference == "" || req.Theme == "" {
		return req, apperr.Validation(msgMissingKey)
	}
	dates := []struct {
		field string
		value string
		dst   **time.Time
	}{
		{"date_debut", in.DateDebut, &req.StartDate},
		{"date_fin", in.DateFin, &req.EndDate},
		{"date_reception_email", in.DateReceptionEmail, &req.EmailReceivedOn},
		{"date_reception_accuse", in.DateReceptionAccuse, &req.AckReceivedOn},
	}
	for _, d := range dates {
		v := strings.TrimSpace(d.value)
		if v == "" {
			continue
		}
		t, err := models.ParseDate(v)
		if err != nil {
			return req, apperr.Validation(fmt.Sprintf("Date invalide pour %s: %s", d.field, v))
		}
		*d.dst = &t
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return req, apperr.Validation("La date de fin précède la date de début!")
	}

	req.Proforma = models.ProformaStatus(orDefault(in.Proforma, string(models.ProformaNotSent)))
	req.RegistrationForm = models.FormStatus(orDefault(in.FicheInscription, string(models.FormNotReceived)))
	req.Certificate = models.CertificateStatus(orDefault(in.Attestation, string(models.CertificateNotSent)))
	if !req.Proforma.Valid() || !req.RegistrationForm.Valid() || !req.Certificate.Valid() {
		return req, apperr.Validation("Statut invalide!")
	}
	return req, nil
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func invalid(err error) (flash.Outcome, error) {
	return flash.New(PagePath, flash.Warning, apperr.Message(err, msgMissingKey)), err
}

func conflictOr(err error) (flash.Outcome, error) {
	if errors.Is(err, apperr.ErrConflict) {
		return flash.New(PagePath, flash.Danger, msgDuplicate), apperr.Conflict(msgDuplicate)
	}
	return flash.Outcome{}, err
}

func notFound(id int64) error {
	return apperr.NotFound(fmt.Sprintf("Demande #%d introuvable", id))
}
