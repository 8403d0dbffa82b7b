package organizations

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/apperr"
	"github.com/seminaires/backend/pkg/flash"
)

// PagePath is the organizations page.
const PagePath = "/organismes"

// Store is the persistence used by Service (implemented by *Repository).
type Store interface {
	List(ctx context.Context) ([]models.Organization, error)
	Create(ctx context.Context, name, country string) (*models.Organization, error)
	Update(ctx context.Context, id int64, name, country string) error
	Delete(ctx context.Context, id int64) error
}

// Countries supplies the country list shown next to the organizations.
type Countries interface {
	Safe(ctx context.Context) []string
}

// Page is what GET /organismes shows.
type Page struct {
	Organizations []models.Organization `json:"organismes"`
	Countries     []string              `json:"countries"`
}

// Service implements the organization operations.
type Service struct {
	store     Store
	countries Countries
	logger    *zap.Logger
}

// NewService creates an organizations service.
func NewService(store Store, countries Countries, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, countries: countries, logger: logger}
}

// Page lists organizations by name along with the countries.
func (s *Service) Page(ctx context.Context, sess models.Session) (Page, error) {
	if !sess.Valid() {
		return Page{}, apperr.ErrUnauthorized
	}
	list, err := s.store.List(ctx)
	if err != nil {
		return Page{}, err
	}
	if list == nil {
		list = []models.Organization{}
	}
	return Page{Organizations: list, Countries: s.countries.Safe(ctx)}, nil
}

// Create adds an organization; both name and country are required.
func (s *Service) Create(ctx context.Context, sess models.Session, name, country string) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	name, country = strings.TrimSpace(name), strings.TrimSpace(country)
	if name == "" || country == "" {
		const msg = "Tous champs doivent être renseigné!"
		return flash.New(PagePath, flash.Warning, msg), apperr.Validation(msg)
	}
	o, err := s.store.Create(ctx, name, country)
	if err != nil {
		return conflictOr(err)
	}
	s.logger.Info("organization created", zap.Int64("id", o.ID), zap.String("country", country))
	return flash.New(PagePath, flash.Success, "Organisme ajouté avec succès!"), nil
}

// Update replaces name and country of organization id.
func (s *Service) Update(ctx context.Context, sess models.Session, id int64, name, country string) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	name, country = strings.TrimSpace(name), strings.TrimSpace(country)
	if name == "" || country == "" {
		const msg = "Tous les champs doivent être renseigné!"
		return flash.New(PagePath, flash.Warning, msg), apperr.Validation(msg)
	}
	if err := s.store.Update(ctx, id, name, country); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return flash.Outcome{}, notFound(id)
		}
		return conflictOr(err)
	}
	s.logger.Info("organization updated", zap.Int64("id", id))
	return flash.New(PagePath, flash.Success, "Organisme mis à jour avec succès!"), nil
}

// Delete removes organization id.
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
	s.logger.Info("organization deleted", zap.Int64("id", id), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Info, fmt.Sprintf("Organisme #%d supprimé!", id)), nil
}

func conflictOr(err error) (flash.Outcome, error) {
	if errors.Is(err, apperr.ErrConflict) {
		const msg = "L'enregistrement existe déjà!"
		return flash.New(PagePath, flash.Danger, msg), apperr.Conflict(msg)
	}
	return flash.Outcome{}, err
}

func notFound(id int64) error {
	return apperr.NotFound(fmt.Sprintf("Organisme #%d introuvable", id))
}
