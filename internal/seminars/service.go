package seminars

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

// PagePath is the seminars page.
const PagePath = "/seminaires"

const (
	msgMissingReference = "La référence est obligatoire!"
	msgDuplicate        = "Cette référence existe déjà."
)

// Store is the persistence used by Service (implemented by *Repository).
type Store interface {
	List(ctx context.Context) ([]models.Seminar, error)
	Create(ctx context.Context, s *models.Seminar) error
	Update(ctx context.Context, s *models.Seminar) error
	Delete(ctx context.Context, id int64) error
}

// Input carries the seminar form fields.
type Input struct {
	Reference    string
	Theme        string
	TrainingType string
}

func (in Input) seminar() models.Seminar {
	return models.Seminar{
		Reference:    strings.TrimSpace(in.Reference),
		Theme:        strings.TrimSpace(in.Theme),
		TrainingType: strings.TrimSpace(in.TrainingType),
	}
}

// Service implements the seminar catalog operations.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a seminars service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns the catalog by id.
func (s *Service) List(ctx context.Context, sess models.Session) ([]models.Seminar, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.store.List(ctx)
}

// Create adds a catalog entry. Only the reference is mandatory.
func (s *Service) Create(ctx context.Context, sess models.Session, in Input) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	sem := in.seminar()
	if sem.Reference == "" {
		return flash.New(PagePath, flash.Warning, msgMissingReference), apperr.Validation(msgMissingReference)
	}
	if err := s.store.Create(ctx, &sem); err != nil {
		return conflictOr(err)
	}
	s.logger.Info("seminar created", zap.Int64("id", sem.ID), zap.String("reference", sem.Reference))
	return flash.New(PagePath, flash.Success, fmt.Sprintf("Séminaire “%s” ajouté.", sem.Reference)), nil
}

// Update replaces every field of seminar id.
func (s *Service) Update(ctx context.Context, sess models.Session, id int64, in Input) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	sem := in.seminar()
	sem.ID = id
	if sem.Reference == "" {
		return flash.New(PagePath, flash.Warning, msgMissingReference), apperr.Validation(msgMissingReference)
	}
	if err := s.store.Update(ctx, &sem); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return flash.Outcome{}, notFound(id)
		}
		return conflictOr(err)
	}
	s.logger.Info("seminar updated", zap.Int64("id", id))
	return flash.New(PagePath, flash.Success, "Séminaire mis à jour avec succès!"), nil
}

// Delete removes seminar id.
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
	s.logger.Info("seminar deleted", zap.Int64("id", id), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Info, fmt.Sprintf("Séminaire #%d supprimé!", id)), nil
}

func conflictOr(err error) (flash.Outcome, error) {
	if errors.Is(err, apperr.ErrConflict) {
		return flash.New(PagePath, flash.Danger, msgDuplicate), apperr.Conflict(msgDuplicate)
	}
	return flash.Outcome{}, err
}

func notFound(id int64) error {
	return apperr.NotFound(fmt.Sprintf("Séminaire #%d introuvable", id))
}
