package trainingtypes

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

// PagePath is the training types page mutations redirect to.
const PagePath = "/types_de_formation"

const (
	msgEmptyName = "Le nom ne peut être vide!"
	msgDuplicate = "Ce type existe déjà."
)

// Store is the persistence used by Service (implemented by *Repository).
type Store interface {
	List(ctx context.Context) ([]models.TrainingType, error)
	Create(ctx context.Context, name string) (*models.TrainingType, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// Service implements the training type operations.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a training types service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// List returns every training type by id.
func (s *Service) List(ctx context.Context, sess models.Session) ([]models.TrainingType, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.store.List(ctx)
}

// Create adds a training type.
func (s *Service) Create(ctx context.Context, sess models.Session, name string) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return flash.New(PagePath, flash.Warning, msgEmptyName), apperr.Validation(msgEmptyName)
	}
	t, err := s.store.Create(ctx, name)
	if err != nil {
		return conflictOr(err)
	}
	s.logger.Info("training type created", zap.Int64("id", t.ID), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Success, fmt.Sprintf("Type “%s” ajouté.", name)), nil
}

// Update renames training type id.
func (s *Service) Update(ctx context.Context, sess models.Session, id int64, name string) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return flash.New(PagePath, flash.Warning, msgEmptyName), apperr.Validation(msgEmptyName)
	}
	if err := s.store.Update(ctx, id, name); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return flash.Outcome{}, notFound(id)
		}
		return conflictOr(err)
	}
	s.logger.Info("training type updated", zap.Int64("id", id), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Success, "Type mis à jour avec succès!"), nil
}

// Delete removes training type id. Seminars and requests carrying its name
// are left as they are.
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
	s.logger.Info("training type deleted", zap.Int64("id", id), zap.String("by", sess.Username))
	return flash.New(PagePath, flash.Info, fmt.Sprintf("Type #%d supprimé!", id)), nil
}

func conflictOr(err error) (flash.Outcome, error) {
	if errors.Is(err, apperr.ErrConflict) {
		return flash.New(PagePath, flash.Danger, msgDuplicate), apperr.Conflict(msgDuplicate)
	}
	return flash.Outcome{}, err
}

func notFound(id int64) error {
	return apperr.NotFound(fmt.Sprintf("Type #%d introuvable", id))
}
