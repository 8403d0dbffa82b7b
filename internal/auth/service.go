package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seminaires/backend/internal/models"
	"github.com/seminaires/backend/pkg/apperr"
	"github.com/seminaires/backend/pkg/flash"
	"github.com/seminaires/backend/pkg/utils"
)

// UsersPath is the users page.
const UsersPath = "/utilisateurs"

// UserStore is the user persistence used by Service.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	EnsureUser(ctx context.Context, username, passwordHash string) (bool, error)
}

// Sessions is the session record store used by Service.
type Sessions interface {
	Save(ctx context.Context, sess models.Session) error
	Get(ctx context.Context, sid string) (models.Session, error)
	Delete(ctx context.Context, sid string) error
	DeleteForUser(ctx context.Context, userID int64) error
}

// Service authenticates callers and manages their sessions and accounts.
type Service struct {
	users    UserStore
	sessions Sessions
	tokens   *TokenService
	logger   *zap.Logger
}

// NewService creates the session gate.
func NewService(users UserStore, sessions Sessions, tokens *TokenService, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, sessions: sessions, tokens: tokens, logger: logger}
}

// Authenticate checks username and password. Unknown users and wrong
// passwords both yield apperr.ErrAuth.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.New(apperr.ErrAuth, "Identifiants invalides!")
		}
		return nil, err
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, apperr.New(apperr.ErrAuth, "Identifiants invalides!")
	}
	return u, nil
}

// Login authenticates and opens a session. It returns the session and the
// signed token to put in the session cookie.
func (s *Service) Login(ctx context.Context, username, password string) (models.Session, string, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return models.Session{}, "", err
	}
	sid := uuid.NewString()
	token, expiresAt, err := s.tokens.Generate(sid, u.ID, u.Username)
	if err != nil {
		return models.Session{}, "", fmt.Errorf("sign session: %w", err)
	}
	sess := models.Session{ID: sid, UserID: u.ID, Username: u.Username, ExpiresAt: expiresAt}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return models.Session{}, "", err
	}
	s.logger.Info("user logged in", zap.String("user", u.Username))
	return sess, token, nil
}

// CurrentSession resolves a session cookie. Bad signatures, expired tokens and
// revoked sessions all report false.
func (s *Service) CurrentSession(ctx context.Context, token string) (models.Session, bool) {
	if token == "" {
		return models.Session{}, false
	}
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return models.Session{}, false
	}
	sess, err := s.sessions.Get(ctx, claims.ID)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			s.logger.Warn("session lookup failed", zap.Error(err))
		}
		return models.Session{}, false
	}
	if sess.UserID != claims.UserID {
		return models.Session{}, false
	}
	return sess, true
}

// Logout revokes sess.
func (s *Service) Logout(ctx context.Context, sess models.Session) error {
	if !sess.Valid() {
		return apperr.ErrUnauthorized
	}
	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return err
	}
	s.logger.Info("user logged out", zap.String("user", sess.Username))
	return nil
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context, sess models.Session) ([]models.User, error) {
	if !sess.Valid() {
		return nil, apperr.ErrUnauthorized
	}
	return s.users.List(ctx)
}

// CreateUser adds an account.
func (s *Service) CreateUser(ctx context.Context, sess models.Session, username, password string) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		msg := "Le nom d'utilisateur et le mot de passe sont requis!"
		return flash.New(UsersPath, flash.Warning, msg), apperr.Validation(msg)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			msg := fmt.Sprintf("Le mot de passe doit contenir au moins %d caractères.", utils.MinPasswordLength)
			return flash.New(UsersPath, flash.Warning, msg), apperr.Validation(msg)
		}
		return flash.Outcome{}, fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.users.Create(ctx, username, hash); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			msg := "Cet utilisateur existe déjà."
			return flash.New(UsersPath, flash.Danger, msg), apperr.Conflict(msg)
		}
		return flash.Outcome{}, err
	}
	s.logger.Info("user created", zap.String("user", username), zap.String("by", sess.Username))
	return flash.New(UsersPath, flash.Success, fmt.Sprintf("Utilisateur “%s” ajouté.", username)), nil
}

// DeleteUser removes an account and revokes its sessions. Callers cannot
// remove their own account.
func (s *Service) DeleteUser(ctx context.Context, sess models.Session, id int64) (flash.Outcome, error) {
	if !sess.Valid() {
		return flash.Outcome{}, apperr.ErrUnauthorized
	}
	if id == sess.UserID {
		msg := "Vous ne pouvez pas supprimer votre propre compte."
		return flash.New(UsersPath, flash.Warning, msg), apperr.Validation(msg)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return flash.Outcome{}, apperr.NotFound(fmt.Sprintf("Utilisateur #%d introuvable", id))
		}
		return flash.Outcome{}, err
	}
	if err := s.sessions.DeleteForUser(ctx, id); err != nil {
		s.logger.Warn("revoke sessions failed", zap.Int64("user_id", id), zap.Error(err))
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id), zap.String("by", sess.Username))
	return flash.New(UsersPath, flash.Info, fmt.Sprintf("Utilisateur #%d supprimé!", id)), nil
}

// SeedUser creates the account at startup unless it already exists. An
// existing account keeps its password.
func (s *Service) SeedUser(ctx context.Context, username, password string) error {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}
	created, err := s.users.EnsureUser(ctx, username, hash)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("seeded user", zap.String("user", username))
	}
	return nil
}
