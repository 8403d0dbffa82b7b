package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/seminaires/backend/internal/models"
)

const sessionKeyPrefix = "session:"

// ErrSessionNotFound is returned when a session expired or was revoked.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore keeps session records in Redis with a TTL.
type SessionStore struct {
	client *redis.Client
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func sessionKey(sid string) string { return sessionKeyPrefix + sid }

// Save stores s until its expiry.
func (s *SessionStore) Save(ctx context.Context, sess models.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("save session %s: already expired", sess.ID)
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Get loads a session by id.
func (s *SessionStore) Get(ctx context.Context, sid string) (models.Session, error) {
	raw, err := s.client.Get(ctx, sessionKey(sid)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return models.Session{}, ErrSessionNotFound
		}
		return models.Session{}, fmt.Errorf("get session: %w", err)
	}
	var sess models.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return models.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

// Delete revokes a session. Deleting an unknown session is not an error.
func (s *SessionStore) Delete(ctx context.Context, sid string) error {
	if err := s.client.Del(ctx, sessionKey(sid)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteForUser revokes every session of userID, used when an account is removed.
func (s *SessionStore) DeleteForUser(ctx context.Context, userID int64) error {
	iter := s.client.Scan(ctx, 0, sessionKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		sess, err := s.Get(ctx, iter.Val()[len(sessionKeyPrefix):])
		if err != nil {
			continue
		}
		if sess.UserID == userID {
			if err := s.Delete(ctx, sess.ID); err != nil {
				return err
			}
		}
	}
	return iter.Err()
}
