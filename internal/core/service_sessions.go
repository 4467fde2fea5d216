package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/store"
)

// ListSessions returns saved sessions, newest first.
func (s *Service) ListSessions(ctx context.Context) ([]store.Session, error) {
	sessions, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one saved session.
func (s *Service) GetSession(ctx context.Context, id int64) (store.Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return store.Session{}, fmt.Errorf("get session %d: %w", id, err)
	}
	return sess, nil
}

// CreateSession stores a new session.
func (s *Service) CreateSession(ctx context.Context, n store.NewSession) (store.Session, error) {
	sess, err := s.store.Create(ctx, n)
	if err != nil {
		return store.Session{}, fmt.Errorf("create session: %w", err)
	}
	logging.FromContext(ctx).Info("session created", "session_id", sess.ID)
	return sess, nil
}

// UpdateSession applies a partial update.
func (s *Service) UpdateSession(ctx context.Context, id int64, p store.Patch) (store.Session, error) {
	sess, err := s.store.Update(ctx, id, p)
	if err != nil {
		return store.Session{}, fmt.Errorf("update session %d: %w", id, err)
	}
	return sess, nil
}

// DeleteSession removes a session. Unknown ids yield store.ErrNotFound.
func (s *Service) DeleteSession(ctx context.Context, id int64) error {
	ok, err := s.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete session %d: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("delete session %d: %w", id, store.ErrNotFound)
	}
	logging.FromContext(ctx).Info("session deleted", "session_id", id)
	return nil
}
