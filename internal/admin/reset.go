// Package admin provides administrative operations on saved sessions.
package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/store"
)

// ResetTimeout is the maximum duration for reset operations.
const ResetTimeout = 30 * time.Second

// ResetSessions deletes every saved session and returns how many were
// removed. This is a destructive operation.
func ResetSessions(ctx context.Context, st store.Store) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, ResetTimeout)
	defer cancel()

	sessions, err := st.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	deleted := 0
	for _, s := range sessions {
		ok, err := st.Delete(ctx, s.ID)
		if err != nil {
			return deleted, fmt.Errorf("delete session %d: %w", s.ID, err)
		}
		if ok {
			deleted++
		}
	}

	slog.Info("sessions reset", "deleted", deleted)
	return deleted, nil
}
