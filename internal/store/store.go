// Package store persists saved spreadsheet sessions.
//
// Two implementations exist: MemStore keeps sessions in process memory and
// PgStore keeps them in the file_sessions table of a PostgreSQL database.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// ErrNotFound is returned when a session id does not exist.
var ErrNotFound = errors.New("session not found")

// Session is a saved copy of a spreadsheet's title, headers and rows.
type Session struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	FileName  string      `json:"fileName"`
	Headers   []string    `json:"headers"`
	Data      []sheet.Row `json:"data"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// NewSession holds the fields supplied when creating a session.
type NewSession struct {
	Title    string      `json:"title"`
	FileName string      `json:"fileName"`
	Headers  []string    `json:"headers"`
	Data     []sheet.Row `json:"data"`
}

// Patch is a partial update. Nil fields are left unchanged.
type Patch struct {
	Title    *string      `json:"title,omitempty"`
	FileName *string      `json:"fileName,omitempty"`
	Headers  *[]string    `json:"headers,omitempty"`
	Data     *[]sheet.Row `json:"data,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.FileName == nil && p.Headers == nil && p.Data == nil
}

// Store is implemented by every session backend.
type Store interface {
	// List returns every session, most recently created first.
	List(ctx context.Context) ([]Session, error)
	Get(ctx context.Context, id int64) (Session, error)
	Create(ctx context.Context, s NewSession) (Session, error)
	Update(ctx context.Context, id int64, p Patch) (Session, error)
	// Delete reports whether a session was removed.
	Delete(ctx context.Context, id int64) (bool, error)
	Close()
}

// ValidationError lists every problem found in a session payload.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid session: " + strings.Join(e.Problems, "; ")
}
