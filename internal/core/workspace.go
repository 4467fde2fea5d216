package core

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
	"github.com/google/uuid"
)

var (
	// ErrWorkspaceNotFound is returned for unknown, closed or evicted workspaces.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrTooManyWorkspaces is returned when MaxOpen workspaces are held.
	ErrTooManyWorkspaces = errors.New("too many open workspaces")

	// ErrIngestInProgress is returned when a file is already being loaded
	// into the same workspace.
	ErrIngestInProgress = errors.New("ingest already in progress for this workspace")

	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrNoFile is returned when an upload carries no file.
	ErrNoFile = errors.New("no file provided")

	// ErrRateLimited is returned when a client exceeds its request budget.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is wrapped by transports for malformed input.
	ErrInvalidRequest = errors.New("invalid request")
)

// Workspace is one live spreadsheet being edited. All access to the sheet
// state goes through mu, so operations on one workspace are serialised
// while different workspaces proceed independently.
type Workspace struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu        sync.Mutex
	state     *sheet.State
	fileName  string
	sessionID int64 // 0 until saved or opened from a session

	lastUsed  atomic.Int64 // unix nanoseconds
	ingesting atomic.Bool
}

func newWorkspace(now time.Time) *Workspace {
	ws := &Workspace{
		ID:        uuid.New(),
		CreatedAt: now,
		state:     &sheet.State{},
	}
	ws.touch(now)
	return ws
}

func (ws *Workspace) touch(now time.Time) {
	ws.lastUsed.Store(now.UnixNano())
}

// LastUsed returns the time of the most recent operation.
func (ws *Workspace) LastUsed() time.Time {
	return time.Unix(0, ws.lastUsed.Load())
}

// beginIngest marks the workspace as loading a file. It fails when another
// load is outstanding.
func (ws *Workspace) beginIngest() error {
	if !ws.ingesting.CompareAndSwap(false, true) {
		return ErrIngestInProgress
	}
	return nil
}

func (ws *Workspace) endIngest() {
	ws.ingesting.Store(false)
}

// Info describes a workspace together with its current sheet. Callers
// receive copies and may keep them.
type Info struct {
	ID        uuid.UUID  `json:"id"`
	FileName  string     `json:"fileName"`
	SessionID int64      `json:"sessionId,omitempty"`
	Loaded    bool       `json:"loaded"`
	CreatedAt time.Time  `json:"createdAt"`
	LastUsed  time.Time  `json:"lastUsed"`
	Sheet     sheet.View `json:"sheet"`
}

// info must be called with ws.mu held.
func (ws *Workspace) info() Info {
	return Info{
		ID:        ws.ID,
		FileName:  ws.fileName,
		SessionID: ws.sessionID,
		Loaded:    ws.state.Loaded(),
		CreatedAt: ws.CreatedAt,
		LastUsed:  ws.LastUsed(),
		Sheet:     ws.state.View(),
	}
}
