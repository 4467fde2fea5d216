package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/config"
	"github.com/JonMunkholm/sheetclean/internal/ingest"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
	"github.com/JonMunkholm/sheetclean/internal/store"
	"github.com/google/uuid"
)

// Service owns the live workspaces and the saved-session store.
type Service struct {
	store   store.Store
	limiter *IngestLimiter

	ingestTimeout time.Duration
	maxOpen       int

	mu         sync.RWMutex
	workspaces map[uuid.UUID]*Workspace

	now func() time.Time
}

// NewService creates a Service backed by st. Upload and workspace limits
// come from cfg.
func NewService(st store.Store, cfg *config.Config) *Service {
	return &Service{
		store:         st,
		limiter:       NewIngestLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime),
		ingestTimeout: cfg.Upload.Timeout,
		maxOpen:       cfg.Workspace.MaxOpen,
		workspaces:    make(map[uuid.UUID]*Workspace),
		now:           time.Now,
	}
}

// IngestStatus reports ingest slot usage.
func (s *Service) IngestStatus() IngestLimiterStatus {
	return s.limiter.Status()
}

// WorkspaceCount returns the number of open workspaces.
func (s *Service) WorkspaceCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}

// Shutdown waits for in-flight ingests to finish.
func (s *Service) Shutdown(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Open parses the file and creates a workspace holding it.
func (s *Service) Open(ctx context.Context, fileName string, r io.Reader) (Info, error) {
	if err := s.checkCapacity(); err != nil {
		return Info{}, err
	}

	ex, err := s.ingest(ctx, fileName, r)
	if err != nil {
		return Info{}, err
	}

	ws := newWorkspace(s.now())
	ws.state.Load(ex)
	ws.fileName = filepath.Base(fileName)

	if err := s.register(ws); err != nil {
		return Info{}, err
	}

	logging.FromContext(ctx).Info("workspace opened",
		"workspace_id", ws.ID,
		"file", ws.fileName,
		"rows", len(ex.Data),
	)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.info(), nil
}

// Reload parses a new file into an existing workspace, replacing its
// sheet, history and session link. The workspace is left exactly as it
// was when parsing fails.
func (s *Service) Reload(ctx context.Context, id uuid.UUID, fileName string, r io.Reader) (Info, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return Info{}, err
	}
	if err := ws.beginIngest(); err != nil {
		return Info{}, err
	}
	defer ws.endIngest()

	ex, err := s.ingest(ctx, fileName, r)
	if err != nil {
		return Info{}, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.state.Load(ex)
	ws.fileName = filepath.Base(fileName)
	ws.sessionID = 0
	ws.touch(s.now())

	logging.FromContext(ctx).Info("workspace reloaded",
		"workspace_id", ws.ID,
		"file", ws.fileName,
		"rows", len(ex.Data),
	)
	return ws.info(), nil
}

// OpenSession creates a workspace from a saved session. The saved rows
// become both the current and the original data.
func (s *Service) OpenSession(ctx context.Context, sessionID int64) (Info, error) {
	if err := s.checkCapacity(); err != nil {
		return Info{}, err
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return Info{}, fmt.Errorf("open session %d: %w", sessionID, err)
	}

	// Stored rows are not checked against the headers; fit them like an
	// uploaded file's rows.
	data := sheet.FitRows(sess.Data, len(sess.Headers))
	ws := newWorkspace(s.now())
	ws.state.Load(sheet.Extracted{
		Title:        sess.Title,
		Headers:      sess.Headers,
		Data:         data,
		OriginalData: data,
	})
	ws.fileName = sess.FileName
	ws.sessionID = sess.ID

	if err := s.register(ws); err != nil {
		return Info{}, err
	}

	logging.FromContext(ctx).Info("workspace opened from session",
		"workspace_id", ws.ID,
		"session_id", sess.ID,
	)

	ws.mu.Lock()
	defer ws.mu.Unlock()
	return ws.info(), nil
}

// Get returns the workspace's current state.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Info, error) {
	return s.update(ctx, id, func(*Workspace) error { return nil })
}

// Close discards a workspace.
func (s *Service) Close(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	_, ok := s.workspaces[id]
	delete(s.workspaces, id)
	s.mu.Unlock()

	if !ok {
		return ErrWorkspaceNotFound
	}
	logging.FromContext(ctx).Info("workspace closed", "workspace_id", id)
	return nil
}

// Save stores the workspace's sheet as a session. The first save creates a
// session; later saves update it. If the linked session was deleted in the
// meantime a new one is created.
func (s *Service) Save(ctx context.Context, id uuid.UUID) (store.Session, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return store.Session{}, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.touch(s.now())

	if !ws.state.Loaded() {
		return store.Session{}, sheet.ErrNoDocument
	}

	title := ws.state.Title()
	headers := ws.state.Headers()
	data := ws.state.Data()

	if ws.sessionID != 0 {
		sess, err := s.store.Update(ctx, ws.sessionID, store.Patch{
			Title:    &title,
			FileName: &ws.fileName,
			Headers:  &headers,
			Data:     &data,
		})
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return store.Session{}, fmt.Errorf("update session %d: %w", ws.sessionID, err)
		}
	}

	sess, err := s.store.Create(ctx, store.NewSession{
		Title:    title,
		FileName: ws.fileName,
		Headers:  headers,
		Data:     data,
	})
	if err != nil {
		return store.Session{}, fmt.Errorf("create session: %w", err)
	}
	ws.sessionID = sess.ID

	logging.FromContext(ctx).Info("workspace saved",
		"workspace_id", ws.ID,
		"session_id", sess.ID,
	)
	return sess, nil
}

// ingest parses one upload under the ingest limiter and timeout.
func (s *Service) ingest(ctx context.Context, fileName string, r io.Reader) (sheet.Extracted, error) {
	if r == nil || fileName == "" {
		return sheet.Extracted{}, ErrNoFile
	}
	base := filepath.Base(fileName)
	if !ingest.Supported(fileName) {
		return sheet.Extracted{}, &ingest.ParseError{
			File: base,
			Err:  fmt.Errorf("%w: %q", ingest.ErrUnsupportedFile, filepath.Ext(fileName)),
		}
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		return sheet.Extracted{}, err
	}
	defer s.limiter.Release()

	if s.ingestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.ingestTimeout)
		defer cancel()
	}

	log := logging.WithFields(ctx, "file", base)
	start := time.Now()

	ex, err := ingest.Load(ctx, fileName, r)
	if err != nil {
		log.Warn("ingest failed", "error", err)
		return sheet.Extracted{}, err
	}

	log.Debug("ingest completed",
		"rows", len(ex.Data),
		"columns", len(ex.Headers),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ex, nil
}

func (s *Service) checkCapacity() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.maxOpen > 0 && len(s.workspaces) >= s.maxOpen {
		return ErrTooManyWorkspaces
	}
	return nil
}

func (s *Service) register(ws *Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.maxOpen > 0 && len(s.workspaces) >= s.maxOpen {
		return ErrTooManyWorkspaces
	}
	s.workspaces[ws.ID] = ws
	return nil
}

func (s *Service) workspace(id uuid.UUID) (*Workspace, error) {
	s.mu.RLock()
	ws, ok := s.workspaces[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return ws, nil
}

// update runs fn with the workspace locked and returns the resulting state.
func (s *Service) update(_ context.Context, id uuid.UUID, fn func(ws *Workspace) error) (Info, error) {
	ws, err := s.workspace(id)
	if err != nil {
		return Info{}, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.touch(s.now())

	if err := fn(ws); err != nil {
		return Info{}, err
	}
	return ws.info(), nil
}
