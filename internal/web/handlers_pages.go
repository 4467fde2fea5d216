package web

import (
	"net/http"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/web/templates"
)

// handleHome renders the upload form and the saved sessions.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Home(sessions).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render home", "error", err)
	}
}

// handleWorkspacePage renders a read-only preview of a workspace.
func (s *Server) handleWorkspacePage(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	info, err := s.service.Get(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	page := templates.WorkspacePage(info)
	if isHTMX(r) {
		page = templates.SheetTable(info.Sheet)
	}
	if err := page.Render(ctx, w); err != nil {
		logging.FromContext(ctx).Error("render workspace", "error", err)
	}
}

type healthResponse struct {
	Status     string                   `json:"status"`
	Workspaces int                      `json:"workspaces"`
	Ingest     core.IngestLimiterStatus `json:"ingest"`
}

// handleHealth reports liveness and load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, healthResponse{
		Status:     "ok",
		Workspaces: s.service.WorkspaceCount(),
		Ingest:     s.service.IngestStatus(),
	})
}
