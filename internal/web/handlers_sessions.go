package web

import (
	"net/http"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
	"github.com/JonMunkholm/sheetclean/internal/store"
)

// sessionPayload mirrors store.NewSession with pointers so that absent
// fields can be told apart from empty ones.
type sessionPayload struct {
	Title    *string      `json:"title"`
	FileName *string      `json:"fileName"`
	Headers  *[]string    `json:"headers"`
	Data     *[]sheet.Row `json:"data"`
}

// validateNew checks that every field of a new session is present.
func (p sessionPayload) validateNew() error {
	var problems []string
	if p.Title == nil {
		problems = append(problems, "title is required")
	}
	if p.FileName == nil {
		problems = append(problems, "fileName is required")
	}
	if p.Headers == nil {
		problems = append(problems, "headers is required")
	}
	if p.Data == nil {
		problems = append(problems, "data is required")
	}
	if len(problems) > 0 {
		return &store.ValidationError{Problems: problems}
	}
	return nil
}

func (p sessionPayload) newSession() store.NewSession {
	return store.NewSession{
		Title:    *p.Title,
		FileName: *p.FileName,
		Headers:  *p.Headers,
		Data:     *p.Data,
	}
}

func (p sessionPayload) patch() store.Patch {
	return store.Patch{
		Title:    p.Title,
		FileName: p.FileName,
		Headers:  p.Headers,
		Data:     p.Data,
	}
}

// decodeSession decodes a session body. Any decoding failure is reported
// as a validation problem.
func decodeSession(w http.ResponseWriter, r *http.Request) (sessionPayload, error) {
	var p sessionPayload
	if err := decodeJSON(w, r, &p); err != nil {
		return p, &store.ValidationError{Problems: []string{err.Error()}}
	}
	return p, nil
}

// handleListSessions returns every saved session, newest first.
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if sessions == nil {
		sessions = []store.Session{}
	}
	writeJSON(w, sessions)
}

// handleGetSession returns one session.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	sess, err := s.service.GetSession(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, sess)
}

// handleCreateSession stores a new session from a full payload.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	p, err := decodeSession(w, r)
	if err == nil {
		err = p.validateNew()
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	sess, err := s.service.CreateSession(r.Context(), p.newSession())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, sess)
}

// handleUpdateSession applies the fields present in the body.
func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := decodeSession(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}

	sess, err := s.service.UpdateSession(r.Context(), id, p.patch())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, sess)
}

// handleDeleteSession removes a session.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.service.DeleteSession(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleOpenSession starts a workspace from a saved session.
func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	info, err := s.service.OpenSession(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSONStatus(w, http.StatusCreated, info)
}
