package web

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// multipartMemory is how much of an upload is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

type editCellRequest struct {
	Row   *int    `json:"row"`
	Col   *int    `json:"col"`
	Value *string `json:"value"`
}

type editableRequest struct {
	Enabled *bool `json:"enabled"`
}

type concatRequest struct {
	Columns []int  `json:"columns"`
	Header  string `json:"header"`
}

type findRequest struct {
	Term string `json:"term"`
	sheet.FindOptions
}

type replaceRequest struct {
	Find    string `json:"find"`
	Replace string `json:"replace"`
	sheet.FindOptions
}

type outcomeResponse struct {
	sheet.Outcome
	Workspace core.Info `json:"workspace"`
}

type concatResponse struct {
	sheet.ConcatResult
	Workspace core.Info `json:"workspace"`
}

type findResponse struct {
	Count   int           `json:"count"`
	Matches []sheet.Match `json:"matches"`
}

type replaceResponse struct {
	Replaced  int       `json:"replaced"`
	Workspace core.Info `json:"workspace"`
}

// workspaceContext parses the workspace id and tags the request context
// with it for logging.
func workspaceContext(r *http.Request) (context.Context, uuid.UUID, error) {
	id, err := workspaceID(r)
	if err != nil {
		return nil, uuid.Nil, err
	}
	return logging.WithWorkspace(r.Context(), id.String()), id, nil
}

// readUpload extracts the "file" part of a multipart upload. The caller
// must close the returned file.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, multipart.File, error) {
	limit := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartMemory)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var mb *http.MaxBytesError
		if errors.As(err, &mb) {
			return "", nil, core.ErrFileTooLarge
		}
		return "", nil, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil, core.ErrNoFile
		}
		return "", nil, fmt.Errorf("%w: %v", core.ErrInvalidRequest, err)
	}
	if header.Size > limit {
		file.Close()
		return "", nil, fmt.Errorf("%w: %d bytes exceeds %d", core.ErrFileTooLarge, header.Size, limit)
	}
	return header.Filename, file, nil
}

// handleOpenWorkspace parses an uploaded file into a new workspace.
func (s *Server) handleOpenWorkspace(w http.ResponseWriter, r *http.Request) {
	name, file, err := s.readUpload(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	info, err := s.service.Open(r.Context(), name, file)
	if err != nil {
		fail(w, r, err)
		return
	}

	// Plain browser form posts land on the preview page.
	if acceptsHTML(r) {
		http.Redirect(w, r, "/workspaces/"+info.ID.String(), http.StatusSeeOther)
		return
	}
	writeJSONStatus(w, http.StatusCreated, info)
}

// handleReloadWorkspace replaces a workspace's sheet with a new upload.
func (s *Server) handleReloadWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	name, file, err := s.readUpload(w, r)
	if err != nil {
		fail(w, r, err)
		return
	}
	defer r.MultipartForm.RemoveAll()
	defer file.Close()

	info, err := s.service.Reload(ctx, id, name, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, info)
}

// handleGetWorkspace returns the current sheet.
func (s *Server) handleGetWorkspace(w http.ResponseWriter, r *http.Request) {
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
	writeJSON(w, info)
}

// handleCloseWorkspace discards a workspace.
func (s *Server) handleCloseWorkspace(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := s.service.Close(ctx, id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, s.service.MoveColumn)
}

func (s *Server) handleMoveRow(w http.ResponseWriter, r *http.Request) {
	s.handleMove(w, r, s.service.MoveRow)
}

// handleMove decodes {"from","to"} and applies move.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, move func(context.Context, uuid.UUID, int, int) (core.Info, error)) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req moveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	switch {
	case req.From == nil:
		fail(w, r, required("from"))
		return
	case req.To == nil:
		fail(w, r, required("to"))
		return
	}

	info, err := move(ctx, id, *req.From, *req.To)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, info)
}

// handleEditCell stores a value in one cell.
func (s *Server) handleEditCell(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req editCellRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	switch {
	case req.Row == nil:
		fail(w, r, required("row"))
		return
	case req.Col == nil:
		fail(w, r, required("col"))
		return
	case req.Value == nil:
		fail(w, r, required("value"))
		return
	}

	info, err := s.service.EditCell(ctx, id, *req.Row, *req.Col, *req.Value)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, info)
}

// handleSetRowEditable toggles a row's edit flag.
func (s *Server) handleSetRowEditable(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	row, err := intParam(r, "row")
	if err != nil {
		fail(w, r, err)
		return
	}
	var req editableRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}
	if req.Enabled == nil {
		fail(w, r, required("enabled"))
		return
	}

	info, err := s.service.SetRowEditable(ctx, id, row, *req.Enabled)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, info)
}

// handleConcatenate joins the selected columns into a new one.
func (s *Server) handleConcatenate(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req concatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	res, info, err := s.service.Concatenate(ctx, id, req.Columns, req.Header)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, concatResponse{ConcatResult: res, Workspace: info})
}

func (s *Server) handleUndoConcatenate(w http.ResponseWriter, r *http.Request) {
	s.handleOutcome(w, r, s.service.UndoConcatenate)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	s.handleOutcome(w, r, s.service.Undo)
}

func (s *Server) handleRevert(w http.ResponseWriter, r *http.Request) {
	s.handleOutcome(w, r, s.service.Revert)
}

// handleOutcome runs a body-less operation that reports an outcome.
func (s *Server) handleOutcome(w http.ResponseWriter, r *http.Request, op func(context.Context, uuid.UUID) (sheet.Outcome, core.Info, error)) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	out, info, err := op(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, outcomeResponse{Outcome: out, Workspace: info})
}

// handleReset empties the workspace.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	info, err := s.service.Reset(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, info)
}

// handleFind lists matching cells.
func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req findRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	matches, err := s.service.Find(ctx, id, req.Term, req.FindOptions)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, findResponse{Count: len(matches), Matches: matches})
}

// handleReplace replaces every match.
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	var req replaceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		fail(w, r, err)
		return
	}

	n, info, err := s.service.ReplaceAll(ctx, id, req.Find, req.Replace, req.FindOptions)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, replaceResponse{Replaced: n, Workspace: info})
}

// handleExport streams the sheet as a file download.
//
// Query parameters: format (xlsx, csv, txt, docx; default xlsx) and
// merged (true to export only the concatenated column).
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}

	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(export.FormatXLSX)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		fail(w, r, err)
		return
	}

	file, err := s.service.Export(ctx, id, format, boolQuery(r, "merged"))
	if err != nil {
		fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.MIMEType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	if _, err := w.Write(file.Data); err != nil {
		logging.FromContext(ctx).Warn("export write failed", "error", err)
	}
}

// handleSave stores the workspace as a session.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	ctx, id, err := workspaceContext(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	sess, err := s.service.Save(ctx, id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, sess)
}

// acceptsHTML reports whether the client is a browser that did not ask
// for JSON.
func acceptsHTML(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}
