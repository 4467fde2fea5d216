package core

import (
	"context"

	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/logging"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
	"github.com/google/uuid"
)

// MoveColumn moves a column within the workspace's sheet.
func (s *Service) MoveColumn(ctx context.Context, id uuid.UUID, from, to int) (Info, error) {
	return s.update(ctx, id, func(ws *Workspace) error {
		return ws.state.MoveColumn(from, to)
	})
}

// MoveRow moves a data row within the workspace's sheet.
func (s *Service) MoveRow(ctx context.Context, id uuid.UUID, from, to int) (Info, error) {
	return s.update(ctx, id, func(ws *Workspace) error {
		return ws.state.MoveRow(from, to)
	})
}

// EditCell stores value verbatim in one cell.
func (s *Service) EditCell(ctx context.Context, id uuid.UUID, row, col int, value string) (Info, error) {
	return s.update(ctx, id, func(ws *Workspace) error {
		return ws.state.EditCell(row, col, value)
	})
}

// SetRowEditable toggles a row's edit flag.
func (s *Service) SetRowEditable(ctx context.Context, id uuid.UUID, row int, enabled bool) (Info, error) {
	return s.update(ctx, id, func(ws *Workspace) error {
		return ws.state.SetRowEditable(row, enabled)
	})
}

// Concatenate joins the selected columns into a new trailing column.
func (s *Service) Concatenate(ctx context.Context, id uuid.UUID, indices []int, name string) (sheet.ConcatResult, Info, error) {
	var res sheet.ConcatResult
	info, err := s.update(ctx, id, func(ws *Workspace) error {
		var err error
		res, err = ws.state.Concatenate(indices, name)
		return err
	})
	if err != nil {
		return sheet.ConcatResult{}, Info{}, err
	}
	if res.Applied {
		logging.FromContext(ctx).Debug("columns concatenated",
			"workspace_id", id,
			"columns", indices,
			"header", res.Header,
		)
	}
	return res, info, nil
}

// UndoConcatenate restores the sheet from before the last concatenation.
func (s *Service) UndoConcatenate(ctx context.Context, id uuid.UUID) (sheet.Outcome, Info, error) {
	var out sheet.Outcome
	info, err := s.update(ctx, id, func(ws *Workspace) error {
		out = ws.state.UndoConcatenate()
		return nil
	})
	return out, info, err
}

// Undo reverts the last cell edit or replacement.
func (s *Service) Undo(ctx context.Context, id uuid.UUID) (sheet.Outcome, Info, error) {
	var out sheet.Outcome
	info, err := s.update(ctx, id, func(ws *Workspace) error {
		out = ws.state.Undo()
		return nil
	})
	return out, info, err
}

// Revert restores the rows captured when the file was loaded.
func (s *Service) Revert(ctx context.Context, id uuid.UUID) (sheet.Outcome, Info, error) {
	var out sheet.Outcome
	info, err := s.update(ctx, id, func(ws *Workspace) error {
		var err error
		out, err = ws.state.Revert()
		return err
	})
	return out, info, err
}

// Reset empties the workspace. The workspace itself stays open.
func (s *Service) Reset(ctx context.Context, id uuid.UUID) (Info, error) {
	return s.update(ctx, id, func(ws *Workspace) error {
		ws.state.Reset()
		ws.fileName = ""
		ws.sessionID = 0
		return nil
	})
}

// Find lists the cells matching term.
func (s *Service) Find(ctx context.Context, id uuid.UUID, term string, opts sheet.FindOptions) ([]sheet.Match, error) {
	var matches []sheet.Match
	_, err := s.update(ctx, id, func(ws *Workspace) error {
		matches = ws.state.FindAll(term, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// ReplaceAll replaces every match of find and returns the count.
func (s *Service) ReplaceAll(ctx context.Context, id uuid.UUID, find, with string, opts sheet.FindOptions) (int, Info, error) {
	var n int
	info, err := s.update(ctx, id, func(ws *Workspace) error {
		var err error
		n, err = ws.state.ReplaceAll(find, with, opts)
		return err
	})
	if err != nil {
		return 0, Info{}, err
	}
	logging.FromContext(ctx).Debug("cells replaced", "workspace_id", id, "count", n)
	return n, info, nil
}

// Export renders the workspace's sheet as a downloadable file. In merged
// mode only the most recently concatenated column is written.
func (s *Service) Export(ctx context.Context, id uuid.UUID, format export.Format, onlyMerged bool) (*export.File, error) {
	var file *export.File
	_, err := s.update(ctx, id, func(ws *Workspace) error {
		if !ws.state.Loaded() {
			return sheet.ErrNoDocument
		}
		var err error
		file, err = export.Export(
			ws.state.Title(),
			ws.state.Headers(),
			ws.state.Data(),
			format,
			export.Options{OnlyMergedColumn: onlyMerged, MergedHeader: ws.state.MergedHeader()},
		)
		return err
	})
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("sheet exported",
		"workspace_id", id,
		"format", format,
		"merged_only", onlyMerged,
		"bytes", len(file.Data),
	)
	return file, nil
}
