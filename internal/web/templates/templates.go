// Package templates holds the templ components rendered by the web server.
//
// The *_templ.go files are generated from the .templ sources with
// `templ generate`; edit the sources, not the generated code.
package templates

import (
	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/export"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

func pageTitle(info core.Info) string {
	if !info.Loaded {
		return "Empty workspace"
	}
	return info.Sheet.Title
}

func exportURL(info core.Info, f export.Format) string {
	return "/api/workspaces/" + info.ID.String() + "/export?format=" + string(f)
}

func rowEditable(v sheet.View, i int) bool {
	return i < len(v.Editable) && v.Editable[i]
}

// cellText returns the text of column c, or "" for short rows.
func cellText(row sheet.Row, c int) string {
	if c < len(row) {
		return row[c].Text()
	}
	return ""
}
