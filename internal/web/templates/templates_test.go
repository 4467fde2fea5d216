package templates

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

func TestSheetTable(t *testing.T) {
	v := sheet.View{
		Headers:  []string{"Name", "City"},
		Data:     []sheet.Row{sheet.RowOf("<b>ANA</b>", "RECIFE"), sheet.RowOf("BOB")},
		Editable: []bool{false, true},
	}

	var b strings.Builder
	if err := SheetTable(v).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := b.String()

	for _, want := range []string{
		`<table id="sheet">`,
		`<th>Name</th><th>City</th>`,
		`<td>&lt;b&gt;ANA&lt;/b&gt;</td>`,
		`<tr class="editable"><td class="muted">2</td><td>BOB</td><td></td></tr>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestWorkspacePage(t *testing.T) {
	id := uuid.New()
	info := core.Info{
		ID:       id,
		FileName: "stock.csv",
		Loaded:   true,
		Sheet:    sheet.View{Title: "Stock & Co", Headers: []string{"A"}},
	}

	var b strings.Builder
	if err := WorkspacePage(info).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := b.String()

	for _, want := range []string{
		`<title>Stock &amp; Co</title>`,
		`<h1>Stock &amp; Co</h1>`,
		`href="/api/workspaces/` + id.String() + `/export?format=csv"`,
		`<table id="sheet">`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	b.Reset()
	if err := WorkspacePage(core.Info{ID: id}).Render(context.Background(), &b); err != nil {
		t.Fatalf("Render empty: %v", err)
	}
	if !strings.Contains(b.String(), "No spreadsheet loaded.") {
		t.Errorf("empty workspace output = %s", b.String())
	}
}

func TestErrorAlert(t *testing.T) {
	var b strings.Builder
	if err := ErrorAlert("Bad <file>", "", "FILE003").Render(context.Background(), &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	got := b.String()
	if !strings.Contains(got, "<strong>Bad &lt;file&gt;</strong>") || !strings.Contains(got, "Code: FILE003") {
		t.Errorf("output = %s", got)
	}
	if strings.Contains(got, "<p></p>") {
		t.Errorf("empty action rendered: %s", got)
	}
}
