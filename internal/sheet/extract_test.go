package sheet

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	raw := [][]Cell{
		{String("Inventory")},
		{String("Code"), String("Name"), String("City")},
		{String("item10"), String(" widget  large "), String("São Paulo"), String("extra")},
		{String(""), String("  "), Empty()},
		{String("item2"), String("gadget")},
		{},
		{Number(3), String("bolt"), String("Recife")},
	}

	ex := Extract(raw)

	if ex.Title != "Inventory" {
		t.Errorf("Title = %q, want %q", ex.Title, "Inventory")
	}
	if !reflect.DeepEqual(ex.Headers, []string{"Code", "Name", "City"}) {
		t.Errorf("Headers = %v", ex.Headers)
	}

	wantOriginal := [][]string{
		{"item10", " widget  large ", "São Paulo"},
		{"item2", "gadget", ""},
		{"3", "bolt", "Recife"},
	}
	if got := textsOf(ex.OriginalData); !reflect.DeepEqual(got, wantOriginal) {
		t.Errorf("OriginalData = %v, want %v", got, wantOriginal)
	}

	wantData := [][]string{
		{"3", "BOLT", "RECIFE"},
		{"ITEM2", "GADGET", ""},
		{"ITEM10", "WIDGET LARGE", "SAO PAULO"},
	}
	if got := textsOf(ex.Data); !reflect.DeepEqual(got, wantData) {
		t.Errorf("Data = %v, want %v", got, wantData)
	}

	for i, row := range ex.Data {
		if len(row) != len(ex.Headers) {
			t.Errorf("row %d has %d cells, want %d", i, len(row), len(ex.Headers))
		}
	}
	if k := ex.Data[0][0].Kind(); k != KindNumber {
		t.Errorf("numeric cell kind = %v, want number", k)
	}
}

func TestExtract_DefaultTitle(t *testing.T) {
	tests := []struct {
		name string
		raw  [][]Cell
	}{
		{name: "no rows", raw: nil},
		{name: "empty first row", raw: [][]Cell{{}, {String("A")}, {String("x")}}},
		{name: "blank title cell", raw: [][]Cell{{Empty()}, {String("A")}, {String("x")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.raw).Title; got != DefaultTitle {
				t.Errorf("Title = %q, want %q", got, DefaultTitle)
			}
		})
	}
}

func TestExtract_ShortInput(t *testing.T) {
	raw := [][]Cell{
		{String("Only title")},
		{String("h1"), String("h2")},
	}

	ex := Extract(raw)
	if ex.Title != "Only title" {
		t.Errorf("Title = %q", ex.Title)
	}
	if !reflect.DeepEqual(ex.Headers, []string{"h1", "h2"}) {
		t.Errorf("Headers = %v", ex.Headers)
	}
	if len(ex.Data) != 0 || len(ex.OriginalData) != 0 {
		t.Errorf("expected no data rows, got %d/%d", len(ex.Data), len(ex.OriginalData))
	}

	ex = Extract([][]Cell{{String("t")}})
	if len(ex.Headers) != 0 {
		t.Errorf("Headers = %v, want empty", ex.Headers)
	}
}

func TestExtract_DoesNotAliasInput(t *testing.T) {
	raw := [][]Cell{
		{String("T")},
		{String("A")},
		{String("x")},
	}
	ex := Extract(raw)
	ex.OriginalData[0][0] = String("changed")

	if raw[2][0].Text() != "x" {
		t.Errorf("raw input mutated: %q", raw[2][0].Text())
	}
}
