package sheet

import (
	"reflect"
	"testing"
)

func searchState() *State {
	return newTestState([]string{"A", "B"}, RowOf("Foo", "Bar"), RowOf("foo", "baz"))
}

func intPtr(i int) *int { return &i }

func TestFindAll(t *testing.T) {
	tests := []struct {
		name string
		term string
		opts FindOptions
		want []Match
	}{
		{
			name: "case insensitive substring",
			term: "fo",
			want: []Match{{Row: 0, Col: 0, Value: "Foo"}, {Row: 1, Col: 0, Value: "foo"}},
		},
		{
			name: "case sensitive substring",
			term: "Foo",
			opts: FindOptions{CaseSensitive: true},
			want: []Match{{Row: 0, Col: 0, Value: "Foo"}},
		},
		{
			name: "exact case insensitive",
			term: "BAR",
			opts: FindOptions{Exact: true},
			want: []Match{{Row: 0, Col: 1, Value: "Bar"}},
		},
		{
			name: "exact does not match substring",
			term: "ba",
			opts: FindOptions{Exact: true},
			want: []Match{},
		},
		{
			name: "restricted to column",
			term: "a",
			opts: FindOptions{Column: intPtr(1)},
			want: []Match{{Row: 0, Col: 1, Value: "Bar"}, {Row: 1, Col: 1, Value: "baz"}},
		},
		{
			name: "empty term",
			term: "",
			want: []Match{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := searchState().FindAll(tt.term, tt.opts)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FindAll(%q) = %+v, want %+v", tt.term, got, tt.want)
			}
		})
	}
}

func TestFindAll_SkipsEmptyCells(t *testing.T) {
	s := newTestState([]string{"A", "B"}, Row{Empty(), String("x")})
	got := s.FindAll("x", FindOptions{Exact: true})
	if len(got) != 1 || got[0].Col != 1 {
		t.Errorf("FindAll = %+v", got)
	}
}

func TestFindAll_NumericCells(t *testing.T) {
	s := newTestState([]string{"Qty"}, Row{Number(1250)})
	got := s.FindAll("25", FindOptions{})
	if len(got) != 1 || got[0].Value != "1250" {
		t.Errorf("FindAll = %+v", got)
	}
}

func TestReplaceAll(t *testing.T) {
	tests := []struct {
		name      string
		find      string
		with      string
		opts      FindOptions
		wantCount int
		wantData  [][]string
	}{
		{
			name:      "case insensitive",
			find:      "foo",
			with:      "X",
			wantCount: 2,
			wantData:  [][]string{{"X", "Bar"}, {"X", "baz"}},
		},
		{
			name:      "case sensitive",
			find:      "foo",
			with:      "X",
			opts:      FindOptions{CaseSensitive: true},
			wantCount: 1,
			wantData:  [][]string{{"Foo", "Bar"}, {"X", "baz"}},
		},
		{
			name:      "every occurrence in a cell",
			find:      "o",
			with:      "0",
			opts:      FindOptions{CaseSensitive: true},
			wantCount: 4,
			wantData:  [][]string{{"F00", "Bar"}, {"f00", "baz"}},
		},
		{
			name:      "exact replaces whole cell",
			find:      "bar",
			with:      "Pub",
			opts:      FindOptions{Exact: true},
			wantCount: 1,
			wantData:  [][]string{{"Foo", "Pub"}, {"foo", "baz"}},
		},
		{
			name:      "column restricted",
			find:      "a",
			with:      "@",
			opts:      FindOptions{Column: intPtr(0)},
			wantCount: 0,
			wantData:  [][]string{{"Foo", "Bar"}, {"foo", "baz"}},
		},
		{
			name:      "replacement to empty",
			find:      "baz",
			with:      "",
			opts:      FindOptions{Exact: true},
			wantCount: 1,
			wantData:  [][]string{{"Foo", "Bar"}, {"foo", ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := searchState()
			n, err := s.ReplaceAll(tt.find, tt.with, tt.opts)
			if err != nil {
				t.Fatalf("ReplaceAll: %v", err)
			}
			if n != tt.wantCount {
				t.Errorf("count = %d, want %d", n, tt.wantCount)
			}
			if got := textsOf(s.Data()); !reflect.DeepEqual(got, tt.wantData) {
				t.Errorf("Data = %v, want %v", got, tt.wantData)
			}
			if s.HistoryLen() != 1 {
				t.Errorf("HistoryLen = %d, want 1", s.HistoryLen())
			}
		})
	}
}

func TestReplaceAll_EmptyTermIsNoop(t *testing.T) {
	s := searchState()
	n, err := s.ReplaceAll("", "X", FindOptions{})
	if err != nil || n != 0 {
		t.Errorf("ReplaceAll = %d, %v", n, err)
	}
	if s.HistoryLen() != 0 {
		t.Errorf("HistoryLen = %d, want 0", s.HistoryLen())
	}
}

func TestReplaceAll_Undo(t *testing.T) {
	s := searchState()
	if _, err := s.ReplaceAll("foo", "X", FindOptions{}); err != nil {
		t.Fatal(err)
	}

	s.Undo()
	want := [][]string{{"Foo", "Bar"}, {"foo", "baz"}}
	if got := textsOf(s.Data()); !reflect.DeepEqual(got, want) {
		t.Errorf("Data after undo = %v, want %v", got, want)
	}
}

func TestReplaceFold(t *testing.T) {
	tests := []struct {
		s, old, repl string
		want         string
		wantN        int
	}{
		{"FooFOOfoo", "foo", "-", "---", 3},
		{"Ab aB AB", "ab", "x", "x x x", 3},
		{"aaa", "aa", "b", "ba", 1},
		{"none", "zz", "b", "none", 0},
	}
	for _, tt := range tests {
		got, n := replaceFold(tt.s, tt.old, tt.repl)
		if got != tt.want || n != tt.wantN {
			t.Errorf("replaceFold(%q, %q, %q) = %q, %d, want %q, %d",
				tt.s, tt.old, tt.repl, got, n, tt.want, tt.wantN)
		}
	}
}
