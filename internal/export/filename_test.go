package export

import "testing"

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Stock Report", "Stock_Report"},
		{"  Q1 -- 2024 / final!! ", "Q1_2024_final"},
		{"__already__", "already"},
		{"São Paulo", "S_o_Paulo"},
		{"***", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeFileName(tt.in); got != tt.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFileBase(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Report", "Report"},
		{"", "Untitled"},
		{"!!!", FallbackFileBase},
	}
	for _, tt := range tests {
		if got := FileBase(tt.title); got != tt.want {
			t.Errorf("FileBase(%q) = %q, want %q", tt.title, got, tt.want)
		}
	}
}

func TestMergedFileBase(t *testing.T) {
	tests := []struct {
		title, header string
		want          string
	}{
		{"Report", "Full Name", "Report_Full_Name"},
		{"", "Full Name", "Full_Name"},
		{"Report", "", "Report"},
		{"", "", FallbackFileBase},
	}
	for _, tt := range tests {
		if got := MergedFileBase(tt.title, tt.header); got != tt.want {
			t.Errorf("MergedFileBase(%q, %q) = %q, want %q", tt.title, tt.header, got, tt.want)
		}
	}
}
