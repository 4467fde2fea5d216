package admin

import (
	"context"
	"testing"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
	"github.com/JonMunkholm/sheetclean/internal/store"
)

func TestResetSessions(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemStore()
	for _, title := range []string{"A", "B", "C"} {
		if _, err := st.Create(ctx, store.NewSession{
			Title:    title,
			FileName: title + ".csv",
			Headers:  []string{"Name"},
			Data:     []sheet.Row{sheet.RowOf("x")},
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	n, err := ResetSessions(ctx, st)
	if err != nil {
		t.Fatalf("ResetSessions: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted = %d, want 3", n)
	}

	left, err := st.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("%d sessions left", len(left))
	}

	if n, err := ResetSessions(ctx, st); err != nil || n != 0 {
		t.Errorf("second reset = %d, %v", n, err)
	}
}
