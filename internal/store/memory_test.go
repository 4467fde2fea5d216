package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/sheet"
)

// fakeClock returns increasing timestamps one second apart.
func fakeClock() func() time.Time {
	t := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newTestMemStore() *MemStore {
	m := NewMemStore()
	m.now = fakeClock()
	return m
}

func strPtr(s string) *string { return &s }

func TestMemStore_CreateGet(t *testing.T) {
	ctx := context.Background()
	m := newTestMemStore()

	created, err := m.Create(ctx, NewSession{
		Title:    "Stock",
		FileName: "stock.xlsx",
		Headers:  []string{"A", "B"},
		Data:     []sheet.Row{sheet.RowOf("1", "2")},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("ID = %d, want 1", created.ID)
	}
	if !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Errorf("CreatedAt %v != UpdatedAt %v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := m.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, created) {
		t.Errorf("Get = %+v, want %+v", got, created)
	}

	second, _ := m.Create(ctx, NewSession{Title: "Other"})
	if second.ID != 2 {
		t.Errorf("second ID = %d, want 2", second.ID)
	}
	if second.Headers == nil || second.Data == nil {
		t.Error("nil headers or data on created session")
	}
}

func TestMemStore_GetMissing(t *testing.T) {
	_, err := newTestMemStore().Get(context.Background(), 42)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestMemStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	m := newTestMemStore()
	for _, title := range []string{"first", "second", "third"} {
		if _, err := m.Create(ctx, NewSession{Title: title}); err != nil {
			t.Fatal(err)
		}
	}

	list, err := m.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var titles []string
	for _, s := range list {
		titles = append(titles, s.Title)
	}
	if want := []string{"third", "second", "first"}; !reflect.DeepEqual(titles, want) {
		t.Errorf("titles = %v, want %v", titles, want)
	}
}

func TestMemStore_Update(t *testing.T) {
	ctx := context.Background()
	m := newTestMemStore()
	created, _ := m.Create(ctx, NewSession{Title: "Old", FileName: "a.csv", Headers: []string{"A"}})

	data := []sheet.Row{sheet.RowOf("x")}
	updated, err := m.Update(ctx, created.ID, Patch{Title: strPtr("New"), Data: &data})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "New" || updated.FileName != "a.csv" {
		t.Errorf("Update = %+v", updated)
	}
	if !reflect.DeepEqual(updated.Headers, []string{"A"}) {
		t.Errorf("Headers = %v, want unchanged", updated.Headers)
	}
	if len(updated.Data) != 1 || updated.Data[0][0].Text() != "x" {
		t.Errorf("Data = %v", updated.Data)
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt not advanced: %v", updated.UpdatedAt)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed: %v", updated.CreatedAt)
	}

	if _, err := m.Update(ctx, 99, Patch{Title: strPtr("x")}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update missing error = %v, want ErrNotFound", err)
	}
}

func TestMemStore_Delete(t *testing.T) {
	ctx := context.Background()
	m := newTestMemStore()
	created, _ := m.Create(ctx, NewSession{Title: "x"})

	ok, err := m.Delete(ctx, created.ID)
	if err != nil || !ok {
		t.Fatalf("Delete = %v, %v, want true", ok, err)
	}
	ok, err = m.Delete(ctx, created.ID)
	if err != nil || ok {
		t.Errorf("second Delete = %v, %v, want false", ok, err)
	}
	if _, err := m.Get(ctx, created.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v", err)
	}
}

func TestMemStore_NoAliasing(t *testing.T) {
	ctx := context.Background()
	m := newTestMemStore()

	headers := []string{"A"}
	data := []sheet.Row{sheet.RowOf("a")}
	created, _ := m.Create(ctx, NewSession{Headers: headers, Data: data})

	headers[0] = "changed"
	data[0][0] = sheet.String("changed")
	created.Data[0][0] = sheet.String("changed")

	got, _ := m.Get(ctx, created.ID)
	if got.Headers[0] != "A" || got.Data[0][0].Text() != "a" {
		t.Errorf("stored session aliased caller slices: %+v", got)
	}
}

func TestPatch_Empty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{Title: strPtr("")}).Empty() {
		t.Error("Patch with title should not be empty")
	}
}
