package menu

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kantine-app/kantine/internal/workbook"
)

func writeMenu(t *testing.T, header []string, rows [][]string) *workbook.Book {
	t.Helper()
	b := workbook.New(filepath.Join(t.TempDir(), "menu_data.xlsx"))
	b.Lock()
	err := b.WriteAll([]workbook.Sheet{{Name: "Sheet1", Header: header, Rows: rows}})
	b.Unlock()
	if err != nil {
		t.Fatalf("writing menu fixture: %v", err)
	}
	return b
}

func TestListParsesItems(t *testing.T) {
	b := writeMenu(t,
		[]string{"id", "name", "price", "image", "description"},
		[][]string{
			{"1", "Burger", "25,00 €", "/static/burger.jpg", "with salad"},
			{"x", "Broken", "", "", ""},
		})
	items, err := NewWorkbookRepo(b).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items=%d, want 2", len(items))
	}
	if items[0].ID != 1 || items[0].Name != "Burger" || !items[0].Price.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("item 0: %+v", items[0])
	}
	// unparsable id coerces to 0, it is not an error
	if items[1].ID != 0 || !items[1].Price.IsZero() {
		t.Fatalf("item 1: %+v", items[1])
	}
}

func TestListHealsMissingDescription(t *testing.T) {
	b := writeMenu(t,
		[]string{"id", "name", "price", "image"},
		[][]string{{"1", "Burger", "25", "/static/burger.jpg"}})

	repo := NewWorkbookRepo(b)
	items, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if items[0].Description != "" {
		t.Fatalf("description should default empty, got %q", items[0].Description)
	}

	// the healed column must now be persisted in the file itself
	b.Lock()
	sheets, err := b.ReadAll()
	b.Unlock()
	if err != nil {
		t.Fatalf("reread: %v", err)
	}
	if sheets[0].Col("description") < 0 {
		t.Fatalf("description column not written back: %v", sheets[0].Header)
	}
}

func TestListMissingRequiredColumns(t *testing.T) {
	b := writeMenu(t, []string{"id", "name"}, nil)
	_, err := NewWorkbookRepo(b).List(context.Background())
	if !errors.Is(err, ErrBadSchema) {
		t.Fatalf("err=%v, want ErrBadSchema", err)
	}
}

func TestListMissingFile(t *testing.T) {
	b := workbook.New(filepath.Join(t.TempDir(), "missing.xlsx"))
	_, err := NewWorkbookRepo(b).List(context.Background())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v, want ErrNotFound", err)
	}
}
