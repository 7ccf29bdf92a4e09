package order

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kantine-app/kantine/internal/menu"
)

// memRepo implements Repository in memory.
type memRepo struct {
	snap  Snapshot
	saved int
}

func (m *memRepo) Read(ctx context.Context) (*Snapshot, error) {
	cp := m.snap
	cp.Lines = append([]Line(nil), m.snap.Lines...)
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, fn func(*Snapshot) error) error {
	cp := m.snap
	cp.Lines = append([]Line(nil), m.snap.Lines...)
	if err := fn(&cp); err != nil {
		return err
	}
	m.snap = cp
	m.saved++
	return nil
}

type menuStub struct {
	items []menu.Item
	err   error
}

func (s *menuStub) List(ctx context.Context) ([]menu.Item, error) { return s.items, s.err }

func TestServiceSaveBatchRegistersUserOnFirstOrder(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &menuStub{}, "")

	total, err := svc.SaveBatch(context.Background(), 1, []Request{
		{FoodID: 2, FoodName: "Fries", Quantity: 2, Price: dec("10")},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !total.Equal(dec("20")) {
		t.Fatalf("total=%s, want 20", total)
	}
	if len(repo.snap.Users) != 1 || repo.snap.Users[0].ID != 1 || repo.snap.Users[0].Name != "User1" {
		t.Fatalf("user not registered: %+v", repo.snap.Users)
	}
}

func TestServiceSaveBatchAllInvalidWritesNothing(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &menuStub{}, "")

	_, err := svc.SaveBatch(context.Background(), 1, []Request{{FoodID: 0, Quantity: 2}})
	if !errors.Is(err, ErrNoValidItems) {
		t.Fatalf("err=%v, want ErrNoValidItems", err)
	}
	if repo.saved != 0 {
		t.Fatal("workbook written despite rejected batch")
	}
}

func TestServiceSaveBatchPrefersCSVName(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "users.csv")
	if err := os.WriteFile(csvPath, []byte("id,name\n1,Anna\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	repo := &memRepo{}
	svc := NewService(repo, &menuStub{}, csvPath)

	if _, err := svc.SaveBatch(context.Background(), 1, []Request{
		{FoodID: 2, FoodName: "Fries", Quantity: 1, Price: dec("10")},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if repo.snap.Lines[0].UserName != "Anna" {
		t.Fatalf("user_name=%q, want Anna from csv", repo.snap.Lines[0].UserName)
	}
}

func TestServiceSaveBatchHealsFromMenu(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &menuStub{items: []menu.Item{
		{ID: 2, Name: "Fries", Price: dec("12")},
	}}, "")

	// no name and no price supplied: the heal pass derives both from the
	// menu, but the batch total reflects only the accepted request subtotal
	total, err := svc.SaveBatch(context.Background(), 1, []Request{{FoodID: 2, Quantity: 2}})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !total.IsZero() {
		t.Fatalf("total=%s, want 0", total)
	}
	got := repo.snap.Lines[0]
	if got.FoodName != "Fries" || !got.Price.Equal(dec("12")) || !got.Subtotal.Equal(dec("24")) {
		t.Fatalf("heal did not backfill: %+v", got)
	}
}

func TestServiceEditBatchUnknownUser(t *testing.T) {
	repo := &memRepo{}
	svc := NewService(repo, &menuStub{}, "")

	_, err := svc.EditBatch(context.Background(), 42, []Request{{FoodID: 2, Quantity: 1}})
	if !errors.Is(err, ErrNoOrders) {
		t.Fatalf("err=%v, want ErrNoOrders", err)
	}
}

func TestServiceFixStructureMergesAndPersists(t *testing.T) {
	repo := &memRepo{snap: Snapshot{Lines: []Line{
		{UserID: 1, FoodID: 2, FoodName: "Fries", Quantity: 2, Price: dec("10"), Subtotal: dec("20")},
		{UserID: 1, FoodID: 2, FoodName: "Fries", Quantity: 3, Price: dec("10"), Subtotal: dec("30")},
		{UserID: 1, FoodID: 0, Quantity: 9},
	}}}
	svc := NewService(repo, &menuStub{err: menu.ErrNotFound}, "")

	if err := svc.FixStructure(context.Background()); err != nil {
		t.Fatalf("fix: %v", err)
	}
	sameLines(t, repo.snap.Lines, []Line{
		{UserID: 1, FoodID: 2, FoodName: "Fries", Quantity: 5, Price: dec("10"), Subtotal: dec("50")},
	})
}

func TestServiceUserOrdersEmpty(t *testing.T) {
	svc := NewService(&memRepo{}, &menuStub{}, "")
	items, total, err := svc.UserOrders(context.Background(), 7)
	if err != nil {
		t.Fatalf("user orders: %v", err)
	}
	if len(items) != 0 || !total.IsZero() {
		t.Fatalf("want empty result, got items=%d total=%s", len(items), total)
	}
}
