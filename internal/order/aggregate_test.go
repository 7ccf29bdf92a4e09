package order

import (
	"testing"
)

func TestAggregateTotals(t *testing.T) {
	lines := []Line{
		{UserID: 1, UserName: "Anna", FoodID: 2, FoodName: "Fries", Quantity: 2, Price: dec("10"), Subtotal: dec("20")},
		{UserID: 1, UserName: "Anna", FoodID: 3, FoodName: "Cola", Quantity: 1, Price: dec("5"), Subtotal: dec("5")},
	}
	got := Aggregate(lines, nil, nil)
	if len(got) != 1 {
		t.Fatalf("groups=%d, want 1", len(got))
	}
	if !got[0].Total.Equal(dec("25")) {
		t.Fatalf("total=%s, want 25", got[0].Total)
	}
	if len(got[0].Items) != 2 {
		t.Fatalf("items=%d, want 2", len(got[0].Items))
	}
}

func TestAggregateSortsByUserID(t *testing.T) {
	lines := []Line{
		{UserID: 7, FoodID: 1, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
		{UserID: 2, FoodID: 1, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
	}
	got := Aggregate(lines, nil, nil)
	if len(got) != 2 || got[0].UserID != 2 || got[1].UserID != 7 {
		t.Fatalf("unexpected group order: %+v", got)
	}
}

func TestAggregateExcludesInvalidRows(t *testing.T) {
	lines := []Line{
		{UserID: 0, FoodID: 2, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
		{UserID: 1, FoodID: 0, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
	}
	if got := Aggregate(lines, nil, nil); len(got) != 0 {
		t.Fatalf("invalid rows leaked into aggregation: %+v", got)
	}
}

func TestAggregateNameResolution(t *testing.T) {
	names := map[int]string{2: "Bob"}
	lines := []Line{
		{UserID: 1, UserName: "Anna", FoodID: 5, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
		{UserID: 2, UserName: "User2", FoodID: 5, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
		{UserID: 3, UserName: "", FoodID: 5, Quantity: 1, Price: dec("1"), Subtotal: dec("1")},
	}
	got := Aggregate(lines, names, nil)
	want := []string{"Anna", "Bob", "User3"}
	for i, w := range want {
		if got[i].UserName != w {
			t.Fatalf("group %d name=%q, want %q", i, got[i].UserName, w)
		}
	}
}

func TestAggregateFoodNameFallback(t *testing.T) {
	menu := map[int]MenuRef{5: {Name: "Burger", Price: dec("25")}}
	lines := []Line{
		{UserID: 1, FoodID: 5, Quantity: 1, Price: dec("25"), Subtotal: dec("25")},
		{UserID: 1, FoodID: 9, Quantity: 1, Price: dec("2"), Subtotal: dec("2")},
	}
	got := Aggregate(lines, nil, menu)
	items := got[0].Items
	if items[0].FoodName != "Burger" || items[1].FoodName != "Food9" {
		t.Fatalf("food names: %q, %q", items[0].FoodName, items[1].FoodName)
	}
}

func TestAggregateRecomputesZeroSubtotal(t *testing.T) {
	lines := []Line{
		{UserID: 1, FoodID: 5, FoodName: "Burger", Quantity: 2, Price: dec("25")},
	}
	got := Aggregate(lines, nil, nil)
	if !got[0].Items[0].Subtotal.Equal(dec("50")) || !got[0].Total.Equal(dec("50")) {
		t.Fatalf("subtotal=%s total=%s, want 50", got[0].Items[0].Subtotal, got[0].Total)
	}
}

func TestForUserNoLines(t *testing.T) {
	items, total := ForUser(nil, 42, nil)
	if len(items) != 0 || !total.IsZero() {
		t.Fatalf("expected empty result, got items=%d total=%s", len(items), total)
	}
}
