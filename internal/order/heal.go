package order

import (
	"log"

	"github.com/kantine-app/kantine/internal/user"
)

// Heal normalizes an order table that may carry stale spreadsheet state:
//   - rows without a real food id are dropped,
//   - user names are backfilled from the directory wherever the stored name
//     is empty or the synthesized placeholder,
//   - food name and unit price are backfilled from the menu wherever
//     empty or zero,
//   - a zero subtotal is recomputed as price*quantity when both are positive,
//   - rows sharing (user_id, food_id) are merged.
//
// Column presence and type coercion are already handled by the decoder, so
// Heal is a pure table-to-table pass and idempotent.
func Heal(lines []Line, names map[int]string, menu map[int]MenuRef) []Line {
	healed := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.FoodID <= 0 {
			continue
		}
		if l.UserName == "" || l.UserName == user.Placeholder(l.UserID) {
			if n, ok := names[l.UserID]; ok {
				l.UserName = n
			}
		}
		if ref, ok := menu[l.FoodID]; ok {
			if l.FoodName == "" {
				l.FoodName = ref.Name
			}
			if l.Price.IsZero() {
				l.Price = ref.Price
			}
		}
		if l.Subtotal.IsZero() && l.Price.IsPositive() && l.Quantity > 0 {
			l.Subtotal = l.Price.Mul(intDec(l.Quantity))
		}
		healed = append(healed, l)
	}
	if dropped := len(lines) - len(healed); dropped > 0 {
		log.Printf("[orders] heal removed %d invalid rows", dropped)
	}
	return MergeDuplicates(healed)
}

// MergeDuplicates collapses groups of rows sharing (user_id, food_id) into
// one row per group: the group's first row is the representative, quantities
// are summed, and the subtotal is price*sum. Merged rows move to the end of
// the table. Running it twice changes nothing.
func MergeDuplicates(lines []Line) []Line {
	type key struct{ userID, foodID int }

	counts := make(map[key]int, len(lines))
	for _, l := range lines {
		counts[key{l.UserID, l.FoodID}]++
	}

	out := make([]Line, 0, len(lines))
	merged := make(map[key]*Line)
	var mergedOrder []key
	for _, l := range lines {
		k := key{l.UserID, l.FoodID}
		if counts[k] == 1 {
			out = append(out, l)
			continue
		}
		if m, ok := merged[k]; ok {
			m.Quantity += l.Quantity
			continue
		}
		cp := l
		merged[k] = &cp
		mergedOrder = append(mergedOrder, k)
	}
	for _, k := range mergedOrder {
		m := merged[k]
		m.Subtotal = m.Price.Mul(intDec(m.Quantity))
		log.Printf("[orders] merged %d rows for user=%d food=%d into quantity=%d",
			counts[k], k.userID, k.foodID, m.Quantity)
		out = append(out, *m)
	}
	return out
}
