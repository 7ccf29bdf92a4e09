package order

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kantine-app/kantine/internal/user"
)

// LineView is one order line on the read path, names resolved.
type LineView struct {
	FoodID   int             `json:"food_id"`
	FoodName string          `json:"food_name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// UserOrders is the aggregated read-path projection for one user.
type UserOrders struct {
	UserID   int             `json:"user_id"`
	UserName string          `json:"user_name"`
	Items    []LineView      `json:"items"`
	Total    decimal.Decimal `json:"total"`
}

// Aggregate groups order lines by user, ascending by user id. Rows with
// user_id 0 or no real food id never appear. The display name prefers the
// row's own user_name unless it is empty or the synthesized placeholder,
// then the directory, then the placeholder itself.
func Aggregate(lines []Line, names map[int]string, menu map[int]MenuRef) []UserOrders {
	grouped := make(map[int][]Line)
	for _, l := range lines {
		if l.UserID == 0 || l.FoodID <= 0 {
			continue
		}
		grouped[l.UserID] = append(grouped[l.UserID], l)
	}

	ids := make([]int, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]UserOrders, 0, len(ids))
	for _, id := range ids {
		group := grouped[id]
		items, total := views(group, menu)
		out = append(out, UserOrders{
			UserID:   id,
			UserName: resolveName(id, group[0].UserName, names),
			Items:    items,
			Total:    total,
		})
	}
	return out
}

// ForUser is the single-user variant: the user's lines plus their total.
// A user with no lines yields an empty slice and zero, not an error.
func ForUser(lines []Line, userID int, menu map[int]MenuRef) ([]LineView, decimal.Decimal) {
	var group []Line
	for _, l := range lines {
		if l.UserID == userID && l.FoodID > 0 {
			group = append(group, l)
		}
	}
	return views(group, menu)
}

func views(group []Line, menu map[int]MenuRef) ([]LineView, decimal.Decimal) {
	items := make([]LineView, 0, len(group))
	total := decimal.Zero
	for _, l := range group {
		subtotal := l.Subtotal
		if subtotal.IsZero() && l.Price.IsPositive() && l.Quantity > 0 {
			subtotal = l.Price.Mul(intDec(l.Quantity))
		}
		name := l.FoodName
		if name == "" {
			if ref, ok := menu[l.FoodID]; ok && ref.Name != "" {
				name = ref.Name
			} else {
				name = fmt.Sprintf("Food%d", l.FoodID)
			}
		}
		items = append(items, LineView{
			FoodID:   l.FoodID,
			FoodName: name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Subtotal: subtotal,
		})
		total = total.Add(subtotal)
	}
	return items, total
}

func resolveName(id int, rowName string, names map[int]string) string {
	if rowName != "" && rowName != user.Placeholder(id) {
		return rowName
	}
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return user.Placeholder(id)
}
