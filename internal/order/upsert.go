package order

import (
	"log"

	"github.com/shopspring/decimal"
)

func intDec(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

// Upsert applies a batch of add-requests for one user. A request whose
// (user_id, food_id) already has a row increments that row's quantity and
// recomputes the subtotal; denormalized name/price are overwritten with the
// request's values (last write wins). Otherwise a new row is appended.
// Requests without a positive food id and quantity are skipped, not errors.
// Returns the new table, the sum of accepted request subtotals, and the
// number of accepted requests. On pre-existing duplicate rows the first one
// in table order is the one updated.
func Upsert(lines []Line, userID int, userName string, reqs []Request) ([]Line, decimal.Decimal, int) {
	total := decimal.Zero
	accepted := 0
	for _, req := range reqs {
		if req.FoodID <= 0 || req.Quantity <= 0 {
			log.Printf("[orders] skipping invalid item: food_id=%d quantity=%d", req.FoodID, req.Quantity)
			continue
		}
		subtotal := req.Price.Mul(intDec(req.Quantity))
		total = total.Add(subtotal)
		accepted++

		if i := findLine(lines, userID, req.FoodID); i >= 0 {
			lines[i].Quantity += req.Quantity
			lines[i].Subtotal = req.Price.Mul(intDec(lines[i].Quantity))
			lines[i].FoodName = req.FoodName
			lines[i].Price = req.Price
			continue
		}
		lines = append(lines, Line{
			UserID:   userID,
			UserName: userName,
			FoodID:   req.FoodID,
			FoodName: req.FoodName,
			Quantity: req.Quantity,
			Price:    req.Price,
			Subtotal: subtotal,
		})
	}
	return lines, total, accepted
}

// Edit applies replace-quantity semantics for one user: quantity <= 0
// deletes every row for that food, otherwise the first matching row gets the
// new quantity, the caller's name/price, and subtotal price*quantity.
// A request for a food the user never ordered is skipped. Returns the new
// table and the number of rows actually changed.
func Edit(lines []Line, userID int, reqs []Request) ([]Line, int) {
	changed := 0
	for _, req := range reqs {
		if req.FoodID <= 0 {
			continue
		}
		i := findLine(lines, userID, req.FoodID)
		if i < 0 {
			log.Printf("[orders] edit target not found: user_id=%d food_id=%d", userID, req.FoodID)
			continue
		}
		if req.Quantity <= 0 {
			lines = deleteLines(lines, userID, req.FoodID)
		} else {
			lines[i].Quantity = req.Quantity
			lines[i].Subtotal = req.Price.Mul(intDec(req.Quantity))
			lines[i].FoodName = req.FoodName
			lines[i].Price = req.Price
		}
		changed++
	}
	return lines, changed
}

// ApplyChanges is the cross-user replace-quantity variant without a caller
// price: quantity <= 0 deletes the matching rows; otherwise every row of the
// (user_id, food_id) group is collapsed into one row with the new quantity,
// keeping the first row's name and price. Unmatched changes are skipped.
func ApplyChanges(lines []Line, changes []Change) []Line {
	for _, ch := range changes {
		i := findLine(lines, ch.UserID, ch.FoodID)
		if ch.Quantity <= 0 {
			lines = deleteLines(lines, ch.UserID, ch.FoodID)
			continue
		}
		if i < 0 {
			continue
		}
		row := lines[i]
		row.Quantity = ch.Quantity
		row.Subtotal = row.Price.Mul(intDec(ch.Quantity))
		lines = append(deleteLines(lines, ch.UserID, ch.FoodID), row)
	}
	return lines
}

func findLine(lines []Line, userID, foodID int) int {
	for i, l := range lines {
		if l.UserID == userID && l.FoodID == foodID {
			return i
		}
	}
	return -1
}

func deleteLines(lines []Line, userID, foodID int) []Line {
	out := lines[:0]
	for _, l := range lines {
		if l.UserID == userID && l.FoodID == foodID {
			continue
		}
		out = append(out, l)
	}
	return out
}
