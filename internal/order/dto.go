package order

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kantine-app/kantine/internal/price"
)

// Clients send ids, quantities and prices as either JSON numbers or strings,
// so the payload fields are loosely typed and coerced here. A field that
// fails coercion becomes 0 and the engine skips the item.

// SaveOrdersRequest is the POST /api/orders payload.
type SaveOrdersRequest struct {
	UserID any         `json:"user_id"`
	Items  []ItemInput `json:"items"`
}

// EditOrdersRequest is the POST /api/edit-orders payload.
type EditOrdersRequest struct {
	UserID any         `json:"user_id"`
	Items  []ItemInput `json:"items"`
}

type ItemInput struct {
	FoodID   any    `json:"food_id"`
	FoodName string `json:"food_name"`
	Price    any    `json:"price"`
	Quantity any    `json:"quantity"`
}

func (i ItemInput) Request() Request {
	id, _ := AsInt(i.FoodID)
	qty, _ := AsInt(i.Quantity)
	return Request{
		FoodID:   id,
		FoodName: i.FoodName,
		Quantity: qty,
		Price:    price.Clean(i.Price),
	}
}

// UpdateOrdersRequest is the POST /api/update-orders payload.
type UpdateOrdersRequest struct {
	Changes []ChangeInput `json:"changes"`
}

type ChangeInput struct {
	UserID   any `json:"user_id"`
	FoodID   any `json:"food_id"`
	Quantity any `json:"quantity"`
}

func (c ChangeInput) Change() Change {
	uid, _ := AsInt(c.UserID)
	fid, _ := AsInt(c.FoodID)
	qty, _ := AsInt(c.Quantity)
	return Change{UserID: uid, FoodID: fid, Quantity: qty}
}

// AsInt coerces a loosely typed JSON value to an integer.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
