package order

import "github.com/shopspring/decimal"

// Line is one order row. After reconciliation there is at most one Line per
// (user_id, food_id) pair, quantity is positive, and food_id 0 never
// survives a heal pass.
type Line struct {
	UserID   int
	UserName string
	FoodID   int
	FoodName string
	Quantity int
	Price    decimal.Decimal
	Subtotal decimal.Decimal
}

// MenuRef carries the menu fields the reconciliation core backfills from:
// the dish name and its cleaned unit price.
type MenuRef struct {
	Name  string
	Price decimal.Decimal
}

// Request is one incoming line item for the upsert and edit operations,
// already coerced to trusted types.
type Request struct {
	FoodID   int
	FoodName string
	Quantity int
	Price    decimal.Decimal
}

// Change is one replace-quantity instruction from the cross-user update
// operation. It carries no price: the existing row's price is kept.
type Change struct {
	UserID   int
	FoodID   int
	Quantity int
}
