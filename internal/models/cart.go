package models

import "github.com/shopspring/decimal"

// CartRow is one display row of an aggregated cart.
type CartRow struct {
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// CartSummary is a cart folded against the catalog.
// Rows follow the order in which each product first appeared in the cart.
type CartSummary struct {
	Products map[string]LineTotal `json:"products"`
	Rows     []CartRow            `json:"rows"`
	Total    decimal.Decimal      `json:"total"`
	// Skipped counts cart entries whose product could not be found.
	Skipped int `json:"skipped"`
}

// AddToCartResponse is the JSON body returned by the add-to-cart endpoint.
type AddToCartResponse struct {
	Success   bool `json:"success"`
	CartItems int  `json:"cart_items"`
}
