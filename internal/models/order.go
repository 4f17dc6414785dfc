package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineTotal is the per-product aggregate persisted with an order.
type LineTotal struct {
	Total    decimal.Decimal `json:"total"`
	Quantity int             `json:"quantity"`
}

// Order is a completed checkout. Products is keyed by product name.
type Order struct {
	ID               int64                `json:"id"`
	Email            string               `json:"email"`
	TimestampCreated time.Time            `json:"timestamp_created"`
	Products         map[string]LineTotal `json:"products"`
}

// OrderForm, checkout formu verilerini temsil eder
type OrderForm struct {
	Email string `form:"email"`
}
