package models

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Product, katalogdaki bir ürünü temsil eder. Fiyat veritabanında metin olarak saklanır.
type Product struct {
	ID        int64           `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// DisplayPrice formats the price the way every shop page shows it.
func (p Product) DisplayPrice() string {
	return "£" + p.Price.StringFixed(2)
}

// IDString returns the id in the form carts and forms carry it.
func (p Product) IDString() string {
	return strconv.FormatInt(p.ID, 10)
}

// ProductForm is the admin create/edit form. An empty ProductID means create.
type ProductForm struct {
	ProductID string `form:"product_id"`
	Name      string `form:"name"`
	Price     string `form:"price"`
}
