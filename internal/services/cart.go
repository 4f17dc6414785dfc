package services

import (
	"context"
	"fmt"
	"strconv"

	"shopfront/internal/models"
	"shopfront/internal/obs"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductLookup is the read side of the catalog the cart needs.
type ProductLookup interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
}

// CartService, sepet işlemlerini yönetir. Sepetin kendisi oturumda tutulur.
type CartService struct {
	products ProductLookup
}

// NewCartService, yeni bir CartService örneği oluşturur
func NewCartService(products ProductLookup) *CartService {
	return &CartService{products: products}
}

// Add appends productID to the cart and reports whether anything was added.
// An empty id leaves the cart unchanged. Ids are not checked against the catalog.
func (cs *CartService) Add(cart []string, productID string) ([]string, bool) {
	if productID == "" {
		return cart, false
	}
	return append(cart, productID), true
}

// Aggregate groups the cart into priced lines using current catalog prices.
// Entries whose product cannot be found are skipped and counted in Skipped.
func (cs *CartService) Aggregate(ctx context.Context, cart []string) (*models.CartSummary, error) {
	summary := &models.CartSummary{
		Products: make(map[string]models.LineTotal),
		Rows:     []models.CartRow{},
		Total:    decimal.Zero,
	}
	rowIndex := make(map[string]int)

	for _, raw := range cart {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			summary.Skipped++
			continue
		}

		product, err := cs.products.GetProductByID(ctx, id)
		if isNotFound(err) {
			summary.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lookup product %d: %w", id, err)
		}

		line := summary.Products[product.Name]
		line.Quantity++
		line.Total = line.Total.Add(product.Price)
		summary.Products[product.Name] = line

		if i, ok := rowIndex[product.Name]; ok {
			summary.Rows[i].Quantity = line.Quantity
			summary.Rows[i].TotalPrice = line.Total
		} else {
			rowIndex[product.Name] = len(summary.Rows)
			summary.Rows = append(summary.Rows, models.CartRow{
				Name:       product.Name,
				Quantity:   line.Quantity,
				TotalPrice: line.Total,
			})
		}

		summary.Total = summary.Total.Add(product.Price)
	}

	if summary.Skipped > 0 {
		obs.Logger.Warn("cart entries skipped during aggregation",
			zap.Int("skipped", summary.Skipped),
			zap.Int("cart_size", len(cart)))
	}
	return summary, nil
}
