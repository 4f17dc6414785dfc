package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopfront/internal/database"
	"shopfront/internal/models"
	"shopfront/internal/obs"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductStore is the full product repository used by the catalog and the admin panel.
type ProductStore interface {
	ProductLookup
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

// CatalogService, ürün listeleme ve admin ürün yönetimini sağlar.
type CatalogService struct {
	store ProductStore
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(store ProductStore) *CatalogService {
	return &CatalogService{store: store}
}

// List returns every product.
func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	return s.store.GetAllProducts(ctx)
}

// ByName returns the product with exactly this name.
func (s *CatalogService) ByName(ctx context.Context, name string) (*models.Product, error) {
	p, err := s.store.GetProductByName(ctx, name)
	if isNotFound(err) {
		return nil, fmt.Errorf("product %q: %w", name, ErrNotFound)
	}
	return p, err
}

// ByID parses rawID and returns the product. Unparsable ids are reported as not found.
func (s *CatalogService) ByID(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", rawID, ErrNotFound)
	}
	p, err := s.store.GetProductByID(ctx, id)
	if isNotFound(err) {
		return nil, fmt.Errorf("product %d: %w", id, ErrNotFound)
	}
	return p, err
}

// Save creates a product when form.ProductID is empty and updates it otherwise.
func (s *CatalogService) Save(ctx context.Context, form models.ProductForm) (*models.Product, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}

	price, err := decimal.NewFromString(strings.TrimSpace(form.Price))
	if err != nil {
		return nil, fmt.Errorf("%w: price must be a number", ErrValidation)
	}
	if price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	price = price.Round(2)

	var product *models.Product
	if form.ProductID == "" {
		product = &models.Product{Name: name, Price: price}
		err = s.store.CreateProduct(ctx, product)
	} else {
		product, err = s.ByID(ctx, form.ProductID)
		if err != nil {
			return nil, err
		}
		product.Name = name
		product.Price = price
		err = s.store.UpdateProduct(ctx, product)
	}

	switch {
	case errors.Is(err, database.ErrDuplicate):
		return nil, fmt.Errorf("%w: a product named %q already exists", ErrValidation, name)
	case isNotFound(err):
		return nil, fmt.Errorf("product %s: %w", form.ProductID, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("save product: %w", err)
	}

	obs.Logger.Info("product saved", zap.Int64("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// Delete removes the product with rawID.
func (s *CatalogService) Delete(ctx context.Context, rawID string) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return fmt.Errorf("product %q: %w", rawID, ErrNotFound)
	}
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("product %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete product: %w", err)
	}

	obs.Logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}
