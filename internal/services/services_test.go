package services

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"shopfront/internal/database"
	"shopfront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *database.SQLDatabase {
	t.Helper()
	db, err := database.NewDatabase(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

// seedProducts inserts name/price pairs and returns the ids as cart strings, keyed by name.
func seedProducts(t *testing.T, db *database.SQLDatabase, prices map[string]string) map[string]string {
	t.Helper()
	ids := make(map[string]string, len(prices))
	for name, price := range prices {
		p := &models.Product{Name: name, Price: decimal.RequireFromString(price)}
		require.NoError(t, db.CreateProduct(context.Background(), p))
		ids[name] = strconv.FormatInt(p.ID, 10)
	}
	return ids
}

type recordingNotifier struct {
	mu     sync.Mutex
	orders []models.Order
}

func (n *recordingNotifier) NotifyOrderConfirmed(order models.Order) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.orders = append(n.orders, order)
}

func (n *recordingNotifier) sent() []models.Order {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]models.Order{}, n.orders...)
}

// failingProducts fails every lookup with a storage error.
type failingProducts struct{}

func (failingProducts) GetProductByID(context.Context, int64) (*models.Product, error) {
	return nil, errors.New("disk on fire")
}

// memoryOrders is an OrderStore whose rows can be removed behind the service's back.
type memoryOrders struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Order
	err    error
}

func newMemoryOrders() *memoryOrders {
	return &memoryOrders{rows: make(map[int64]models.Order)}
}

func (m *memoryOrders) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	order.ID = m.nextID
	m.rows[order.ID] = *order
	return nil
}

func (m *memoryOrders) GetOrderByID(_ context.Context, id int64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.rows[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &o, nil
}

func (m *memoryOrders) CountOrders(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows), nil
}

func (m *memoryOrders) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, id)
}
