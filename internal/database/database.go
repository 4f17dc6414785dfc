package database

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"shopfront/internal/models"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound is returned when a row with the requested key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique column already holds the value.
	ErrDuplicate = errors.New("record already exists")
)

// timeLayout matches the timestamp format the shop has always written.
const timeLayout = "2006-01-02 15:04:05"

// SQLDatabase, SQLite üzerinde ürün, sipariş ve admin kayıtlarını yönetir.
type SQLDatabase struct {
	db *sql.DB
}

// NewDatabase opens (or creates) the SQLite database at path. Use ":memory:" for tests.
func NewDatabase(path string) (*SQLDatabase, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; ":memory:" databases are also per-connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLDatabase{db: db}, nil
}

// RunMigrations applies the embedded schema migrations.
func (d *SQLDatabase) RunMigrations() error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not open migration source: %w", err)
	}

	driver, err := sqlite.WithInstance(d.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// Close closes the underlying connection pool.
func (d *SQLDatabase) Close() error {
	return d.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

// --- Product Functions ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var (
		p                    models.Product
		price                string
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("product %d has invalid price %q: %w", p.ID, price, err)
	}
	p.Price = d

	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("product %d created_at: %w", p.ID, err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("product %d updated_at: %w", p.ID, err)
	}
	return &p, nil
}

const productColumns = `id, name, price, created_at, updated_at`

// GetAllProducts, tüm ürünleri ID sırasına göre döndürür.
func (d *SQLDatabase) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT `+productColumns+` FROM product ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

// GetProductByID, belirli bir ID'ye sahip ürünü döndürür.
func (d *SQLDatabase) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM product WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return p, nil
}

// GetProductByName looks a product up by its exact name.
func (d *SQLDatabase) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	row := d.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM product WHERE name = ?`, name)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by name: %w", err)
	}
	return p, nil
}

// CreateProduct, yeni bir ürün oluşturur ve ID'sini atar.
func (d *SQLDatabase) CreateProduct(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := d.db.ExecContext(ctx,
		`INSERT INTO product (name, price, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		product.Name, product.Price.StringFixed(2), formatTime(now), formatTime(now))
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert product id: %w", err)
	}
	product.ID = id
	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

// UpdateProduct, mevcut bir ürünün adını ve fiyatını günceller.
func (d *SQLDatabase) UpdateProduct(ctx context.Context, product *models.Product) error {
	now := time.Now().UTC().Truncate(time.Second)
	res, err := d.db.ExecContext(ctx,
		`UPDATE product SET name = ?, price = ?, updated_at = ? WHERE id = ?`,
		product.Name, product.Price.StringFixed(2), formatTime(now), product.ID)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	product.UpdatedAt = now
	return nil
}

// DeleteProduct, belirli bir ID'ye sahip ürünü siler.
func (d *SQLDatabase) DeleteProduct(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM product WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Order Functions ---

// CreateOrder persists a single order row and assigns its ID.
func (d *SQLDatabase) CreateOrder(ctx context.Context, order *models.Order) error {
	productsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return fmt.Errorf("failed to marshal order products: %w", err)
	}

	if order.TimestampCreated.IsZero() {
		order.TimestampCreated = time.Now()
	}
	order.TimestampCreated = order.TimestampCreated.UTC().Truncate(time.Second)

	res, err := d.db.ExecContext(ctx,
		`INSERT INTO orders (timestamp_created, email, products) VALUES (?, ?, ?)`,
		formatTime(order.TimestampCreated), order.Email, string(productsJSON))
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert order id: %w", err)
	}
	order.ID = id
	return nil
}

// GetOrderByID returns the order with the given id or ErrNotFound.
func (d *SQLDatabase) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var (
		order        models.Order
		created      string
		productsJSON string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, timestamp_created, email, products FROM orders WHERE id = ?`, id).
		Scan(&order.ID, &created, &order.Email, &productsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	if order.TimestampCreated, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("order %d timestamp: %w", id, err)
	}
	if err := json.Unmarshal([]byte(productsJSON), &order.Products); err != nil {
		return nil, fmt.Errorf("unmarshal order products: %w", err)
	}
	return &order, nil
}

// CountOrders returns the number of persisted orders.
func (d *SQLDatabase) CountOrders(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// --- Admin User Functions ---

// GetAdminByUsername, kullanıcı adına göre admin kullanıcısını döndürür.
func (d *SQLDatabase) GetAdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var (
		u       models.AdminUser
		created string
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT id, username, password, created_at FROM admin_user WHERE username = ?`, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query admin user: %w", err)
	}
	if u.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("admin user %d created_at: %w", u.ID, err)
	}
	return &u, nil
}

// SaveAdminUser inserts the admin user, or replaces the password hash when the username exists.
func (d *SQLDatabase) SaveAdminUser(ctx context.Context, user *models.AdminUser) error {
	now := time.Now().UTC().Truncate(time.Second)
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO admin_user (username, password, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET password = excluded.password`,
		user.Username, user.PasswordHash, formatTime(now))
	if err != nil {
		return fmt.Errorf("save admin user: %w", err)
	}

	saved, err := d.GetAdminByUsername(ctx, user.Username)
	if err != nil {
		return err
	}
	*user = *saved
	return nil
}
