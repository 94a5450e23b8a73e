package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"
)

// Predefined errors for store operations
var (
	ErrCategoryNotFound       = errors.New("store: category not found")
	ErrCategoryNameExists     = errors.New("store: category name already exists")
	ErrCategoryHasProducts    = errors.New("store: category has associated products")
	ErrProductNotFound        = errors.New("store: product not found")
	ErrProductSKUExists       = errors.New("store: product SKU already exists")
	ErrTransactionNotFound    = errors.New("store: transaction not found")
	ErrInvalidTransactionType = errors.New("store: invalid transaction type, use ENTRY or EXIT")
	ErrInvalidQuantity        = errors.New("store: quantity must be greater than 0")
	ErrInsufficientStock      = errors.New("store: insufficient stock")
)

// InsufficientStockError reports an EXIT that would overdraw a product's
// stock, carrying the quantity currently available. It matches
// ErrInsufficientStock under errors.Is.
type InsufficientStockError struct {
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("store: insufficient stock, available: %d", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// PostgresStore implements the CategoryStorer, ProductStorer,
// TransactionStorer and InventoryReporter interfaces using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// schemaStatements creates the inventory tables. CHECK constraints back up
// the invariants the store enforces in code: quantity never below zero,
// ledger quantities strictly positive, restricted category deletes.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id          VARCHAR(36) PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT categories_name_key UNIQUE (name)
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id          VARCHAR(36) PRIMARY KEY,
		name        VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		sku         VARCHAR(100) NOT NULL,
		price       NUMERIC(12,2) NOT NULL CHECK (price >= 0),
		category_id VARCHAR(36) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT products_sku_key UNIQUE (sku),
		CONSTRAINT products_category_id_fkey
			FOREIGN KEY (category_id) REFERENCES categories (id) ON DELETE RESTRICT
	);`,
	`CREATE TABLE IF NOT EXISTS inventory (
		id           VARCHAR(36) PRIMARY KEY,
		product_id   VARCHAR(36) NOT NULL,
		quantity     INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		last_updated TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT inventory_product_id_key UNIQUE (product_id),
		CONSTRAINT inventory_product_id_fkey
			FOREIGN KEY (product_id) REFERENCES products (id)
	);`,
	`CREATE TABLE IF NOT EXISTS transactions (
		id         VARCHAR(36) PRIMARY KEY,
		product_id VARCHAR(36) NOT NULL,
		type       VARCHAR(20) NOT NULL CHECK (type IN ('ENTRY', 'EXIT')),
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		reason     VARCHAR(255) NOT NULL DEFAULT '',
		notes      TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT transactions_product_id_fkey
			FOREIGN KEY (product_id) REFERENCES products (id)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_transactions_product_id ON transactions (product_id);`,
	`CREATE INDEX IF NOT EXISTS idx_products_category_id ON products (category_id);`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
// Called once at startup.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: EnsureSchema failed to execute statement: %w", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a PostgreSQL unique violation on
// the named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return strings.Contains(pqErr.Constraint, constraint) || strings.Contains(pqErr.Detail, constraint)
	}
	return false
}

// isForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation on the named constraint.
func isForeignKeyViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return strings.Contains(pqErr.Constraint, constraint)
	}
	return false
}

func (s *PostgresStore) Close() error {
	if s.db != nil {
		log.Println("INFO: Closing database connection pool...")
		if err := s.db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database connection pool: %v", err)
			return err
		}
		log.Println("INFO: Database connection pool closed successfully.")
	}
	return nil
}
