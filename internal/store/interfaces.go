package store

import (
	"context"

	"inventory-service/internal/domain"
)

// CategoryStorer defines the store operations for categories.
type CategoryStorer interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ProductStorer defines the store operations for products. A product and its
// inventory record are created and deleted as one unit.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// TransactionStorer defines the ledger operations. RecordTransaction is the
// single write path for inventory quantities: it validates the movement,
// appends the ledger row and adjusts the product's inventory counter as one
// atomic unit. DeleteTransaction reverses a recorded movement the same way.
type TransactionStorer interface {
	RecordTransaction(ctx context.Context, tx *domain.Transaction) (*domain.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context) ([]domain.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// InventoryReporter defines the read-only reporting queries. These never
// mutate state and go through the same store as everything else.
type InventoryReporter interface {
	GetInventoryStats(ctx context.Context) (*domain.InventoryStats, error)
	GetLowStockProducts(ctx context.Context, threshold int) ([]domain.LowStockProduct, error)
	GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error)
	GetTransactionsSummary(ctx context.Context) (*domain.TransactionsSummary, error)
}
