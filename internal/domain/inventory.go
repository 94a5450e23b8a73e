package domain

import "time"

// Transaction types. ENTRY increases a product's on-hand quantity,
// EXIT decreases it.
const (
	TransactionEntry = "ENTRY"
	TransactionExit  = "EXIT"
)

// ValidTransactionType reports whether t is a recognized transaction type.
func ValidTransactionType(t string) bool {
	return t == TransactionEntry || t == TransactionExit
}

// Category groups products. Name is unique across all categories.
// The json tags correspond to the fields expected in API responses/requests.
type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Product is an item tracked by the system. SKU is the unique business key.
// Every product has exactly one Inventory record, created with it.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SKU         string     `json:"sku"`
	Price       float64    `json:"price"`
	CategoryID  string     `json:"category_id"`
	Category    *Category  `json:"category,omitempty"`
	Inventory   *Inventory `json:"inventory,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Inventory is the current on-hand quantity for one product. It is a cached
// projection of the transaction ledger and is mutated only by the store's
// transaction-recording operations; Quantity never goes below zero.
type Inventory struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// Transaction is one stock movement in the ledger. Immutable once recorded,
// except for reversal (delete-with-rollback).
type Transaction struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Type      string    `json:"type"`
	Quantity  int       `json:"quantity"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Reporting views (read-only, derived from current state) ---

// ProductStat is the per-product line inside a category rollup.
type ProductStat struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// CategoryStats is the per-category rollup inside InventoryStats.
type CategoryStats struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	ProductCount  int           `json:"product_count"`
	TotalQuantity int           `json:"total_quantity"`
	Products      []ProductStat `json:"products"`
}

// InventoryStats is the aggregate inventory report. TotalPrice is
// sum(price * quantity) over all products, rounded to 2 decimal places.
type InventoryStats struct {
	TotalProducts int             `json:"total_products"`
	TotalQuantity int             `json:"total_quantity"`
	TotalPrice    float64         `json:"total_price"`
	Categories    []CategoryStats `json:"categories"`
}

// LowStockProduct is one row of the low-stock report.
type LowStockProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// InventorySummary is the quick totals view.
type InventorySummary struct {
	TotalProducts       int     `json:"total_products"`
	TotalItemsInStock   int     `json:"total_items_in_stock"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
	CategoriesCount     int     `json:"categories_count"`
}

// TransactionsSummary counts ledger entries by type.
type TransactionsSummary struct {
	TotalEntries      int `json:"total_entries"`
	TotalExits        int `json:"total_exits"`
	TotalTransactions int `json:"total_transactions"`
}
