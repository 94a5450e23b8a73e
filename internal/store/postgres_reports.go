package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"inventory-service/internal/domain"
)

// --- InventoryReporter Implementation ---
//
// Read-only aggregations over current state. Monetary totals are accumulated
// with decimal arithmetic and rounded to 2 places; summing float64 prices
// drifts on large inventories.

func (s *PostgresStore) GetInventoryStats(ctx context.Context) (*domain.InventoryStats, error) {
	stats := &domain.InventoryStats{Categories: make([]domain.CategoryStats, 0)}

	totalsQuery := `
		SELECT (SELECT COUNT(*) FROM products), COALESCE((SELECT SUM(quantity) FROM inventory), 0);
	`
	if err := s.db.QueryRowContext(ctx, totalsQuery).Scan(&stats.TotalProducts, &stats.TotalQuantity); err != nil {
		return nil, fmt.Errorf("store: GetInventoryStats failed to scan totals: %w", err)
	}

	rollupQuery := `
		SELECT c.id, c.name, c.description, p.id, p.name, p.price, i.quantity
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		LEFT JOIN inventory i ON i.product_id = p.id
		ORDER BY c.name ASC, p.name ASC;
	`
	rows, err := s.db.QueryContext(ctx, rollupQuery)
	if err != nil {
		return nil, fmt.Errorf("store: GetInventoryStats failed to query rollup: %w", err)
	}
	defer rows.Close()

	totalPrice := decimal.Zero
	for rows.Next() {
		var (
			catID, catName, catDescription string
			productID, productName         sql.NullString
			price                          decimal.NullDecimal
			quantity                       sql.NullInt64
		)
		if err := rows.Scan(&catID, &catName, &catDescription, &productID, &productName, &price, &quantity); err != nil {
			return nil, fmt.Errorf("store: GetInventoryStats failed to scan rollup row: %w", err)
		}

		if len(stats.Categories) == 0 || stats.Categories[len(stats.Categories)-1].ID != catID {
			stats.Categories = append(stats.Categories, domain.CategoryStats{
				ID:          catID,
				Name:        catName,
				Description: catDescription,
				Products:    make([]domain.ProductStat, 0),
			})
		}
		if !productID.Valid {
			continue // category with no products
		}

		cat := &stats.Categories[len(stats.Categories)-1]
		qty := int(quantity.Int64)
		cat.ProductCount++
		cat.TotalQuantity += qty
		cat.Products = append(cat.Products, domain.ProductStat{
			ID:       productID.String,
			Name:     productName.String,
			Price:    price.Decimal.InexactFloat64(),
			Quantity: qty,
		})
		totalPrice = totalPrice.Add(price.Decimal.Mul(decimal.NewFromInt(quantity.Int64)))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetInventoryStats iteration error: %w", err)
	}

	stats.TotalPrice = totalPrice.Round(2).InexactFloat64()
	return stats, nil
}

func (s *PostgresStore) GetLowStockProducts(ctx context.Context, threshold int) ([]domain.LowStockProduct, error) {
	query := `
		SELECT p.id, p.name, p.sku, i.quantity, p.price, c.name
		FROM products p
		JOIN inventory i ON i.product_id = p.id
		JOIN categories c ON c.id = p.category_id
		WHERE i.quantity < $1
		ORDER BY i.quantity ASC, p.name ASC;
	`
	rows, err := s.db.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, fmt.Errorf("store: GetLowStockProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.LowStockProduct, 0)
	for rows.Next() {
		var p domain.LowStockProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.SKU, &p.Quantity, &p.Price, &p.Category); err != nil {
			return nil, fmt.Errorf("store: GetLowStockProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetLowStockProducts iteration error: %w", err)
	}

	return products, nil
}

func (s *PostgresStore) GetInventorySummary(ctx context.Context) (*domain.InventorySummary, error) {
	summary := &domain.InventorySummary{}
	totalsQuery := `
		SELECT (SELECT COUNT(*) FROM products),
			COALESCE((SELECT SUM(quantity) FROM inventory), 0),
			(SELECT COUNT(*) FROM categories);
	`
	err := s.db.QueryRowContext(ctx, totalsQuery).Scan(
		&summary.TotalProducts, &summary.TotalItemsInStock, &summary.CategoriesCount,
	)
	if err != nil {
		return nil, fmt.Errorf("store: GetInventorySummary failed to scan totals: %w", err)
	}

	valueQuery := `
		SELECT p.price, i.quantity
		FROM products p
		JOIN inventory i ON i.product_id = p.id;
	`
	rows, err := s.db.QueryContext(ctx, valueQuery)
	if err != nil {
		return nil, fmt.Errorf("store: GetInventorySummary failed to query values: %w", err)
	}
	defer rows.Close()

	totalValue := decimal.Zero
	for rows.Next() {
		var (
			price    decimal.Decimal
			quantity int64
		)
		if err := rows.Scan(&price, &quantity); err != nil {
			return nil, fmt.Errorf("store: GetInventorySummary failed to scan value row: %w", err)
		}
		totalValue = totalValue.Add(price.Mul(decimal.NewFromInt(quantity)))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: GetInventorySummary iteration error: %w", err)
	}

	summary.TotalInventoryValue = totalValue.Round(2).InexactFloat64()
	return summary, nil
}

func (s *PostgresStore) GetTransactionsSummary(ctx context.Context) (*domain.TransactionsSummary, error) {
	query := `
		SELECT COUNT(*) FILTER (WHERE type = 'ENTRY'), COUNT(*) FILTER (WHERE type = 'EXIT')
		FROM transactions;
	`
	summary := &domain.TransactionsSummary{}
	if err := s.db.QueryRowContext(ctx, query).Scan(&summary.TotalEntries, &summary.TotalExits); err != nil {
		return nil, fmt.Errorf("store: GetTransactionsSummary failed to scan counts: %w", err)
	}
	summary.TotalTransactions = summary.TotalEntries + summary.TotalExits
	return summary, nil
}
