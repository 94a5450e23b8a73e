package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"inventory-service/internal/domain"
)

// --- CategoryStorer Implementation ---

func (s *PostgresStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_at, updated_at;
	`
	row := s.db.QueryRowContext(ctx, query, uuid.NewString(), category.Name, category.Description)

	var created domain.Category
	err := row.Scan(
		&created.ID,
		&created.Name,
		&created.Description,
		&created.CreatedAt,
		&created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "categories_name_key") {
			return nil, ErrCategoryNameExists
		}
		return nil, fmt.Errorf("store: CreateCategory failed to scan row: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, COUNT(p.id), c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		GROUP BY c.id
		ORDER BY c.name ASC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.ProductCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}

	return categories, nil
}

func (s *PostgresStore) GetCategoryByID(ctx context.Context, id string) (*domain.Category, error) {
	query := `
		SELECT c.id, c.name, c.description, COUNT(p.id), c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN products p ON p.category_id = c.id
		WHERE c.id = $1
		GROUP BY c.id;
	`
	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Name,
		&category.Description,
		&category.ProductCount,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategoryByID failed to scan row: %w", err)
	}
	return &category, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, description = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING id, name, description, created_at, updated_at;
	`
	var updated domain.Category
	err := s.db.QueryRowContext(ctx, query, category.Name, category.Description, category.ID).Scan(
		&updated.ID,
		&updated.Name,
		&updated.Description,
		&updated.CreatedAt,
		&updated.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		if isUniqueViolation(err, "categories_name_key") {
			return nil, ErrCategoryNameExists
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to scan row: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM products WHERE category_id = $1;`
	if err := s.db.QueryRowContext(ctx, countQuery, updated.ID).Scan(&updated.ProductCount); err != nil {
		return nil, fmt.Errorf("store: UpdateCategory failed to count products: %w", err)
	}
	return &updated, nil
}

// DeleteCategory removes a category. The RESTRICT foreign key on
// products.category_id blocks the delete while products still reference it.
func (s *PostgresStore) DeleteCategory(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err, "products_category_id_fkey") {
			return ErrCategoryHasProducts
		}
		return fmt.Errorf("store: DeleteCategory failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// --- ProductStorer Implementation ---

const productSelectQuery = `
	SELECT p.id, p.name, p.description, p.sku, p.price, p.category_id, p.created_at, p.updated_at,
		i.id, i.quantity, i.last_updated,
		c.name, c.description, c.created_at, c.updated_at,
		(SELECT COUNT(*) FROM products WHERE category_id = p.category_id)
	FROM products p
	JOIN inventory i ON i.product_id = p.id
	JOIN categories c ON c.id = p.category_id
`

// scanProduct scans one row of productSelectQuery into a Product with its
// nested Inventory and Category.
func scanProduct(row interface{ Scan(...interface{}) error }) (*domain.Product, error) {
	var (
		p   domain.Product
		inv domain.Inventory
		cat domain.Category
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
		&inv.ID, &inv.Quantity, &inv.LastUpdated,
		&cat.Name, &cat.Description, &cat.CreatedAt, &cat.UpdatedAt,
		&cat.ProductCount,
	)
	if err != nil {
		return nil, err
	}
	inv.ProductID = p.ID
	cat.ID = p.CategoryID
	p.Inventory = &inv
	p.Category = &cat
	return &p, nil
}

// CreateProduct inserts the product and its zero-quantity inventory record in
// one transaction, after verifying the category exists. Every product has
// exactly one inventory record for its entire lifetime.
func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var categoryExists bool
	checkQuery := `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1);`
	if err := tx.QueryRowContext(ctx, checkQuery, product.CategoryID).Scan(&categoryExists); err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to check category: %w", err)
	}
	if !categoryExists {
		return nil, ErrCategoryNotFound
	}

	created := *product
	created.ID = uuid.NewString()
	insertProduct := `
		INSERT INTO products (id, name, description, sku, price, category_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at;
	`
	err = tx.QueryRowContext(ctx, insertProduct,
		created.ID, created.Name, created.Description, created.SKU, created.Price, created.CategoryID,
	).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "products_sku_key") {
			return nil, ErrProductSKUExists
		}
		// The category can vanish between the existence check and the insert.
		if isForeignKeyViolation(err, "products_category_id_fkey") {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}

	inv := domain.Inventory{
		ID:        uuid.NewString(),
		ProductID: created.ID,
		Quantity:  0,
	}
	insertInventory := `
		INSERT INTO inventory (id, product_id, quantity)
		VALUES ($1, $2, 0)
		RETURNING last_updated;
	`
	if err := tx.QueryRowContext(ctx, insertInventory, inv.ID, inv.ProductID).Scan(&inv.LastUpdated); err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to create inventory record: %w", err)
	}
	created.Inventory = &inv

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: CreateProduct failed to commit transaction: %w", err)
	}
	return &created, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := productSelectQuery + ` ORDER BY p.created_at DESC, p.id DESC;`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}

	return products, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	query := productSelectQuery + ` WHERE p.id = $1;`
	product, err := scanProduct(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return product, nil
}

// UpdateProduct updates the mutable product fields. SKU is intentionally not
// updatable: it is the product's business key.
func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, category_id = $4, updated_at = CURRENT_TIMESTAMP
		WHERE id = $5;
	`
	result, err := s.db.ExecContext(ctx, query,
		product.Name, product.Description, product.Price, product.CategoryID, product.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err, "products_category_id_fkey") {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("store: UpdateProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	return s.GetProductByID(ctx, product.ID)
}

// DeleteProduct removes the product, its inventory record and all its
// transactions as one unit.
func (s *PostgresStore) DeleteProduct(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE product_id = $1;`, id); err != nil {
		return fmt.Errorf("store: DeleteProduct failed to delete transactions: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM inventory WHERE product_id = $1;`, id); err != nil {
		return fmt.Errorf("store: DeleteProduct failed to delete inventory record: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM products WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: DeleteProduct failed to commit transaction: %w", err)
	}
	return nil
}
