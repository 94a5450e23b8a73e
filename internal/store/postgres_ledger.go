package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"inventory-service/internal/domain"
)

// --- TransactionStorer Implementation ---
//
// All inventory quantity mutations happen here and nowhere else. Each
// operation locks the product's inventory row (SELECT ... FOR UPDATE) inside
// a SQL transaction, so concurrent movements against the same product
// serialize and the invariant
//
//	inventory.quantity == sum(ENTRY.quantity) - sum(EXIT.quantity)
//
// holds under arbitrary interleaving, with quantity never below zero.

// RecordTransaction validates and applies one stock movement: append the
// ledger row and adjust the product's inventory counter as a single atomic
// unit. Validation short-circuits in order: product existence, transaction
// type, quantity, stock sufficiency for EXIT.
func (s *PostgresStore) RecordTransaction(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: RecordTransaction failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The inventory row exists iff the product exists; locking it serializes
	// concurrent movements for the same product.
	var (
		inventoryID string
		available   int
	)
	lockQuery := `SELECT id, quantity FROM inventory WHERE product_id = $1 FOR UPDATE;`
	err = tx.QueryRowContext(ctx, lockQuery, t.ProductID).Scan(&inventoryID, &available)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: RecordTransaction failed to lock inventory row: %w", err)
	}

	if !domain.ValidTransactionType(t.Type) {
		return nil, ErrInvalidTransactionType
	}
	if t.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if t.Type == domain.TransactionExit && available < t.Quantity {
		return nil, &InsufficientStockError{Available: available}
	}

	recorded := *t
	recorded.ID = uuid.NewString()
	insertQuery := `
		INSERT INTO transactions (id, product_id, type, quantity, reason, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at;
	`
	err = tx.QueryRowContext(ctx, insertQuery,
		recorded.ID, recorded.ProductID, recorded.Type, recorded.Quantity, recorded.Reason, recorded.Notes,
	).Scan(&recorded.CreatedAt, &recorded.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("store: RecordTransaction failed to append ledger row: %w", err)
	}

	delta := recorded.Quantity
	if recorded.Type == domain.TransactionExit {
		delta = -delta
	}
	updateQuery := `UPDATE inventory SET quantity = quantity + $1, last_updated = CURRENT_TIMESTAMP WHERE id = $2;`
	if _, err := tx.ExecContext(ctx, updateQuery, delta, inventoryID); err != nil {
		return nil, fmt.Errorf("store: RecordTransaction failed to update inventory counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: RecordTransaction failed to commit transaction: %w", err)
	}
	return &recorded, nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	// Newest first, id as a stable tiebreak on equal timestamps.
	query := `
		SELECT id, product_id, type, quantity, reason, notes, created_at, updated_at
		FROM transactions
		ORDER BY created_at DESC, id DESC;
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: ListTransactions failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.Reason, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: ListTransactions failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListTransactions iteration error: %w", err)
	}

	return transactions, nil
}

func (s *PostgresStore) GetTransactionByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, product_id, type, quantity, reason, notes, created_at, updated_at
		FROM transactions
		WHERE id = $1;
	`
	var t domain.Transaction
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.Reason, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("store: GetTransactionByID failed to scan row: %w", err)
	}
	return &t, nil
}

// DeleteTransaction removes a ledger row and applies the inverse quantity
// delta to the product's inventory counter, as one atomic unit. The counter
// is clamped at zero: the clamp should never fire while the ledger and the
// counter agree, so hitting it is logged as a warning.
func (s *PostgresStore) DeleteTransaction(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: DeleteTransaction failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		productID string
		txType    string
		quantity  int
	)
	selectQuery := `SELECT product_id, type, quantity FROM transactions WHERE id = $1;`
	err = tx.QueryRowContext(ctx, selectQuery, id).Scan(&productID, &txType, &quantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTransactionNotFound
		}
		return fmt.Errorf("store: DeleteTransaction failed to load transaction: %w", err)
	}

	var (
		inventoryID string
		available   int
	)
	lockQuery := `SELECT id, quantity FROM inventory WHERE product_id = $1 FOR UPDATE;`
	if err := tx.QueryRowContext(ctx, lockQuery, productID).Scan(&inventoryID, &available); err != nil {
		return fmt.Errorf("store: DeleteTransaction failed to lock inventory row: %w", err)
	}

	delta := -quantity // reversing an ENTRY subtracts
	if txType == domain.TransactionExit {
		delta = quantity // reversing an EXIT adds back
	}
	newQuantity := available + delta
	if newQuantity < 0 {
		log.Printf("WARN: DeleteTransaction clamped inventory %s to 0 (was %d, delta %d); ledger and counter disagree",
			inventoryID, available, delta)
		newQuantity = 0
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("store: DeleteTransaction failed to delete ledger row: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteTransaction failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// A concurrent delete removed the row after it was loaded; applying
		// the reversal again would double it.
		return ErrTransactionNotFound
	}
	updateQuery := `UPDATE inventory SET quantity = $1, last_updated = CURRENT_TIMESTAMP WHERE id = $2;`
	if _, err := tx.ExecContext(ctx, updateQuery, newQuantity, inventoryID); err != nil {
		return fmt.Errorf("store: DeleteTransaction failed to update inventory counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: DeleteTransaction failed to commit transaction: %w", err)
	}
	return nil
}
