package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/catalog_assistant/internal/models"
)

// PurchaseRepository reads and writes the purchases table. It serves as a
// purchase log provider.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// LoadPurchases returns the full purchase log in insertion order so that
// first-seen tie breaks are stable between reloads.
func (r *PurchaseRepository) LoadPurchases(ctx context.Context) ([]models.PurchaseRecord, error) {
	const q = `SELECT product_name, category FROM purchases ORDER BY id`

	var records []models.PurchaseRecord
	if err := r.db.SelectContext(ctx, &records, q); err != nil {
		return nil, fmt.Errorf("failed to load purchases: %w", err)
	}
	return records, nil
}

// InsertBatch appends purchase records in a single transaction.
func (r *PurchaseRepository) InsertBatch(ctx context.Context, records []models.PurchaseRecord) error {
	q := r.db.Rebind(`INSERT INTO purchases (product_name, category) VALUES (?, ?)`)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PreparexContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.ProductName, rec.Category); err != nil {
			return fmt.Errorf("failed to insert purchase: %w", err)
		}
	}
	return tx.Commit()
}
