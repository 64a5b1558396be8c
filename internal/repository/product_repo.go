package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/catalog_assistant/internal/models"
)

// ProductRepository reads and writes catalog rows in the products table.
// It serves as a catalog provider.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// LoadProducts returns every catalog row in insertion order. Columns may be
// NULL; normalization happens downstream.
func (r *ProductRepository) LoadProducts(ctx context.Context) ([]models.RawProduct, error) {
	const q = `SELECT name, brand, category, sub_category, price FROM products ORDER BY id`

	var products []models.RawProduct
	if err := r.db.SelectContext(ctx, &products, q); err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// InsertBatch stores catalog rows in a single transaction.
func (r *ProductRepository) InsertBatch(ctx context.Context, products []models.RawProduct) error {
	q := r.db.Rebind(`INSERT INTO products (name, brand, category, sub_category, price) VALUES (?, ?, ?, ?, ?)`)

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

	for _, p := range products {
		if _, err := stmt.ExecContext(ctx, p.Name, p.Brand, p.Category, p.SubCategory, p.Price); err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}
	return tx.Commit()
}
