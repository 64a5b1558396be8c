package service

import (
	"context"
	"time"

	"github.com/GTDGit/catalog_assistant/internal/analytics"
	"github.com/GTDGit/catalog_assistant/internal/catalog"
	"github.com/GTDGit/catalog_assistant/internal/models"
)

// CatalogProvider supplies raw catalog rows.
type CatalogProvider interface {
	LoadProducts(ctx context.Context) ([]models.RawProduct, error)
}

// PurchaseLogProvider supplies the historical purchase log.
type PurchaseLogProvider interface {
	LoadPurchases(ctx context.Context) ([]models.PurchaseRecord, error)
}

// Dataset is one immutable load of the catalog and purchase log.
type Dataset struct {
	Catalog   *catalog.Catalog
	Purchases []models.PurchaseRecord
	LoadedAt  time.Time

	catalogHash  uint64
	purchaseHash uint64
}

// NewDataset normalizes the raw catalog and fingerprints both tables.
func NewDataset(rows []models.RawProduct, purchases []models.PurchaseRecord) *Dataset {
	c := catalog.New(rows)
	return &Dataset{
		Catalog:      c,
		Purchases:    purchases,
		LoadedAt:     time.Now(),
		catalogHash:  c.Fingerprint(),
		purchaseHash: analytics.Fingerprint(purchases),
	}
}

// SameAs reports whether two datasets hold identical content.
func (d *Dataset) SameAs(other *Dataset) bool {
	if d == nil || other == nil {
		return false
	}
	return d.catalogHash == other.catalogHash && d.purchaseHash == other.purchaseHash
}
