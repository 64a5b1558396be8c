// Package source reads the catalog and purchase log from CSV tables stored on
// disk or in S3.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_assistant/internal/models"
)

// Column names of the two input tables.
const (
	ColName        = "Name"
	ColBrand       = "Brand"
	ColCategory    = "Category"
	ColSubCategory = "SubCategory"
	ColPrice       = "Price"
	ColProductName = "Product Name"
)

// ParseCatalog reads catalog rows. Missing columns and empty cells become
// nil fields; an unparseable price is treated as missing.
func ParseCatalog(r io.Reader) ([]models.RawProduct, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var products []models.RawProduct
	for _, rec := range rows {
		products = append(products, models.RawProduct{
			Name:        header.cell(rec, ColName),
			Brand:       header.cell(rec, ColBrand),
			Category:    header.cell(rec, ColCategory),
			SubCategory: header.cell(rec, ColSubCategory),
			Price:       parsePrice(header.cell(rec, ColPrice)),
		})
	}
	return products, nil
}

// ParsePurchases reads purchase records. Only the Product Name and Category
// columns are used; rows without a product name are skipped.
func ParsePurchases(r io.Reader) ([]models.PurchaseRecord, error) {
	header, rows, err := readTable(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read purchases: %w", err)
	}
	if len(header) == 0 {
		return nil, nil
	}
	if _, ok := header[ColProductName]; !ok {
		return nil, fmt.Errorf("purchases table has no %q column", ColProductName)
	}

	var records []models.PurchaseRecord
	for _, rec := range rows {
		name := header.cell(rec, ColProductName)
		if name == nil {
			continue
		}
		category := ""
		if c := header.cell(rec, ColCategory); c != nil {
			category = *c
		}
		records = append(records, models.PurchaseRecord{ProductName: *name, Category: category})
	}
	return records, nil
}

type columns map[string]int

// cell returns the trimmed value of a column, or nil when absent or empty.
func (c columns) cell(rec []string, col string) *string {
	i, ok := c[col]
	if !ok || i >= len(rec) {
		return nil
	}
	v := strings.TrimSpace(rec[i])
	if v == "" {
		return nil
	}
	return &v
}

func readTable(r io.Reader) (columns, [][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return columns{}, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	header := make(columns, len(head))
	for i, h := range head {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := header[h]; !dup {
			header[h] = i
		}
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return header, rows, nil
}

func parsePrice(v *string) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(*v, ",", ""))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
