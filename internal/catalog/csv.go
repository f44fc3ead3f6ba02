package catalog

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/bakudeals/deal-scout/internal/models"
)

// CSVProvider reads the product feed from a CSV file on disk.
//
// Expected header (the original market feed format):
//
//	id,market,journal_date,discount_start_date,discount_end_date,
//	product_name,brand,category,previous_price,current_price,
//	discount_percent,unit[,image_url]
type CSVProvider struct {
	path string
}

// NewCSVProvider creates a provider for the given file path.
func NewCSVProvider(path string) *CSVProvider {
	return &CSVProvider{path: path}
}

// LoadAll reads and maps every row. A missing file yields an empty catalog
// rather than an error, matching the feed pipeline's tolerance for a not-yet
// delivered snapshot. Malformed rows are skipped with a warning.
func (p *CSVProvider) LoadAll(ctx context.Context) ([]models.Product, error) {
	file, err := os.Open(p.path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[Catalog] CSV file not found at %s, serving empty catalog", p.path)
			return []models.Product{}, nil
		}
		return nil, fmt.Errorf("open catalog csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(bufio.NewReader(file))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return []models.Product{}, nil
		}
		return nil, fmt.Errorf("read catalog csv header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	field := func(record []string, name string) string {
		idx, ok := colMap[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var products []models.Product
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("[Catalog] skipping malformed row: %v", err)
			continue
		}

		products = append(products, mapRow(rawRow{
			ID:              field(record, "id"),
			Market:          field(record, "market"),
			ProductName:     field(record, "product_name"),
			Brand:           field(record, "brand"),
			Category:        field(record, "category"),
			PreviousPrice:   field(record, "previous_price"),
			CurrentPrice:    field(record, "current_price"),
			DiscountPercent: field(record, "discount_percent"),
			Unit:            field(record, "unit"),
			ImageURL:        field(record, "image_url"),
		}))
	}

	return products, nil
}
