package main

import (
	"bufio"
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/bakudeals/deal-scout/internal/config"
	"github.com/bakudeals/deal-scout/internal/database"
)

// feedRow is one raw market feed record headed for the products table.
type feedRow struct {
	Market          string
	ProductName     string
	Brand           string
	Category        string
	PreviousPrice   *float64
	CurrentPrice    *float64
	DiscountPercent *int
	Unit            string
	ImageURL        string
}

func main() {
	// Command line flags
	dryRun := flag.Bool("dry-run", false, "Preview changes without writing to database")
	truncate := flag.Bool("truncate", false, "Clear the products table before importing")
	localFile := flag.String("file", "", "CSV feed file (defaults to CATALOG_CSV_PATH)")
	flag.Parse()

	// Load .env
	godotenv.Load()

	// Load config
	cfg := config.Load()

	path := *localFile
	if path == "" {
		path = cfg.CatalogCSVPath
	}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open feed file: %v", err)
	}
	defer file.Close()
	log.Printf("Reading market feed from: %s", path)

	rows, err := parseFeed(bufio.NewReader(file))
	if err != nil {
		log.Fatalf("Failed to parse feed: %v", err)
	}
	log.Printf("Found %d feed rows to import", len(rows))

	if *dryRun {
		log.Println("DRY RUN - No changes will be made")
		printPreview(rows, 20)
		return
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	if *truncate {
		if _, err := db.Pool.Exec(ctx, "TRUNCATE products RESTART IDENTITY"); err != nil {
			log.Fatalf("Failed to truncate products: %v", err)
		}
		log.Println("Cleared products table")
	}

	imported, err := importRows(ctx, db, rows)
	if err != nil {
		log.Fatalf("Failed to import feed: %v", err)
	}
	log.Printf("Import complete: %d rows", imported)
}

// parseFeed reads the market feed CSV. Header order is not fixed; columns
// are resolved by name. Malformed rows are skipped with a warning.
func parseFeed(reader io.Reader) ([]feedRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}
	if _, ok := colMap["market"]; !ok {
		return nil, fmt.Errorf("feed is missing the market column")
	}

	field := func(record []string, name string) string {
		i, ok := colMap[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []feedRow
	rowCount := 0
	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed row: %v", err)
			continue
		}
		rowCount++

		market := field(record, "market")
		if market == "" {
			continue
		}

		rows = append(rows, feedRow{
			Market:          market,
			ProductName:     field(record, "product_name"),
			Brand:           field(record, "brand"),
			Category:        field(record, "category"),
			PreviousPrice:   parseOptionalPrice(field(record, "previous_price")),
			CurrentPrice:    parseOptionalPrice(field(record, "current_price")),
			DiscountPercent: parseOptionalInt(field(record, "discount_percent")),
			Unit:            field(record, "unit"),
			ImageURL:        field(record, "image_url"),
		})
	}

	log.Printf("Processed %d rows", rowCount)
	return rows, nil
}

// importRows writes the feed in batched transactions to avoid one long
// transaction over the whole file.
func importRows(ctx context.Context, db *database.DB, rows []feedRow) (int, error) {
	const batchSize = 500

	imported := 0
	for i := 0; i < len(rows); i += batchSize {
		end := i + batchSize
		if end > len(rows) {
			end = len(rows)
		}

		if err := importBatch(ctx, db, rows[i:end]); err != nil {
			return imported, err
		}
		imported += end - i
		log.Printf("Progress: %d/%d rows imported", imported, len(rows))
	}
	return imported, nil
}

func importBatch(ctx context.Context, db *database.DB, rows []feedRow) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, row := range rows {
		_, err := tx.Exec(ctx, `
			INSERT INTO products (market, product_name, brand, category, previous_price, current_price, discount_percent, unit, image_url)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, row.Market, row.ProductName, row.Brand, row.Category,
			row.PreviousPrice, row.CurrentPrice, row.DiscountPercent, row.Unit, row.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to insert %q at %s: %w", row.ProductName, row.Market, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func parseOptionalPrice(s string) *float64 {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func printPreview(rows []feedRow, limit int) {
	if limit > len(rows) {
		limit = len(rows)
	}
	for _, row := range rows[:limit] {
		price := "-"
		if row.CurrentPrice != nil {
			price = fmt.Sprintf("%.2f", *row.CurrentPrice)
		}
		log.Printf("  %s | %s | %s | %s", row.Market, row.Category, row.ProductName, price)
	}
	if len(rows) > limit {
		log.Printf("  ... and %d more", len(rows)-limit)
	}
}
