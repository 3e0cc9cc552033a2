package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

// Scenario file names inside a seed directory
const (
	MaterialsFile      = "materials.csv"
	ProductsFile       = "products.csv"
	MaterialsUsageFile = "materials_usage.csv"
	DetailsUsageFile   = "details_usage.csv"
)

// ProductRow is a product record whose tags are still names
type ProductRow struct {
	Product *entities.Product
	Tags    []string
}

// MaterialUsageRow links two articles by a material line
type MaterialUsageRow struct {
	Product  string
	Material string
	Line     entities.MaterialUsage
}

// DetailUsageRow links two articles by a detail line
type DetailUsageRow struct {
	Product string
	Detail  string
	Line    entities.DetailUsage
}

// Loader handles loading catalog data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadMaterials loads materials from a CSV file
func (l *Loader) LoadMaterials(filename string) ([]*entities.Material, error) {
	expectedHeader := []string{"article", "measure_unit", "price", "conversion_cost", "conversion_time", "ordinary", "improved"}
	records, err := readRecords(filename, "materials", expectedHeader)
	if err != nil {
		return nil, err
	}

	var materials []*entities.Material
	for i, record := range records {
		m, err := parseMaterial(record)
		if err != nil {
			return nil, fmt.Errorf("materials CSV row %d: %w", i+2, err)
		}
		materials = append(materials, m)
	}
	return materials, nil
}

// LoadProducts loads products from a CSV file. Tags are separated by ';'.
func (l *Loader) LoadProducts(filename string) ([]ProductRow, error) {
	expectedHeader := []string{"article", "measure_unit", "stock", "tags"}
	records, err := readRecords(filename, "products", expectedHeader)
	if err != nil {
		return nil, err
	}

	var rows []ProductRow
	for i, record := range records {
		stock, err := strconv.ParseInt(record[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: invalid stock: %s", i+2, record[2])
		}
		p, err := entities.NewProduct(record[0], record[1], entities.Quantity(stock))
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		rows = append(rows, ProductRow{Product: p, Tags: splitList(record[3])})
	}
	return rows, nil
}

// LoadMaterialUsages loads material BOM lines keyed by article
func (l *Loader) LoadMaterialUsages(filename string) ([]MaterialUsageRow, error) {
	expectedHeader := []string{"product", "material", "quantity", "time", "cost", "grade"}
	records, err := readRecords(filename, "materials usage", expectedHeader)
	if err != nil {
		return nil, err
	}

	var rows []MaterialUsageRow
	for i, record := range records {
		qty, timePer, costPer, err := parseRates(record[2], record[3], record[4])
		if err != nil {
			return nil, fmt.Errorf("materials usage CSV row %d: %w", i+2, err)
		}
		grade, err := entities.ParseGrade(strings.ToLower(strings.TrimSpace(record[5])))
		if err != nil {
			return nil, fmt.Errorf("materials usage CSV row %d: %w", i+2, err)
		}
		rows = append(rows, MaterialUsageRow{
			Product:  strings.TrimSpace(record[0]),
			Material: strings.TrimSpace(record[1]),
			Line: entities.MaterialUsage{
				QuantityPerUnit: qty,
				TimePerUnit:     timePer,
				CostPerUnit:     costPer,
				Grade:           grade,
			},
		})
	}
	return rows, nil
}

// LoadDetailUsages loads nested product BOM lines keyed by article
func (l *Loader) LoadDetailUsages(filename string) ([]DetailUsageRow, error) {
	expectedHeader := []string{"product", "detail", "quantity", "time", "cost"}
	records, err := readRecords(filename, "details usage", expectedHeader)
	if err != nil {
		return nil, err
	}

	var rows []DetailUsageRow
	for i, record := range records {
		qty, timePer, costPer, err := parseRates(record[2], record[3], record[4])
		if err != nil {
			return nil, fmt.Errorf("details usage CSV row %d: %w", i+2, err)
		}
		rows = append(rows, DetailUsageRow{
			Product: strings.TrimSpace(record[0]),
			Detail:  strings.TrimSpace(record[1]),
			Line: entities.DetailUsage{
				QuantityPerUnit: qty,
				TimePerUnit:     timePer,
				CostPerUnit:     costPer,
			},
		})
	}
	return rows, nil
}

// Helper functions for parsing CSV records

// readRecords returns the data rows of a file after checking its header.
// A file with only a header yields no rows.
func readRecords(filename, what string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", what, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", what, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header", what)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", what, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", what, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseMaterial(record []string) (*entities.Material, error) {
	price, err := parseDecimal("price", record[2])
	if err != nil {
		return nil, err
	}
	conversionCost, err := parseDecimal("conversion_cost", record[3])
	if err != nil {
		return nil, err
	}
	conversionTime, err := parseDecimal("conversion_time", record[4])
	if err != nil {
		return nil, err
	}
	ordinary, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ordinary: %s", record[5])
	}
	improved, err := strconv.ParseInt(record[6], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid improved: %s", record[6])
	}

	return entities.NewMaterial(record[0], record[1], price, conversionCost, conversionTime, entities.Stock{
		Ordinary: entities.Quantity(ordinary),
		Improved: entities.Quantity(improved),
	})
}

func parseRates(qtyStr, timeStr, costStr string) (entities.Quantity, decimal.Decimal, decimal.Decimal, error) {
	qty, err := strconv.ParseInt(qtyStr, 10, 64)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, fmt.Errorf("invalid quantity: %s", qtyStr)
	}
	timePer, err := parseDecimal("time", timeStr)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, err
	}
	costPer, err := parseDecimal("cost", costStr)
	if err != nil {
		return 0, decimal.Zero, decimal.Zero, err
	}
	return entities.Quantity(qty), timePer, costPer, nil
}

func parseDecimal(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
