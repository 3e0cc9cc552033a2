package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vsinha/blacksmith/pkg/application/dto"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
)

var workshopDir = filepath.Join("..", "..", "..", "..", "scenarios", "workshop")

func run(t *testing.T, config Config) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	config.Out = &buf
	err := NewEstimateCommand(config, nil).Execute(context.Background())
	return buf.String(), err
}

func TestEstimateCommand_Validation(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{"missing scenario", Config{Product: "TABLE", Quantity: 1}, "-scenario is required"},
		{"missing product", Config{ScenarioDir: workshopDir, Quantity: 1}, "-product is required"},
		{"negative quantity", Config{ScenarioDir: workshopDir, Product: "TABLE", Quantity: -1}, "-quantity cannot be negative"},
		{"nothing to do", Config{ScenarioDir: workshopDir, Product: "TABLE"}, "one of -quantity or -change is required"},
		{"bad format", Config{ScenarioDir: workshopDir, Product: "TABLE", Quantity: 1, Format: "csv"}, "unsupported output format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.config)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEstimateCommand_UnknownProduct(t *testing.T) {
	_, err := run(t, Config{ScenarioDir: workshopDir, Product: "CHAIR", Quantity: 1})
	if !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestEstimateCommand_JSONEstimate(t *testing.T) {
	out, err := run(t, Config{ScenarioDir: workshopDir, Product: "TABLE", Quantity: 1, Format: "json"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var estimate dto.ProductEstimate
	if err := json.Unmarshal([]byte(out), &estimate); err != nil {
		t.Fatalf("Failed to decode output: %v\n%s", err, out)
	}
	if estimate.Article != "TABLE" || estimate.CreateNew != 1 {
		t.Errorf("Expected TABLE with create_new 1, got %s %d", estimate.Article, estimate.CreateNew)
	}
	if estimate.Buildable {
		t.Error("Expected TABLE not to be buildable without LEG stock")
	}
	if len(estimate.Details) != 2 {
		t.Fatalf("Expected 2 detail lines, got %d", len(estimate.Details))
	}
}

func TestEstimateCommand_TextEstimate(t *testing.T) {
	out, err := run(t, Config{ScenarioDir: workshopDir, Product: "TABLE", Quantity: 1, Verbose: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, want := range []string{"Loaded 2 materials and 3 products", "Estimate for TABLE x1", "Build tree:", "  LEG: need 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestEstimateCommand_StockChange(t *testing.T) {
	tests := []struct {
		name    string
		product string
		change  int64
		want    string
	}{
		{"consume from stock", "TOP", -1, "Stock changed: TOP now has 0"},
		{"produce without details", "TABLE", 1, "Stock change rejected"},
		{"produce from materials", "LEG", 2, "Stock changed: LEG now has 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, Config{ScenarioDir: workshopDir, Product: tt.product, Change: tt.change})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.want, out)
			}
		})
	}
}

func TestEstimateCommand_Help(t *testing.T) {
	out, err := run(t, Config{Help: true})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(out, "Usage:") {
		t.Errorf("Expected usage text, got %q", out)
	}
}
