package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/blacksmith/pkg/infrastructure/logger"
	"github.com/vsinha/blacksmith/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		scenarioDir = flag.String("scenario", "", "Path to scenario directory containing CSV files")
		product     = flag.String("product", "", "Article of the product to estimate")
		quantity    = flag.Int64("quantity", 0, "Quantity to estimate")
		change      = flag.Int64("change", 0, "Stock change to apply: positive produces, negative consumes")
		format      = flag.String("format", "text", "Output format: text, json")
		parallel    = flag.Int("parallel", 16, "Concurrent BOM lines per node (0 = unbounded)")
		logLevel    = flag.String("log-level", "warn", "Log level")
		verbose     = flag.Bool("verbose", false, "Enable verbose output")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	log, err := logger.New(logger.Config{Level: *logLevel})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	config := commands.Config{
		ScenarioDir: *scenarioDir,
		Product:     *product,
		Quantity:    *quantity,
		Change:      *change,
		Format:      *format,
		MaxParallel: *parallel,
		Verbose:     *verbose,
		Help:        *help,
	}

	cmd := commands.NewEstimateCommand(config, log)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
