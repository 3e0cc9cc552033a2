package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vsinha/blacksmith/pkg/application/services/estimation"
	"github.com/vsinha/blacksmith/pkg/application/services/stock"
	"github.com/vsinha/blacksmith/pkg/application/services/tree"
	"github.com/vsinha/blacksmith/pkg/domain/entities"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/blacksmith/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/blacksmith/pkg/interfaces/cli/output"
)

// Config holds configuration for the estimate command
type Config struct {
	ScenarioDir string
	Product     string
	Quantity    int64
	Change      int64
	Format      string
	MaxParallel int
	Verbose     bool
	Help        bool
	Out         io.Writer
}

// EstimateCommand estimates or applies a stock change against a CSV scenario
type EstimateCommand struct {
	config Config
	logger *zap.Logger
}

// NewEstimateCommand creates a new estimate command with the given configuration
func NewEstimateCommand(config Config, logger *zap.Logger) *EstimateCommand {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	if config.Format == "" {
		config.Format = output.FormatText
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EstimateCommand{config: config, logger: logger}
}

// Execute runs the estimate command
func (c *EstimateCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	scenario, err := csv.NewLoader().LoadScenario(c.config.ScenarioDir)
	if err != nil {
		return fmt.Errorf("error loading scenario: %w", err)
	}

	store := memory.NewStore()
	ids, err := scenario.Seed(ctx, store)
	if err != nil {
		return fmt.Errorf("error seeding catalog: %w", err)
	}
	if c.config.Verbose {
		fmt.Fprintf(c.config.Out, "📂 Loaded %d materials and %d products from %s\n\n",
			len(scenario.Materials), len(scenario.Products), c.config.ScenarioDir)
	}

	productID, ok := ids[c.config.Product]
	if !ok {
		return fmt.Errorf("product %q: %w", c.config.Product, entities.ErrNotFound)
	}

	estimator := estimation.NewEstimatorWithConfig(store, c.logger, estimation.EstimatorConfig{MaxParallel: c.config.MaxParallel})

	if c.config.Change != 0 {
		resolver := tree.NewResolver(store, c.logger, c.config.MaxParallel)
		mutator := stock.NewMutator(store, estimator, resolver, c.logger, stock.MutatorConfig{})
		result, err := mutator.Apply(ctx, productID, entities.Quantity(c.config.Change))
		if err != nil {
			return err
		}
		return output.WriteMutation(c.config.Out, c.config.Format, result)
	}

	estimate, err := estimator.Estimate(ctx, productID, entities.Quantity(c.config.Quantity))
	if err != nil {
		return err
	}
	return output.WriteEstimate(c.config.Out, c.config.Format, estimate)
}

func (c *EstimateCommand) validateInputs() error {
	if c.config.ScenarioDir == "" {
		return fmt.Errorf("-scenario is required")
	}
	if c.config.Product == "" {
		return fmt.Errorf("-product is required")
	}
	if c.config.Quantity < 0 {
		return fmt.Errorf("-quantity cannot be negative")
	}
	if c.config.Change == 0 && c.config.Quantity == 0 {
		return fmt.Errorf("one of -quantity or -change is required")
	}
	switch c.config.Format {
	case output.FormatText, output.FormatJSON:
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	return nil
}

func (c *EstimateCommand) showHelp() {
	fmt.Fprintln(c.config.Out, `Blacksmith estimate - BOM requirement estimates over a CSV scenario

Usage:
  estimate -scenario <dir> -product <article> -quantity <n> [-format text|json]
  estimate -scenario <dir> -product <article> -change <n>

The scenario directory holds materials.csv, products.csv,
materials_usage.csv and details_usage.csv.

-quantity estimates what building n units would take.
-change applies a production (positive) or consumption (negative)
to the loaded catalog and reports the outcome.`)
}
