package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vsinha/blacksmith/pkg/application/dto"
)

// Supported formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// WriteEstimate renders an estimate in the given format
func WriteEstimate(w io.Writer, format string, estimate *dto.ProductEstimate) error {
	switch format {
	case FormatText:
		return writeEstimateText(w, estimate)
	case FormatJSON:
		return writeJSON(w, estimate)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteMutation renders a stock change outcome in the given format
func WriteMutation(w io.Writer, format string, result *dto.MutationResult) error {
	switch format {
	case FormatText:
		return writeMutationText(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// writeEstimateText creates human-readable text output
func writeEstimateText(w io.Writer, e *dto.ProductEstimate) error {
	fmt.Fprintf(w, "📊 Estimate for %s x%d\n", e.Article, e.Required)
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Use existing: %d\n", e.UseExisting)
	fmt.Fprintf(w, "Create new:   %d\n", e.CreateNew)
	fmt.Fprintf(w, "Cost:         %s\n", e.Cost.String())
	fmt.Fprintf(w, "Time:         %s\n", e.Time.String())
	fmt.Fprintf(w, "Enough:       %s\n", yesNo(e.Enough))
	fmt.Fprintf(w, "Buildable:    %s\n\n", yesNo(e.Buildable))

	if e.CreateNew > 0 {
		fmt.Fprintf(w, "🌳 Build tree:\n")
		writeNode(w, e, 0)
		fmt.Fprintln(w)
	}

	shortages := e.Shortages()
	if len(shortages) > 0 {
		fmt.Fprintf(w, "⚠️  Shortages:\n")
		fmt.Fprintf(w, "%-15s %-10s %-22s %-10s %-10s %-10s\n",
			"Material", "Grade", "Case", "Required", "Convert", "Purchase")
		fmt.Fprintf(w, "%-15s %-10s %-22s %-10s %-10s %-10s\n",
			"---------------", "----------", "----------------------", "----------", "----------", "----------")
		for _, m := range shortages {
			fmt.Fprintf(w, "%-15s %-10s %-22s %-10d %-10d %-10d\n",
				m.Article, m.Grade, m.Case, m.Required, m.Convert, m.Purchase)
		}
	}
	return nil
}

func writeNode(w io.Writer, e *dto.ProductEstimate, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s: need %d, stock %d, build %d (cost %s, time %s)\n",
		indent, e.Article, e.Required, e.Stock, e.CreateNew, e.Cost, e.Time)
	for _, m := range e.Materials {
		fmt.Fprintf(w, "%s  - %s %s x%d: %s (cost %s, time %s)\n",
			indent, m.Article, m.Grade, m.Required, m.Case, m.Cost, m.Time)
	}
	for _, d := range e.Details {
		if d.Estimate != nil {
			writeNode(w, d.Estimate, depth+1)
		}
	}
}

func writeMutationText(w io.Writer, result *dto.MutationResult) error {
	if result.Success {
		fmt.Fprintf(w, "✅ Stock changed: %s now has %d\n", result.Product.Article, result.Product.Stock)
		return nil
	}
	fmt.Fprintf(w, "❌ Stock change rejected\n\n")
	if result.Estimate != nil {
		return writeEstimateText(w, result.Estimate)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
