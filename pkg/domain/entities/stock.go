package entities

import (
	"encoding/json"
	"fmt"
)

// Grade represents the stock classification of a material
type Grade int

const (
	Ordinary Grade = iota
	Improved
)

// String method for Grade enum
func (g Grade) String() string {
	switch g {
	case Ordinary:
		return "ordinary"
	case Improved:
		return "improved"
	default:
		return "unknown"
	}
}

// ParseGrade converts the textual form back into a Grade
func ParseGrade(s string) (Grade, error) {
	switch s {
	case "ordinary", "":
		return Ordinary, nil
	case "improved":
		return Improved, nil
	default:
		return Ordinary, fmt.Errorf("%w: unknown grade %q", ErrInvalidRequest, s)
	}
}

// MarshalJSON encodes the grade by name
func (g Grade) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}

// UnmarshalJSON decodes a grade name
func (g *Grade) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: grade must be a string", ErrInvalidRequest)
	}
	parsed, err := ParseGrade(s)
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Stock holds the on-hand quantity of a material split by grade
type Stock struct {
	Ordinary Quantity `json:"ordinary"`
	Improved Quantity `json:"improved"`
}

// Of returns the quantity held in the given grade
func (s Stock) Of(g Grade) Quantity {
	if g == Improved {
		return s.Improved
	}
	return s.Ordinary
}

// Total returns the quantity across both grades
func (s Stock) Total() Quantity {
	return s.Ordinary + s.Improved
}

// Apply returns the stock after the delta, or ErrInsufficientStock when a
// grade would go negative.
func (s Stock) Apply(d StockDelta) (Stock, error) {
	next := Stock{
		Ordinary: s.Ordinary + d.Ordinary,
		Improved: s.Improved + d.Improved,
	}
	if next.Ordinary < 0 || next.Improved < 0 {
		return s, fmt.Errorf("%w: ordinary %d%+d, improved %d%+d",
			ErrInsufficientStock, s.Ordinary, d.Ordinary, s.Improved, d.Improved)
	}
	return next, nil
}

// StockDelta is a signed change to a material's stock
type StockDelta struct {
	Ordinary Quantity `json:"ordinary"`
	Improved Quantity `json:"improved"`
}

// DeltaFor builds a delta touching a single grade
func DeltaFor(g Grade, qty Quantity) StockDelta {
	if g == Improved {
		return StockDelta{Improved: qty}
	}
	return StockDelta{Ordinary: qty}
}

// IsZero reports whether the delta changes nothing
func (d StockDelta) IsZero() bool {
	return d.Ordinary == 0 && d.Improved == 0
}

// Of returns the change applied to the given grade
func (d StockDelta) Of(g Grade) Quantity {
	if g == Improved {
		return d.Improved
	}
	return d.Ordinary
}
