package entities

import "errors"

// Error categories shared by every layer. Callers match them with errors.Is;
// the concrete error usually wraps one of these with more context.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrConflict          = errors.New("conflict")
	ErrStorage           = errors.New("storage failure")
	ErrCyclicBOM         = errors.New("cyclic bill of materials")
	ErrInsufficientStock = errors.New("insufficient stock")
)
