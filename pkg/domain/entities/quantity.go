package entities

import (
	"fmt"
	"math"
)

// Mul returns q*n, or ErrInvalidRequest when the product does not fit in a Quantity
func (q Quantity) Mul(n Quantity) (Quantity, error) {
	if q == 0 || n == 0 {
		return 0, nil
	}
	r := q * n
	if r/n != q || (q == -1 && n == math.MinInt64) || (n == -1 && q == math.MinInt64) {
		return 0, fmt.Errorf("%w: quantity %d x %d overflows", ErrInvalidRequest, q, n)
	}
	return r, nil
}

// Add returns q+n, or ErrInvalidRequest when the sum does not fit in a Quantity
func (q Quantity) Add(n Quantity) (Quantity, error) {
	if (n > 0 && q > math.MaxInt64-n) || (n < 0 && q < math.MinInt64-n) {
		return 0, fmt.Errorf("%w: quantity %d + %d overflows", ErrInvalidRequest, q, n)
	}
	return q + n, nil
}
