package services

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartEmpty        = errors.New("cannot place order from empty cart")
	ErrCartItemNotFound = errors.New("cart item not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrInvalidQuantity  = errors.New("quantity must be positive")

	// ErrOrderCreationFailed marks a batch-decrement row-count mismatch
	// that the re-read could not attribute to a missing product or a
	// stock shortfall. It is an internal invariant breach, not a caller
	// mistake.
	ErrOrderCreationFailed = errors.New("failed to update product quantities")
)

// InsufficientStockError reports a requested quantity the ledger cannot
// cover. Requested is the total the caller asked for (for add-to-cart,
// existing line quantity plus the increment), Available the ledger
// quantity observed at check time.
type InsufficientStockError struct {
	ProductID uint
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
