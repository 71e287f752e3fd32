package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/store"
)

// DecrementStock subtracts every adjustment from its product row in one
// UPDATE. Each row is gated by its own sufficiency check, so a product
// whose quantity cannot cover the requested amount simply does not
// match; the caller compares the returned row count against
// len(adjustments) to detect a shortfall. Decrementing N products with
// N statements under separate row locks invites lock-ordering deadlock
// between overlapping orders; one statement takes its locks as a unit.
func (s *Store) DecrementStock(ctx context.Context, adjustments []store.StockAdjustment) (int64, error) {
	if len(adjustments) == 0 {
		return 0, nil
	}

	sql, args := decrementStockSQL(adjustments, time.Now())
	res := s.db.WithContext(ctx).Exec(sql, args...)
	if res.Error != nil {
		return 0, fmt.Errorf("decrement stock: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// RestoreStock adds each adjustment back to its product's ledger. No
// sufficiency check applies: restocking cannot violate the non-negative
// invariant.
func (s *Store) RestoreStock(ctx context.Context, adjustments []store.StockAdjustment) error {
	for _, adj := range sortedByProduct(adjustments) {
		err := s.db.WithContext(ctx).
			Model(&models.Product{}).
			Where("id = ?", adj.ProductID).
			Update("quantity", gorm.Expr("quantity + ?", adj.Quantity)).Error
		if err != nil {
			return fmt.Errorf("restore stock for product %d: %w", adj.ProductID, err)
		}
	}
	return nil
}

// decrementStockSQL renders the batch decrement as one statement with a
// per-row CASE guard.
func decrementStockSQL(adjustments []store.StockAdjustment, now time.Time) (string, []interface{}) {
	sorted := sortedByProduct(adjustments)

	ids := make([]uint, len(sorted))
	for i, adj := range sorted {
		ids[i] = adj.ProductID
	}

	var sql strings.Builder
	args := make([]interface{}, 0, len(sorted)*4+2)

	sql.WriteString("UPDATE products SET quantity = quantity - CASE id")
	for _, adj := range sorted {
		sql.WriteString(" WHEN ? THEN ?")
		args = append(args, adj.ProductID, adj.Quantity)
	}
	sql.WriteString(" END, updated_at = ? WHERE id IN ? AND deleted_at IS NULL AND CASE id")
	args = append(args, now, ids)
	for _, adj := range sorted {
		sql.WriteString(" WHEN ? THEN quantity >= ?")
		args = append(args, adj.ProductID, adj.Quantity)
	}
	sql.WriteString(" END")

	return sql.String(), args
}

// sortedByProduct copies and orders adjustments by product id so that
// transactions touching overlapping product sets acquire row locks in
// the same order.
func sortedByProduct(adjustments []store.StockAdjustment) []store.StockAdjustment {
	sorted := make([]store.StockAdjustment, len(adjustments))
	copy(sorted, adjustments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ProductID < sorted[j].ProductID
	})
	return sorted
}
