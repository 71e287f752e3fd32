package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/store"
)

// OrderService converts carts into orders and back. Placement is the
// correctness-bearing half of the two-phase stock check: whatever the
// cart-side feasibility checks concluded earlier, the batch conditional
// decrement here is what actually guards the ledger.
type OrderService struct {
	store store.Store
	log   *slog.Logger
}

func NewOrderService(st store.Store, log *slog.Logger) *OrderService {
	return &OrderService{store: st, log: log}
}

// PlaceOrder commits the user's active cart: in one transaction it
// decrements the ledger for every line item, creates the pending order
// with a frozen snapshot of the lines, and retires the cart. Any
// failure rolls all of it back; no partially decremented ledger is ever
// observable.
func (s *OrderService) PlaceOrder(ctx context.Context, userID uint) (*models.Order, error) {
	cart, err := s.store.ActiveCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}
	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	adjustments := make([]store.StockAdjustment, 0, len(cart.Items))
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		adjustments = append(adjustments, store.StockAdjustment{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	sort.Slice(adjustments, func(i, j int) bool {
		return adjustments[i].ProductID < adjustments[j].ProductID
	})

	order := &models.Order{
		UserID: userID,
		Ref:    newOrderRef(),
		Status: models.OrderStatusPending,
		Items:  items,
	}

	err = s.store.Atomically(ctx, func(tx store.Store) error {
		matched, err := tx.DecrementStock(ctx, adjustments)
		if err != nil {
			return err
		}
		if matched != int64(len(adjustments)) {
			return classifyShortfall(ctx, tx, adjustments)
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return tx.RetireCart(ctx, cart.ID)
	})
	if err != nil {
		var stockErr *InsufficientStockError
		if errors.As(err, &stockErr) {
			s.log.Warn("order rejected, insufficient stock",
				"user_id", userID,
				"product_id", stockErr.ProductID,
				"requested", stockErr.Requested,
				"available", stockErr.Available)
		}
		return nil, err
	}

	s.log.Info("order placed", "order_id", order.ID, "ref", order.Ref, "user_id", userID)
	return s.store.GetOrder(ctx, order.ID)
}

// classifyShortfall turns a row-count mismatch into a precise error.
// It re-reads the affected products inside the same transaction: a
// missing id means the product vanished, the first one whose quantity
// cannot cover its adjustment is reported as the shortfall. When
// neither explains the mismatch something went badly wrong and the
// generic creation failure is returned. The caller aborts either way,
// rolling back the partial decrement.
func classifyShortfall(ctx context.Context, tx store.Store, adjustments []store.StockAdjustment) error {
	ids := make([]uint, len(adjustments))
	for i, adj := range adjustments {
		ids[i] = adj.ProductID
	}
	products, err := tx.GetProductsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for _, adj := range adjustments {
		product, ok := byID[adj.ProductID]
		if !ok {
			return fmt.Errorf("product %d: %w", adj.ProductID, ErrProductNotFound)
		}
		if adj.Quantity > product.Quantity {
			return &InsufficientStockError{
				ProductID: adj.ProductID,
				Requested: adj.Quantity,
				Available: product.Quantity,
			}
		}
	}
	return ErrOrderCreationFailed
}

// GetOrder returns the order with its line items and product records.
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	return order, err
}

// CancelOrder restores every line item's quantity to the ledger and
// moves the order to its terminal cancelled state, atomically.
// Cancelling an already-cancelled order is a no-op success: retries
// must never restock twice.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uint) error {
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if order.Status == models.OrderStatusCancelled {
			return nil
		}

		adjustments := make([]store.StockAdjustment, 0, len(order.Items))
		for _, item := range order.Items {
			adjustments = append(adjustments, store.StockAdjustment{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}
		if err := tx.RestoreStock(ctx, adjustments); err != nil {
			return err
		}
		return tx.SetOrderStatus(ctx, orderID, models.OrderStatusCancelled)
	})
	if err != nil {
		return err
	}

	s.log.Info("order cancelled", "order_id", orderID)
	return nil
}

// ListOrders returns all orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	return s.store.ListOrders(ctx)
}

// ListUserOrders returns one user's orders, newest first.
func (s *OrderService) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.store.ListUserOrders(ctx, userID)
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}
