package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/store"
)

// CartService stages line items against the ledger. Its stock checks
// are advisory: they validate feasibility against the quantity current
// at mutation time but reserve nothing, so a placement can still fail
// with insufficient stock if other orders commit in between.
type CartService struct {
	store store.Store
	log   *slog.Logger
}

func NewCartService(st store.Store, log *slog.Logger) *CartService {
	return &CartService{store: st, log: log}
}

// GetActiveCart returns the user's active cart, or nil when there is none.
func (s *CartService) GetActiveCart(ctx context.Context, userID uint) (*models.Cart, error) {
	return s.store.ActiveCart(ctx, userID)
}

// AddItem appends qty units of a product to the user's active cart,
// creating the cart and the line item as needed. When the line item
// already exists the quantities accumulate, and the feasibility check
// runs against the accumulated total.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var cartID uint
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		product, err := tx.GetProduct(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}

		cart, err := tx.ActiveCart(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			cart, err = tx.CreateCart(ctx, userID)
			if err != nil {
				return fmt.Errorf("create cart: %w", err)
			}
		}
		cartID = cart.ID

		item, err := tx.CartItem(ctx, cart.ID, productID)
		if err != nil {
			return err
		}

		requested := qty
		if item != nil {
			requested += item.Quantity
		}
		if requested > product.Quantity {
			return &InsufficientStockError{
				ProductID: productID,
				Requested: requested,
				Available: product.Quantity,
			}
		}

		if item == nil {
			item = &models.CartItem{CartID: cart.ID, ProductID: productID}
		}
		item.Quantity = requested
		item.AddedAt = time.Now()
		return tx.SaveCartItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("cart item added", "user_id", userID, "product_id", productID, "quantity", qty)
	return s.store.GetCart(ctx, cartID)
}

// SetItemQuantity overwrites an existing line item's quantity. Unlike
// AddItem it never creates anything: both the cart and the line item
// must already exist.
func (s *CartService) SetItemQuantity(ctx context.Context, userID, productID uint, qty int) (*models.Cart, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var cartID uint
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		cart, err := tx.ActiveCart(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		cartID = cart.ID

		item, err := tx.CartItem(ctx, cart.ID, productID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrCartItemNotFound
		}

		product, err := tx.GetProduct(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return err
		}
		if qty > product.Quantity {
			return &InsufficientStockError{
				ProductID: productID,
				Requested: qty,
				Available: product.Quantity,
			}
		}

		item.Quantity = qty
		item.AddedAt = time.Now()
		return tx.SaveCartItem(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetCart(ctx, cartID)
}

// RemoveItem deletes a line item. The ledger is untouched: staged items
// never held stock.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint) (*models.Cart, error) {
	var cartID uint
	err := s.store.Atomically(ctx, func(tx store.Store) error {
		cart, err := tx.ActiveCart(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}
		cartID = cart.ID

		err = tx.DeleteCartItem(ctx, cart.ID, productID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.store.GetCart(ctx, cartID)
}

// RetireCart soft-deletes the user's active cart. Having no active cart
// is not an error.
func (s *CartService) RetireCart(ctx context.Context, userID uint) error {
	return s.store.Atomically(ctx, func(tx store.Store) error {
		cart, err := tx.ActiveCart(ctx, userID)
		if err != nil {
			return err
		}
		if cart == nil {
			return nil
		}
		return tx.RetireCart(ctx, cart.ID)
	})
}
