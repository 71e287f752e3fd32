// Package store defines the storage contract the cart and order engines
// are written against. Two implementations exist: store/postgres (GORM,
// the production store) and store/memory (tests).
package store

import (
	"context"
	"errors"

	"github.com/stocklane/fulfillment-api/models"
)

// ErrNotFound is returned by single-row lookups when no row matches.
// Implementations translate their driver's sentinel to this one so the
// service layer never imports a driver package.
var ErrNotFound = errors.New("store: record not found")

// StockAdjustment pairs a product with an amount to subtract from (or,
// for restocks, add back to) its ledger quantity.
type StockAdjustment struct {
	ProductID uint
	Quantity  int
}

// Store is the transactional storage port.
//
// Atomically runs fn against a Store scoped to one transaction: if fn
// returns an error every write made through that Store is rolled back.
// DecrementStock is the batch conditional decrement: one atomic
// operation that subtracts each adjustment's quantity from its product
// row only where the current quantity covers it, and reports how many
// rows were actually updated. A result lower than len(adjustments)
// means at least one product failed its sufficiency check or no longer
// exists.
type Store interface {
	Atomically(ctx context.Context, fn func(Store) error) error

	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	ListProducts(ctx context.Context, page, pageSize int, search string) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	UpdateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id uint) error
	DecrementStock(ctx context.Context, adjustments []StockAdjustment) (int64, error)
	RestoreStock(ctx context.Context, adjustments []StockAdjustment) error

	// ActiveCart returns the user's newest non-retired cart with items
	// and products resolved, or (nil, nil) when the user has none.
	ActiveCart(ctx context.Context, userID uint) (*models.Cart, error)
	CreateCart(ctx context.Context, userID uint) (*models.Cart, error)
	GetCart(ctx context.Context, cartID uint) (*models.Cart, error)
	// CartItem returns (nil, nil) when the cart has no line for the product.
	CartItem(ctx context.Context, cartID, productID uint) (*models.CartItem, error)
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, cartID, productID uint) error
	RetireCart(ctx context.Context, cartID uint) error

	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, orderID uint) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error)
	SetOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error

	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	ListCategories(ctx context.Context) ([]models.Category, error)
}
