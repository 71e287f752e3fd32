package memory

import (
	"context"
	"sync"

	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/store"
)

type Store struct {
	mu sync.Mutex
	st *state
}

func New() *Store {
	return &Store{st: newState()}
}

// Seed populates a product directly, bypassing the port. Test setup only.
func (m *Store) Seed(p models.Product) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == 0 {
		p.ID = m.st.nextID()
	}
	m.st.products[p.ID] = p
	return p.ID
}

// SeedUser registers a user directly. Test setup only.
func (m *Store) SeedUser(u models.User) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.st.nextID()
	}
	m.st.users[u.ID] = u
	return u.ID
}

// SeedCategory registers a category directly. Test setup only.
func (m *Store) SeedCategory(c models.Category) uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.st.nextID()
	}
	m.st.categories[c.ID] = c
	return c.ID
}

// The remaining methods run a single operation under the store lock.

func (m *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).GetProduct(ctx, id)
}

func (m *Store) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).GetProductsByIDs(ctx, ids)
}

func (m *Store) ListProducts(ctx context.Context, page, pageSize int, search string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).ListProducts(ctx, page, pageSize, search)
}

func (m *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).CreateProduct(ctx, p)
}

func (m *Store) UpdateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).UpdateProduct(ctx, p)
}

func (m *Store) DeleteProduct(ctx context.Context, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).DeleteProduct(ctx, id)
}

func (m *Store) DecrementStock(ctx context.Context, adjustments []store.StockAdjustment) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).DecrementStock(ctx, adjustments)
}

func (m *Store) RestoreStock(ctx context.Context, adjustments []store.StockAdjustment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).RestoreStock(ctx, adjustments)
}

func (m *Store) ActiveCart(ctx context.Context, userID uint) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).ActiveCart(ctx, userID)
}

func (m *Store) CreateCart(ctx context.Context, userID uint) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).CreateCart(ctx, userID)
}

func (m *Store) GetCart(ctx context.Context, cartID uint) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).GetCart(ctx, cartID)
}

func (m *Store) CartItem(ctx context.Context, cartID, productID uint) (*models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).CartItem(ctx, cartID, productID)
}

func (m *Store) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).SaveCartItem(ctx, item)
}

func (m *Store) DeleteCartItem(ctx context.Context, cartID, productID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).DeleteCartItem(ctx, cartID, productID)
}

func (m *Store) RetireCart(ctx context.Context, cartID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).RetireCart(ctx, cartID)
}

func (m *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).CreateOrder(ctx, order)
}

func (m *Store) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).GetOrder(ctx, orderID)
}

func (m *Store) ListOrders(ctx context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).ListOrders(ctx)
}

func (m *Store) ListUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).ListUserOrders(ctx, userID)
}

func (m *Store) SetOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).SetOrderStatus(ctx, orderID, status)
}

func (m *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).GetUser(ctx, id)
}

func (m *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).GetUserByEmail(ctx, email)
}

func (m *Store) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).CreateUser(ctx, u)
}

func (m *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&tx{st: m.st}).ListCategories(ctx)
}
