// Package memory is an in-memory implementation of the storage port,
// used by the service tests. A single mutex serializes units of work and
// Atomically keeps a snapshot to restore on error, which reproduces the
// all-or-nothing and serialization guarantees the engines assume of the
// relational store.
package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/store"
)

type state struct {
	products   map[uint]models.Product
	carts      map[uint]models.Cart // items held separately
	cartItems  map[uint]models.CartItem
	orders     map[uint]models.Order
	users      map[uint]models.User
	categories map[uint]models.Category
	lastID     uint
}

func newState() *state {
	return &state{
		products:   make(map[uint]models.Product),
		carts:      make(map[uint]models.Cart),
		cartItems:  make(map[uint]models.CartItem),
		orders:     make(map[uint]models.Order),
		users:      make(map[uint]models.User),
		categories: make(map[uint]models.Category),
	}
}

func (s *state) nextID() uint {
	s.lastID++
	return s.lastID
}

func (s *state) clone() *state {
	c := newState()
	c.lastID = s.lastID
	for id, p := range s.products {
		c.products[id] = p
	}
	for id, cart := range s.carts {
		c.carts[id] = cart
	}
	for id, item := range s.cartItems {
		c.cartItems[id] = item
	}
	for id, o := range s.orders {
		items := make([]models.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
		c.orders[id] = o
	}
	for id, u := range s.users {
		c.users[id] = u
	}
	for id, cat := range s.categories {
		c.categories[id] = cat
	}
	return c
}

func (m *Store) Atomically(ctx context.Context, fn func(store.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := m.st.clone()
	if err := fn(&tx{st: m.st}); err != nil {
		m.st = snapshot
		return err
	}
	return nil
}

// tx operates on state with the store lock already held. A nested
// Atomically joins the enclosing transaction.
type tx struct {
	st *state
}

func (t *tx) Atomically(ctx context.Context, fn func(store.Store) error) error {
	return fn(t)
}

func (t *tx) GetProduct(_ context.Context, id uint) (*models.Product, error) {
	p, ok := t.st.products[id]
	if !ok || p.DeletedAt.Valid {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (t *tx) GetProductsByIDs(_ context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	for _, id := range ids {
		if p, ok := t.st.products[id]; ok && !p.DeletedAt.Valid {
			products = append(products, p)
		}
	}
	return products, nil
}

func (t *tx) ListProducts(_ context.Context, page, pageSize int, search string) ([]models.Product, error) {
	var products []models.Product
	for _, p := range t.st.products {
		if p.DeletedAt.Valid {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	if pageSize <= 0 {
		return products, nil
	}
	start := (page - 1) * pageSize
	if start >= len(products) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], nil
}

func (t *tx) CreateProduct(_ context.Context, p *models.Product) error {
	if p.ID == 0 {
		p.ID = t.st.nextID()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	t.st.products[p.ID] = *p
	return nil
}

func (t *tx) UpdateProduct(_ context.Context, p *models.Product) error {
	if _, ok := t.st.products[p.ID]; !ok {
		return store.ErrNotFound
	}
	p.UpdatedAt = time.Now()
	t.st.products[p.ID] = *p
	return nil
}

func (t *tx) DeleteProduct(_ context.Context, id uint) error {
	p, ok := t.st.products[id]
	if !ok || p.DeletedAt.Valid {
		return store.ErrNotFound
	}
	p.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	t.st.products[id] = p
	return nil
}

// DecrementStock mirrors the single-statement semantics of the postgres
// store: every row whose quantity covers its adjustment is decremented,
// rows that cannot cover it (or are missing) are skipped, and the count
// of updated rows is reported. Partial effects are undone by the
// enclosing Atomically when the caller aborts.
func (t *tx) DecrementStock(_ context.Context, adjustments []store.StockAdjustment) (int64, error) {
	var matched int64
	for _, adj := range adjustments {
		p, ok := t.st.products[adj.ProductID]
		if !ok || p.DeletedAt.Valid || p.Quantity < adj.Quantity {
			continue
		}
		p.Quantity -= adj.Quantity
		p.UpdatedAt = time.Now()
		t.st.products[adj.ProductID] = p
		matched++
	}
	return matched, nil
}

func (t *tx) RestoreStock(_ context.Context, adjustments []store.StockAdjustment) error {
	for _, adj := range adjustments {
		p, ok := t.st.products[adj.ProductID]
		if !ok || p.DeletedAt.Valid {
			continue
		}
		p.Quantity += adj.Quantity
		p.UpdatedAt = time.Now()
		t.st.products[adj.ProductID] = p
	}
	return nil
}

func (t *tx) ActiveCart(_ context.Context, userID uint) (*models.Cart, error) {
	var active *models.Cart
	for id := range t.st.carts {
		cart := t.st.carts[id]
		if cart.UserID != userID || cart.DeletedAt.Valid {
			continue
		}
		if active == nil || cart.CreatedAt.After(active.CreatedAt) ||
			(cart.CreatedAt.Equal(active.CreatedAt) && cart.ID > active.ID) {
			c := cart
			active = &c
		}
	}
	if active == nil {
		return nil, nil
	}
	active.Items = t.itemsOf(active.ID)
	return active, nil
}

func (t *tx) CreateCart(_ context.Context, userID uint) (*models.Cart, error) {
	cart := models.Cart{
		ID:        t.st.nextID(),
		UserID:    userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	t.st.carts[cart.ID] = cart
	return &cart, nil
}

func (t *tx) GetCart(_ context.Context, cartID uint) (*models.Cart, error) {
	cart, ok := t.st.carts[cartID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cart.Items = t.itemsOf(cartID)
	return &cart, nil
}

func (t *tx) itemsOf(cartID uint) []models.CartItem {
	var items []models.CartItem
	for _, item := range t.st.cartItems {
		if item.CartID != cartID {
			continue
		}
		if p, ok := t.st.products[item.ProductID]; ok {
			item.Product = p
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

func (t *tx) CartItem(_ context.Context, cartID, productID uint) (*models.CartItem, error) {
	for _, item := range t.st.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, nil
}

func (t *tx) SaveCartItem(_ context.Context, item *models.CartItem) error {
	if item.ID == 0 {
		item.ID = t.st.nextID()
	}
	stored := *item
	stored.Product = models.Product{}
	t.st.cartItems[stored.ID] = stored
	return nil
}

func (t *tx) DeleteCartItem(_ context.Context, cartID, productID uint) error {
	for id, item := range t.st.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			delete(t.st.cartItems, id)
			return nil
		}
	}
	return store.ErrNotFound
}

func (t *tx) RetireCart(_ context.Context, cartID uint) error {
	cart, ok := t.st.carts[cartID]
	if !ok {
		return store.ErrNotFound
	}
	cart.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	t.st.carts[cartID] = cart
	return nil
}

func (t *tx) CreateOrder(_ context.Context, order *models.Order) error {
	order.ID = t.st.nextID()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	items := make([]models.OrderItem, len(order.Items))
	for i, item := range order.Items {
		item.ID = t.st.nextID()
		item.OrderID = order.ID
		item.Product = models.Product{}
		items[i] = item
	}
	stored := *order
	stored.Items = items
	t.st.orders[order.ID] = stored
	return nil
}

func (t *tx) GetOrder(_ context.Context, orderID uint) (*models.Order, error) {
	order, ok := t.st.orders[orderID]
	if !ok {
		return nil, store.ErrNotFound
	}
	items := make([]models.OrderItem, len(order.Items))
	for i, item := range order.Items {
		if p, ok := t.st.products[item.ProductID]; ok {
			item.Product = p
		}
		items[i] = item
	}
	order.Items = items
	return &order, nil
}

func (t *tx) ListOrders(_ context.Context) ([]models.Order, error) {
	var orders []models.Order
	for id := range t.st.orders {
		o, _ := t.GetOrder(context.Background(), id)
		orders = append(orders, *o)
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders, nil
}

func (t *tx) ListUserOrders(_ context.Context, userID uint) ([]models.Order, error) {
	all, _ := t.ListOrders(context.Background())
	var orders []models.Order
	for _, o := range all {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	return orders, nil
}

func (t *tx) SetOrderStatus(_ context.Context, orderID uint, status models.OrderStatus) error {
	order, ok := t.st.orders[orderID]
	if !ok {
		return store.ErrNotFound
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	t.st.orders[orderID] = order
	return nil
}

func (t *tx) GetUser(_ context.Context, id uint) (*models.User, error) {
	u, ok := t.st.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (t *tx) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range t.st.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (t *tx) CreateUser(_ context.Context, u *models.User) error {
	if u.ID == 0 {
		u.ID = t.st.nextID()
	}
	u.CreatedAt = time.Now()
	t.st.users[u.ID] = *u
	return nil
}

func (t *tx) ListCategories(_ context.Context) ([]models.Category, error) {
	var categories []models.Category
	for _, c := range t.st.categories {
		categories = append(categories, c)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}
