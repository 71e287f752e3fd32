package orderControllers_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderControllers "github.com/stocklane/fulfillment-api/controllers/order"
	"github.com/stocklane/fulfillment-api/models"
	"github.com/stocklane/fulfillment-api/services"
	"github.com/stocklane/fulfillment-api/store/memory"
)

type orderEnv struct {
	store  *memory.Store
	carts  *services.CartService
	orders *services.OrderService
	hub    *orderControllers.Hub
	router *gin.Engine
	userID uint
}

func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st := memory.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	carts := services.NewCartService(st, log)
	orders := services.NewOrderService(st, log)
	hub := orderControllers.NewHub()

	userID := st.SeedUser(models.User{Email: "buyer@example.com"})

	r := gin.New()
	authed := r.Group("/user", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	authed.POST("/orders", orderControllers.PlaceOrderHandler(orders, hub))
	authed.GET("/orders", orderControllers.GetUserOrdersHandler(orders))
	r.GET("/orders/:orderID", orderControllers.GetOrderHandler(orders))
	r.POST("/orders/:orderID/cancel", orderControllers.CancelOrderHandler(orders, hub))
	r.GET("/orders/ws", hub.Handler())

	return &orderEnv{store: st, carts: carts, orders: orders, hub: hub, router: r, userID: userID}
}

func (e *orderEnv) do(method, path string, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestPlaceOrderHandler_Created(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	productID := env.store.Seed(models.Product{Name: "Laptop", Quantity: 30})
	_, err := env.carts.AddItem(ctx, env.userID, productID, 2)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/user/orders", "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var order models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.NotEmpty(t, order.Ref)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
}

func TestPlaceOrderHandler_NoCartIs404(t *testing.T) {
	env := newOrderEnv(t)

	w := env.do(http.MethodPost, "/user/orders", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPlaceOrderHandler_EmptyCartIs409(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	productID := env.store.Seed(models.Product{Name: "Laptop", Quantity: 30})
	_, err := env.carts.AddItem(ctx, env.userID, productID, 1)
	require.NoError(t, err)
	_, err = env.carts.RemoveItem(ctx, env.userID, productID)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/user/orders", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPlaceOrderHandler_InsufficientStockIs400WithDetails(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	productID := env.store.Seed(models.Product{Name: "Coffee Maker", Quantity: 5})
	_, err := env.carts.AddItem(ctx, env.userID, productID, 5)
	require.NoError(t, err)

	// Drain the ledger behind the cart's back.
	p, err := env.store.GetProduct(ctx, productID)
	require.NoError(t, err)
	p.Quantity = 3
	require.NoError(t, env.store.UpdateProduct(ctx, p))

	w := env.do(http.MethodPost, "/user/orders", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		ProductID uint `json:"product_id"`
		Requested int  `json:"requested"`
		Available int  `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, productID, body.ProductID)
	assert.Equal(t, 5, body.Requested)
	assert.Equal(t, 3, body.Available)
}

func TestCancelOrderHandler(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	productID := env.store.Seed(models.Product{Name: "Laptop", Quantity: 30})
	_, err := env.carts.AddItem(ctx, env.userID, productID, 4)
	require.NoError(t, err)
	order, err := env.orders.PlaceOrder(ctx, env.userID)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/orders/"+itoa(order.ID)+"/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)

	p, err := env.store.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Quantity)

	// Cancelling again succeeds without restocking twice.
	w = env.do(http.MethodPost, "/orders/"+itoa(order.ID)+"/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)
	p, err = env.store.GetProduct(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, 30, p.Quantity)
}

func TestCancelOrderHandler_Unknown(t *testing.T) {
	env := newOrderEnv(t)

	w := env.do(http.MethodPost, "/orders/999/cancel", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodPost, "/orders/abc/cancel", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetOrderHandler(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	productID := env.store.Seed(models.Product{Name: "Laptop", Quantity: 30})
	_, err := env.carts.AddItem(ctx, env.userID, productID, 1)
	require.NoError(t, err)
	order, err := env.orders.PlaceOrder(ctx, env.userID)
	require.NoError(t, err)

	w := env.do(http.MethodGet, "/orders/"+itoa(order.ID), "")
	require.Equal(t, http.StatusOK, w.Code)

	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, order.Ref, got.Ref)

	w = env.do(http.MethodGet, "/orders/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderEventsReachWebsocketClients(t *testing.T) {
	env := newOrderEnv(t)
	ctx := context.Background()

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	productID := env.store.Seed(models.Product{Name: "Laptop", Quantity: 30})
	_, err = env.carts.AddItem(ctx, env.userID, productID, 2)
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/user/orders", "")
	require.Equal(t, http.StatusCreated, w.Code)

	var placed orderControllers.OrderEvent
	require.NoError(t, conn.ReadJSON(&placed))
	assert.Equal(t, orderControllers.EventOrderPlaced, placed.Type)
	require.NotNil(t, placed.Order)
	assert.Equal(t, models.OrderStatusPending, placed.Order.Status)

	w = env.do(http.MethodPost, "/orders/"+itoa(placed.Order.ID)+"/cancel", "")
	require.Equal(t, http.StatusOK, w.Code)

	var cancelled orderControllers.OrderEvent
	require.NoError(t, conn.ReadJSON(&cancelled))
	assert.Equal(t, orderControllers.EventOrderCancelled, cancelled.Type)
	require.NotNil(t, cancelled.Order)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Order.Status)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
