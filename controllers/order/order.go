package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stocklane/fulfillment-api/middleware"
	"github.com/stocklane/fulfillment-api/services"
)

// POST /user/orders
// PlaceOrderHandler commits the caller's active cart into an order.
func PlaceOrderHandler(svc *services.OrderService, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		order, err := svc.PlaceOrder(c.Request.Context(), userID)
		if err != nil {
			writeOrderError(c, err)
			return
		}

		hub.Broadcast(OrderEvent{Type: EventOrderPlaced, Order: order})
		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/orders
func GetUserOrdersHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.UserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		orders, err := svc.ListUserOrders(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
func GetOrderHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		order, err := svc.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			writeOrderError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// POST /orders/:orderID/cancel
// CancelOrderHandler restores the order's stock and marks it cancelled.
// Re-cancelling is a no-op success.
func CancelOrderHandler(svc *services.OrderService, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := parseOrderID(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		if err := svc.CancelOrder(c.Request.Context(), orderID); err != nil {
			writeOrderError(c, err)
			return
		}

		order, err := svc.GetOrder(c.Request.Context(), orderID)
		if err == nil {
			hub.Broadcast(OrderEvent{Type: EventOrderCancelled, Order: order})
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
	}
}

// GET /admin/orders
func GetAllOrdersHandler(svc *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func parseOrderID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
	return uint(id), err
}

func writeOrderError(c *gin.Context, err error) {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, services.ErrCartNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCartEmpty):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process order"})
	}
}
