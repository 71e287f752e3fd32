package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/stocklane/fulfillment-api/controllers/order"
	"github.com/stocklane/fulfillment-api/services"
	"github.com/stocklane/fulfillment-api/store"
)

// Deps bundles everything the route groups need wired in.
type Deps struct {
	Store  store.Store
	Carts  *services.CartService
	Orders *services.OrderService
	Hub    *orderControllers.Hub
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public routes (no middleware)
	SetupPublicRoutes(r, deps)

	// User routes (JWT-protected)
	SetupUserRoutes(r, deps)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, deps)
}
