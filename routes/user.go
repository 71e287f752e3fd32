package routes

import (
	"github.com/gin-gonic/gin"

	cartControllers "github.com/stocklane/fulfillment-api/controllers/cart"
	orderControllers "github.com/stocklane/fulfillment-api/controllers/order"
	userControllers "github.com/stocklane/fulfillment-api/controllers/user"
	"github.com/stocklane/fulfillment-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", userControllers.GetUser(deps.Store))

		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetUserCart(deps.Carts))
			cartGroup.POST("/items", cartControllers.AddCartItem(deps.Carts))
			cartGroup.PUT("/items/:product_id", cartControllers.SetCartItemQuantity(deps.Carts))
			cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(deps.Carts))
			cartGroup.DELETE("/", cartControllers.ClearUserCart(deps.Carts))
		}

		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/", orderControllers.PlaceOrderHandler(deps.Orders, deps.Hub))
			orderGroup.GET("/", orderControllers.GetUserOrdersHandler(deps.Orders))
		}
	}
}
