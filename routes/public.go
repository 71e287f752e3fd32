package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/stocklane/fulfillment-api/auth"
	categoryControllers "github.com/stocklane/fulfillment-api/controllers/category"
	orderControllers "github.com/stocklane/fulfillment-api/controllers/order"
	productcontroller "github.com/stocklane/fulfillment-api/controllers/product"
)

func SetupPublicRoutes(r *gin.Engine, deps Deps) {
	r.POST("/auth/token", auth.IssueToken(deps.Store))

	r.GET("/products", productcontroller.GetProducts(deps.Store))
	r.GET("/products/:id", productcontroller.GetProductByID(deps.Store))
	r.GET("/categories", categoryControllers.GetAllCategoriesWithProducts(deps.Store))

	orders := r.Group("/orders")
	{
		orders.GET("/:orderID", orderControllers.GetOrderHandler(deps.Orders))
		orders.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(deps.Orders, deps.Hub))

		// websocket endpoint for real-time order events
		orders.GET("/ws", deps.Hub.Handler())
	}
}
