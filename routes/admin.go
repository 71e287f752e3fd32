package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/stocklane/fulfillment-api/controllers/order"
	productcontroller "github.com/stocklane/fulfillment-api/controllers/product"
	"github.com/stocklane/fulfillment-api/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints behind the API key.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		adminGroup.POST("/products", productcontroller.CreateProduct(deps.Store))
		adminGroup.PUT("/products/:id", productcontroller.UpdateProduct(deps.Store))
		adminGroup.DELETE("/products/:id", productcontroller.DeleteProduct(deps.Store))
		adminGroup.GET("/products/export", productcontroller.ExportInventory(deps.Store))

		adminGroup.GET("/orders", orderControllers.GetAllOrdersHandler(deps.Orders))
	}
}
