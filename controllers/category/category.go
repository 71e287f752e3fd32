package categoryControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stocklane/fulfillment-api/store"
)

// GET /categories
func GetAllCategoriesWithProducts(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := st.ListCategories(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
