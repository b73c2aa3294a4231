package router

import (
	"smartShop/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupProductRoutes(api *echo.Group, handler *rest.ProductHandler) {
	products := api.Group("/products")

	products.GET("", handler.GetAllProducts)
	products.GET("/:id", handler.GetProductByID)
}

func SetupCategoryRoutes(api *echo.Group, handler *rest.CategoryHandler) {
	api.GET("/categories", handler.GetAllCategories)
}

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	api.GET("/recommendations", handler.Recommend)
}

func SetReviewRoutes(api *echo.Group, handler *rest.ReviewHandler) {
	reviews := api.Group("/reviews")
	reviews.GET("", handler.GetReviews)
	reviews.GET("/summary", handler.GetSummary)
}

func SetPriceRoutes(api *echo.Group, handler *rest.PriceHandler) {
	api.GET("/price-compare", handler.Compare)
}

func SetPolicyRoutes(api *echo.Group, handler *rest.PolicyHandler) {
	api.GET("/policy", handler.GetPolicy)
}

func SetChatRoutes(api *echo.Group, handler *rest.ChatHandler) {
	api.POST("/chat", handler.Chat)
}

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler) {
	users := api.Group("/users")

	users.GET("", handler.GetAllUsers)
	users.POST("", handler.CreateUser)
	users.POST("/events", handler.RecordEvent)
	users.GET("/:id", handler.GetUserByID)
	users.PUT("/:id", handler.UpdateUser)
}
