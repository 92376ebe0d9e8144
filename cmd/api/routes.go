package main

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	clientDelivery "github.com/mfigueiredo/storefront-api/internal/domain/clients/delivery"
	orderDelivery "github.com/mfigueiredo/storefront-api/internal/domain/orders/delivery"
	productDelivery "github.com/mfigueiredo/storefront-api/internal/domain/products/delivery"
	userDelivery "github.com/mfigueiredo/storefront-api/internal/domain/users/delivery"
	appMiddleware "github.com/mfigueiredo/storefront-api/pkg/middleware"
	"github.com/mfigueiredo/storefront-api/pkg/response"
)

func setupRoutes(
	e *echo.Echo,
	userHandler *userDelivery.Handler,
	clientHandler *clientDelivery.Handler,
	productHandler *productDelivery.ProductHandler,
	categoryHandler *productDelivery.CategoryHandler,
	orderHandler *orderDelivery.OrderHandler,
	verifier appMiddleware.AccessTokenVerifier,
) {
	// Middleware
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appMiddleware.RequestID())

	// Custom error handler
	e.HTTPErrorHandler = response.CustomErrorHandler

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status": "ok",
		})
	})

	// API v1 routes
	v1 := e.Group("/api/v1")

	authenticated := appMiddleware.Authenticate(verifier)
	adminOnly := appMiddleware.AdminOnly()

	// Auth routes (Public)
	auth := v1.Group("/auth")
	{
		auth.POST("/register", userHandler.Register)
		auth.POST("/login", userHandler.Login)
		auth.POST("/refresh-token", userHandler.RefreshToken)
	}

	// Client routes
	clients := v1.Group("/clients", authenticated)
	{
		clients.GET("", clientHandler.ListClients)  // GET /api/v1/clients?name=&email=
		clients.GET("/:id", clientHandler.GetClient)

		clients.POST("", clientHandler.CreateClient, adminOnly)
		clients.PUT("/:id", clientHandler.UpdateClient, adminOnly)
		clients.DELETE("/:id", clientHandler.DeleteClient, adminOnly)
	}

	// Product routes
	products := v1.Group("/products", authenticated)
	{
		products.GET("", productHandler.ListProducts) // GET /api/v1/products?section=&available=&page=&limit=
		products.GET("/:id", productHandler.GetProduct)

		products.POST("", productHandler.CreateProduct, adminOnly)
		products.PUT("/:id", productHandler.UpdateProduct, adminOnly)
		products.DELETE("/:id", productHandler.DeleteProduct, adminOnly)
		products.POST("/:id/images", productHandler.UploadImage, adminOnly) // multipart form, field "image"
	}

	// Category routes
	categories := v1.Group("/categories", authenticated)
	{
		categories.GET("", categoryHandler.ListCategories)

		categories.POST("", categoryHandler.CreateCategory, adminOnly)
		categories.PUT("/:id", categoryHandler.UpdateCategory, adminOnly)
		categories.DELETE("/:id", categoryHandler.DeleteCategory, adminOnly)
	}

	// Order routes
	orders := v1.Group("/orders", authenticated)
	{
		orders.GET("", orderHandler.ListOrders) // GET /api/v1/orders?start_date=&final_date=&status=&products_section=&client_id=
		orders.GET("/:id", orderHandler.GetOrder)

		orders.POST("", orderHandler.CreateOrder, adminOnly)
		orders.PUT("/:id", orderHandler.UpdateOrder, adminOnly)
		orders.DELETE("/:id", orderHandler.DeleteOrder, adminOnly)
	}
}
