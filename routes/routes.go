package routes

import (
	"backend/controllers"
	"backend/middlewares"
	"backend/services"
	"backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Deps struct {
	Identity *services.IdentityService
	Carts    *services.CartService
	Orders   *services.OrderService
	Menu     *controllers.MenuController
	Hub      *ws.OrderHub
	Log      zerolog.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.RequestID(d.Log))
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	authCtrl := controllers.NewAuthController(d.Identity)
	cartCtrl := controllers.NewCartController(d.Carts)
	orderCtrl := controllers.NewOrderController(d.Orders)
	adminOrderCtrl := controllers.NewAdminOrderController(d.Orders)

	// Auth (public)
	a := r.Group("/auth")
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	a.GET("/me", middlewares.AuthMiddleware(d.Identity), authCtrl.Me)

	// Public catalog
	r.GET("/restaurants/:id/menu", d.Menu.List)

	// Cart (customer)
	cart := r.Group("/cart", middlewares.AuthMiddleware(d.Identity, "user"))
	{
		cart.GET("", cartCtrl.Get)
		cart.POST("/items", cartCtrl.Add)
		cart.DELETE("/items/:itemId", cartCtrl.RemoveItem)
		cart.DELETE("", cartCtrl.Clear)
	}

	// Orders
	orders := r.Group("/orders", middlewares.AuthMiddleware(d.Identity))
	{
		orders.POST("/create-from-cart", middlewares.AuthMiddleware(d.Identity, "user"), orderCtrl.CreateFromCart)
		orders.GET("/:orderId", orderCtrl.Detail)
		orders.PATCH("/:orderId/cancel", orderCtrl.Cancel)

		privileged := orders.Group("", middlewares.AuthMiddleware(d.Identity, "admin", "restaurant"),
			middlewares.RequireApprovedRestaurant(d.Identity))
		{
			privileged.POST("", adminOrderCtrl.CreateCustom)
			privileged.PATCH("/:orderId/status", adminOrderCtrl.UpdateStatus)
		}

		admin := orders.Group("", middlewares.AuthMiddleware(d.Identity, "admin"))
		{
			admin.PUT("/:orderId/refund", adminOrderCtrl.Refund)
			admin.PATCH("/:orderId/dispute", adminOrderCtrl.Dispute)
			admin.DELETE("/:orderId", adminOrderCtrl.Archive)
		}
	}

	// Profile
	profile := r.Group("/profile", middlewares.AuthMiddleware(d.Identity, "user"))
	{
		profile.GET("/orders", orderCtrl.ListForMe)
	}

	// Partner (restaurant)
	partner := r.Group("/partner", middlewares.AuthMiddleware(d.Identity, "restaurant"),
		middlewares.RequireApprovedRestaurant(d.Identity))
	{
		partner.GET("/orders", orderCtrl.ListForRestaurant)
	}

	// Status watch
	r.GET("/ws/orders/:orderId", middlewares.AuthMiddleware(d.Identity), d.Hub.HandleWebSocket)
}
