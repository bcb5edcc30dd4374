package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/veekshithcb/Qkartbackend/controllers"
)

// RegisterRoutes sets up the v1 API. authMiddleware guards everything except
// register and login.
func RegisterRoutes(
	r *gin.Engine,
	authMiddleware gin.HandlerFunc,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	cartController *controllers.CartController,
) {
	v1 := r.Group("/v1")

	authRoutes := v1.Group("/auth")
	authRoutes.POST("/register", authController.Register)
	authRoutes.POST("/login", authController.Login)

	userRoutes := v1.Group("/users")
	userRoutes.Use(authMiddleware)
	userRoutes.GET("/me", userController.GetMe)
	userRoutes.PUT("/me/address", userController.SetAddress)

	cartRoutes := v1.Group("/cart")
	cartRoutes.Use(authMiddleware)
	cartRoutes.GET("", cartController.GetCart)
	cartRoutes.GET("/details", cartController.GetCartDetails)
	cartRoutes.POST("", cartController.AddProduct)
	cartRoutes.PUT("", cartController.UpdateProduct)
	cartRoutes.PUT("/checkout", cartController.Checkout)
	cartRoutes.DELETE("/:productId", cartController.DeleteProduct)
}
