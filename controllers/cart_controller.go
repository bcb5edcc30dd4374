package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veekshithcb/Qkartbackend/middleware"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/services"
)

// CartController handles HTTP requests for cart operations.
type CartController struct {
	cartService services.CartService
}

// NewCartController creates a new CartController.
func NewCartController(cartService services.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart handles GET /v1/cart.
func (cc *CartController) GetCart(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cart, svcErr := cc.cartService.GetCart(c.Request.Context(), userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// GetCartDetails handles GET /v1/cart/details.
func (cc *CartController) GetCartDetails(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, svcErr := cc.cartService.GetCartDetails(c.Request.Context(), userID)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddProduct handles POST /v1/cart.
func (cc *CartController) AddProduct(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.AddProduct(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, cart)
}

// UpdateProduct handles PUT /v1/cart.
func (cc *CartController) UpdateProduct(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	cart, svcErr := cc.cartService.UpdateProduct(c.Request.Context(), userID, req.ProductID, req.Quantity)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// DeleteProduct handles DELETE /v1/cart/:productId.
func (cc *CartController) DeleteProduct(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.cartService.DeleteProduct(c.Request.Context(), userID, c.Param("productId")); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout handles PUT /v1/cart/checkout. An optional Idempotency-Key header
// makes retries return the first result instead of charging again.
func (cc *CartController) Checkout(c *gin.Context) {
	account, err := middleware.GetAccount(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, svcErr := cc.cartService.Checkout(c.Request.Context(), account, c.GetHeader("Idempotency-Key"))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, models.CheckoutResponse{
		CheckoutID:  result.CheckoutID,
		Debited:     result.Debited,
		WalletMoney: result.Account.WalletMoney,
	})
}
