package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/services"
)

// AuthController handles registration and login.
type AuthController struct {
	accountService services.AccountService
}

func NewAuthController(accountService services.AccountService) *AuthController {
	return &AuthController{accountService: accountService}
}

// Register handles POST /v1/auth/register.
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	account, tokens, svcErr := ac.accountService.Register(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": account, "tokens": tokens})
}

// Login handles POST /v1/auth/login.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	account, tokens, svcErr := ac.accountService.Login(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account, "tokens": tokens})
}
