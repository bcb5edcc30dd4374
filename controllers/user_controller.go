package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/veekshithcb/Qkartbackend/middleware"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/services"
)

type UserController struct {
	accountService services.AccountService
}

func NewUserController(accountService services.AccountService) *UserController {
	return &UserController{accountService: accountService}
}

// GetMe handles GET /v1/users/me.
func (uc *UserController) GetMe(c *gin.Context) {
	account, err := middleware.GetAccount(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, account)
}

// SetAddress handles PUT /v1/users/me/address.
func (uc *UserController) SetAddress(c *gin.Context) {
	account, err := middleware.GetAccount(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	updated, svcErr := uc.accountService.SetAddress(c.Request.Context(), account, req.Address)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, updated)
}
