package models

import "github.com/shopspring/decimal"

type CartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AddressRequest struct {
	Address string `json:"address" binding:"required,min=20"`
}

type CheckoutResponse struct {
	CheckoutID  string          `json:"checkoutId"`
	Debited     decimal.Decimal `json:"debited"`
	WalletMoney decimal.Decimal `json:"walletMoney"`
}
