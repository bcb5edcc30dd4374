package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the user record the cart-service reads for checkout: wallet
// balance and shipping address.
type Account struct {
	ID           string          `json:"_id"`
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	PasswordHash string          `json:"-"`
	Address      string          `json:"address"`
	WalletMoney  decimal.Decimal `json:"walletMoney"`
	Version      int64           `json:"-"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// HasSetNonDefaultAddress reports whether the user replaced the placeholder
// address assigned at registration.
func (a Account) HasSetNonDefaultAddress(defaultAddress string) bool {
	return a.Address != "" && a.Address != defaultAddress
}
