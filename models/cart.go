package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine pairs a product id with a quantity. The product itself is looked
// up from the catalog whenever it is needed.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is the per-user cart document. Version is bumped on every save and
// used as the compare-and-swap token by the repository.
type Cart struct {
	ID            string     `json:"_id"`
	UserID        string     `json:"userId"`
	Lines         []CartLine `json:"cartItems"`
	PaymentOption string     `json:"paymentOption"`
	Version       int64      `json:"-"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FindLine returns the index of the line for productID, or -1.
func (c *Cart) FindLine(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can mutate lines without aliasing.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = append([]CartLine(nil), c.Lines...)
	return &cp
}

// CartLineView is a cart line joined with the current catalog entry.
type CartLineView struct {
	Product  Product         `json:"product"`
	Quantity int             `json:"quantity"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// CartView is the expanded representation returned by GET /cart/details.
type CartView struct {
	UserID        string          `json:"userId"`
	Items         []CartLineView  `json:"cartItems"`
	PaymentOption string          `json:"paymentOption"`
	Total         decimal.Decimal `json:"total"`
}
