package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CheckoutResult is returned by a successful checkout. Account is the new
// snapshot after the debit; the caller's copy is left untouched.
type CheckoutResult struct {
	CheckoutID string          `json:"checkoutId"`
	Account    Account         `json:"-"`
	Debited    decimal.Decimal `json:"debited"`
	Cart       Cart            `json:"-"`
}

type CheckoutEvent struct {
	Event      string          `json:"event"` // "checkout.completed"
	CheckoutID string          `json:"checkout_id"`
	UserID     string          `json:"user_id"`
	Lines      []CartLine      `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Timestamp  time.Time       `json:"timestamp"`
}
