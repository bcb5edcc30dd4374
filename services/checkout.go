package services

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/veekshithcb/Qkartbackend/models"
)

// CheckoutPlan is the outcome of a successful precondition chain: the values
// to persist, computed without touching the inputs.
type CheckoutPlan struct {
	Total   decimal.Decimal
	Cart    models.Cart
	Account models.Account
}

// CheckCheckoutPreconditions runs the checks that need no catalog data, in
// the order callers rely on: empty cart first, then address.
func CheckCheckoutPreconditions(cart *models.Cart, account models.Account, defaultAddress string) *ServiceError {
	if len(cart.Lines) == 0 {
		return InvalidRequest("No product in user cart")
	}
	if !account.HasSetNonDefaultAddress(defaultAddress) {
		return InvalidRequest("Address not set")
	}
	return nil
}

// CartTotal sums cost*quantity over every line using costs, which must hold
// an entry per product in the cart.
func CartTotal(lines []models.CartLine, costs map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(costs[line.ProductID].Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// PlanCheckout validates cart and account against the current costs and
// returns an emptied cart and a debited account. Neither input is modified.
func PlanCheckout(cart *models.Cart, account models.Account, costs map[string]decimal.Decimal, defaultAddress string) (*CheckoutPlan, *ServiceError) {
	if svcErr := CheckCheckoutPreconditions(cart, account, defaultAddress); svcErr != nil {
		return nil, svcErr
	}
	for _, line := range cart.Lines {
		cost, ok := costs[line.ProductID]
		if !ok {
			return nil, InvalidRequest("Product doesn't exist in database")
		}
		if cost.IsNegative() {
			return nil, Internal("Invalid product cost", fmt.Errorf("product %s has negative cost %s", line.ProductID, cost))
		}
	}

	total := CartTotal(cart.Lines, costs)
	if account.WalletMoney.LessThan(total) {
		return nil, InvalidRequest("Wallet balance is insufficient")
	}

	emptied := *cart.Clone()
	emptied.Lines = []models.CartLine{}

	debited := account
	debited.WalletMoney = account.WalletMoney.Sub(total)

	return &CheckoutPlan{Total: total, Cart: emptied, Account: debited}, nil
}
