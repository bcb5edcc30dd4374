package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veekshithcb/Qkartbackend/events"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/repository"
	"go.uber.org/zap"
)

const (
	msgNoCart            = "User does not have a cart"
	msgNoCartForUpdate   = "User does not have a cart. Use POST to create cart and add a product"
	msgProductMissing    = "Product doesn't exist in database"
	msgProductInCart     = "Product already in cart. Use the cart sidebar to update or remove product from cart"
	msgProductNotInCart  = "Product not in cart"
	msgConcurrentUpdate  = "Cart was modified by another request, please retry"
	msgCheckoutConflict  = "Cart or wallet was modified during checkout, please retry"
	msgCheckoutInFlight  = "A checkout with this Idempotency-Key is already in progress"
	msgCheckoutPersisted = "Failed to complete checkout"
)

// CartService defines the cart and checkout business logic.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError)
	GetCartDetails(ctx context.Context, userID string) (*models.CartView, *ServiceError)
	AddProduct(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *ServiceError)
	UpdateProduct(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *ServiceError)
	DeleteProduct(ctx context.Context, userID, productID string) *ServiceError
	Checkout(ctx context.Context, account models.Account, idempotencyKey string) (*models.CheckoutResult, *ServiceError)
}

// CartServiceConfig carries the defaults the service applies. An
// Idempotency-Key is held for IdempotencyLockTTL while its checkout runs and
// for IdempotencyTTL once the result is stored.
type CartServiceConfig struct {
	DefaultAddress       string
	DefaultPaymentOption string
	IdempotencyTTL       time.Duration
	IdempotencyLockTTL   time.Duration
}

const defaultIdempotencyLockTTL = time.Minute

type cartServiceImpl struct {
	catalog   repository.ProductCatalog
	carts     repository.CartRepository
	accounts  repository.AccountRepository
	tx        repository.Transactor
	idem      repository.IdempotencyStore
	publisher events.Publisher
	cfg       CartServiceConfig
	logger    *zap.Logger
}

// NewCartService creates a new CartService. idem may be nil, which disables
// Idempotency-Key handling.
func NewCartService(
	catalog repository.ProductCatalog,
	carts repository.CartRepository,
	accounts repository.AccountRepository,
	tx repository.Transactor,
	idem repository.IdempotencyStore,
	publisher events.Publisher,
	cfg CartServiceConfig,
	logger *zap.Logger,
) CartService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &cartServiceImpl{
		catalog:   catalog,
		carts:     carts,
		accounts:  accounts,
		tx:        tx,
		idem:      idem,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
	}
}

// GetCart returns the user's cart.
func (s *cartServiceImpl) GetCart(ctx context.Context, userID string) (*models.Cart, *ServiceError) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(msgNoCart)
	}
	if err != nil {
		return nil, s.internal("Failed to fetch cart", err, userID)
	}
	return cart, nil
}

// GetCartDetails returns the cart joined with the current catalog entries.
func (s *cartServiceImpl) GetCartDetails(ctx context.Context, userID string) (*models.CartView, *ServiceError) {
	cart, svcErr := s.GetCart(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	products, svcErr := s.lookupProducts(ctx, cart.Lines)
	if svcErr != nil {
		return nil, svcErr
	}

	view := &models.CartView{
		UserID:        cart.UserID,
		Items:         make([]models.CartLineView, 0, len(cart.Lines)),
		PaymentOption: cart.PaymentOption,
		Total:         decimal.Zero,
	}
	for _, line := range cart.Lines {
		p := products[line.ProductID]
		subtotal := p.Cost.Mul(decimal.NewFromInt(int64(line.Quantity)))
		view.Items = append(view.Items, models.CartLineView{Product: *p, Quantity: line.Quantity, Subtotal: subtotal})
		view.Total = view.Total.Add(subtotal)
	}
	return view, nil
}

// AddProduct adds a new line for productID, creating the cart on first use.
func (s *cartServiceImpl) AddProduct(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *ServiceError) {
	if _, svcErr := s.findProduct(ctx, productID); svcErr != nil {
		return nil, svcErr
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.createCart(ctx, userID, models.CartLine{ProductID: productID, Quantity: quantity})
	}
	if err != nil {
		return nil, s.internal("Failed to fetch cart", err, userID)
	}

	if cart.FindLine(productID) >= 0 {
		return nil, InvalidRequest(msgProductInCart)
	}

	updated := cart.Clone()
	updated.Lines = append(updated.Lines, models.CartLine{ProductID: productID, Quantity: quantity})
	if svcErr := s.saveCart(ctx, updated); svcErr != nil {
		return nil, svcErr
	}

	s.logger.Info("Product added to cart",
		zap.String("user_id", userID), zap.String("product_id", productID), zap.Int("quantity", quantity))
	return updated, nil
}

func (s *cartServiceImpl) createCart(ctx context.Context, userID string, line models.CartLine) (*models.Cart, *ServiceError) {
	cart := &models.Cart{
		ID:            uuid.NewString(),
		UserID:        userID,
		Lines:         []models.CartLine{line},
		PaymentOption: s.cfg.DefaultPaymentOption,
	}

	err := s.carts.Create(ctx, cart)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, Conflict(msgConcurrentUpdate, err)
	}
	if err != nil {
		return nil, s.internal("Failed to create cart", err, userID)
	}

	s.logger.Info("Cart created",
		zap.String("user_id", userID), zap.String("product_id", line.ProductID), zap.Int("quantity", line.Quantity))
	return cart, nil
}

// UpdateProduct sets the quantity of an existing line.
func (s *cartServiceImpl) UpdateProduct(ctx context.Context, userID, productID string, quantity int) (*models.Cart, *ServiceError) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, InvalidRequest(msgNoCartForUpdate)
	}
	if err != nil {
		return nil, s.internal("Failed to fetch cart", err, userID)
	}

	if _, svcErr := s.findProduct(ctx, productID); svcErr != nil {
		return nil, svcErr
	}

	idx := cart.FindLine(productID)
	if idx < 0 {
		return nil, InvalidRequest(msgProductNotInCart)
	}

	updated := cart.Clone()
	updated.Lines[idx].Quantity = quantity
	if svcErr := s.saveCart(ctx, updated); svcErr != nil {
		return nil, svcErr
	}
	return updated, nil
}

// DeleteProduct removes the line for productID.
func (s *cartServiceImpl) DeleteProduct(ctx context.Context, userID, productID string) *ServiceError {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return InvalidRequest(msgNoCart)
	}
	if err != nil {
		return s.internal("Failed to fetch cart", err, userID)
	}

	idx := cart.FindLine(productID)
	if idx < 0 {
		return InvalidRequest(msgProductNotInCart)
	}

	updated := cart.Clone()
	updated.Lines = append(updated.Lines[:idx], updated.Lines[idx+1:]...)
	return s.saveCart(ctx, updated)
}

// Checkout empties the cart and debits its total from the wallet in one
// transaction. account is not modified; the debited snapshot is returned.
func (s *cartServiceImpl) Checkout(ctx context.Context, account models.Account, idempotencyKey string) (*models.CheckoutResult, *ServiceError) {
	if idempotencyKey == "" || s.idem == nil {
		return s.checkout(ctx, account)
	}

	key := account.ID + ":" + idempotencyKey
	lockTTL := s.cfg.IdempotencyLockTTL
	if lockTTL <= 0 {
		lockTTL = defaultIdempotencyLockTTL
	}
	reserved, err := s.idem.Reserve(ctx, key, lockTTL)
	if err != nil {
		return nil, s.internal("Failed to reserve idempotency key", err, account.ID)
	}
	if !reserved {
		return s.replayCheckout(ctx, key, account)
	}

	result, svcErr := s.checkout(ctx, account)
	if svcErr != nil {
		if err := s.idem.Release(ctx, key); err != nil {
			s.logger.Warn("Failed to release idempotency key", zap.String("user_id", account.ID), zap.Error(err))
		}
		return nil, svcErr
	}

	record, err := json.Marshal(models.CheckoutResponse{
		CheckoutID:  result.CheckoutID,
		Debited:     result.Debited,
		WalletMoney: result.Account.WalletMoney,
	})
	if err == nil {
		if err = s.idem.Complete(ctx, key, string(record), s.cfg.IdempotencyTTL); err != nil {
			err = s.idem.Complete(ctx, key, string(record), s.cfg.IdempotencyTTL)
		}
	}
	if err != nil {
		// the pending marker expires after the lock TTL; a later retry finds the cart empty
		s.logger.Error("Failed to store checkout result",
			zap.String("user_id", account.ID),
			zap.String("checkout_id", result.CheckoutID),
			zap.Error(err))
	}
	return result, nil
}

func (s *cartServiceImpl) replayCheckout(ctx context.Context, key string, account models.Account) (*models.CheckoutResult, *ServiceError) {
	stored, err := s.idem.Get(ctx, key)
	if errors.Is(err, repository.ErrInFlight) || (err == nil && stored == "") {
		return nil, Conflict(msgCheckoutInFlight, err)
	}
	if err != nil {
		return nil, s.internal("Failed to read idempotency key", err, account.ID)
	}

	var prior models.CheckoutResponse
	if err := json.Unmarshal([]byte(stored), &prior); err != nil {
		return nil, s.internal("Corrupt idempotency record", err, account.ID)
	}

	snapshot := account
	snapshot.WalletMoney = prior.WalletMoney
	return &models.CheckoutResult{CheckoutID: prior.CheckoutID, Account: snapshot, Debited: prior.Debited}, nil
}

func (s *cartServiceImpl) checkout(ctx context.Context, account models.Account) (*models.CheckoutResult, *ServiceError) {
	cart, err := s.carts.FindByUser(ctx, account.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound(msgNoCart)
	}
	if err != nil {
		return nil, s.internal("Failed to fetch cart", err, account.ID)
	}

	if svcErr := CheckCheckoutPreconditions(cart, account, s.cfg.DefaultAddress); svcErr != nil {
		return nil, svcErr
	}

	products, svcErr := s.lookupProducts(ctx, cart.Lines)
	if svcErr != nil {
		return nil, svcErr
	}
	costs := make(map[string]decimal.Decimal, len(products))
	for id, p := range products {
		costs[id] = p.Cost
	}

	plan, svcErr := PlanCheckout(cart, account, costs, s.cfg.DefaultAddress)
	if svcErr != nil {
		return nil, svcErr
	}

	var committedCart *models.Cart
	var committedAccount models.Account
	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		c := plan.Cart.Clone()
		a := plan.Account
		if err := s.carts.Save(txCtx, c); err != nil {
			return err
		}
		if err := s.accounts.Save(txCtx, &a); err != nil {
			return err
		}
		committedCart, committedAccount = c, a
		return nil
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, Conflict(msgCheckoutConflict, err)
	}
	if err != nil {
		return nil, s.internal(msgCheckoutPersisted, err, account.ID)
	}

	result := &models.CheckoutResult{
		CheckoutID: uuid.NewString(),
		Account:    committedAccount,
		Debited:    plan.Total,
		Cart:       *committedCart,
	}
	s.logger.Info("Checkout completed",
		zap.String("user_id", account.ID),
		zap.String("checkout_id", result.CheckoutID),
		zap.String("total", plan.Total.String()),
		zap.Int("lines", len(cart.Lines)))

	event := models.CheckoutEvent{
		Event:      events.CheckoutCompleted,
		CheckoutID: result.CheckoutID,
		UserID:     account.ID,
		Lines:      cart.Lines,
		Total:      plan.Total,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.publisher.PublishCheckout(ctx, event); err != nil {
		s.logger.Warn("Failed to publish checkout event",
			zap.String("checkout_id", result.CheckoutID), zap.Error(err))
	}
	return result, nil
}

func (s *cartServiceImpl) findProduct(ctx context.Context, productID string) (*models.Product, *ServiceError) {
	product, err := s.catalog.FindByID(ctx, productID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, InvalidRequest(msgProductMissing)
	}
	if err != nil {
		return nil, s.internal("Failed to fetch product", err, "")
	}
	return product, nil
}

// lookupProducts performs a fresh catalog read for every line.
func (s *cartServiceImpl) lookupProducts(ctx context.Context, lines []models.CartLine) (map[string]*models.Product, *ServiceError) {
	products := make(map[string]*models.Product, len(lines))
	for _, line := range lines {
		p, svcErr := s.findProduct(ctx, line.ProductID)
		if svcErr != nil {
			return nil, svcErr
		}
		products[line.ProductID] = p
	}
	return products, nil
}

func (s *cartServiceImpl) saveCart(ctx context.Context, cart *models.Cart) *ServiceError {
	err := s.carts.Save(ctx, cart)
	if errors.Is(err, repository.ErrConflict) {
		return Conflict(msgConcurrentUpdate, err)
	}
	if err != nil {
		return s.internal("Failed to save cart", err, cart.UserID)
	}
	return nil
}

func (s *cartServiceImpl) internal(message string, err error, userID string) *ServiceError {
	s.logger.Error(message, zap.String("user_id", userID), zap.Error(err))
	return Internal(message, err)
}
