package services_test

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/veekshithcb/Qkartbackend/auth"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/repository"
)

// --- Mock Catalog ---

type mockCatalog struct {
	products map[string]models.Product
}

func newMockCatalog(products ...models.Product) *mockCatalog {
	m := &mockCatalog{products: make(map[string]models.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalog) FindByID(_ context.Context, id string) (*models.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// --- Mock Stores ---

// memStore holds carts and accounts together so mockTx can roll both back.
type memStore struct {
	mu       sync.Mutex
	carts    map[string]models.Cart
	accounts map[string]models.Account

	cartSaveErr    error
	accountSaveErr error
	cartSaves      int
}

func newMemStore() *memStore {
	return &memStore{
		carts:    make(map[string]models.Cart),
		accounts: make(map[string]models.Account),
	}
}

type mockCarts struct{ s *memStore }

func (m mockCarts) FindByUser(_ context.Context, userID string) (*models.Cart, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	c, ok := m.s.carts[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c.Clone(), nil
}

func (m mockCarts) Create(_ context.Context, cart *models.Cart) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.carts[cart.UserID]; ok {
		return repository.ErrDuplicate
	}
	cart.Version = 1
	cart.CreatedAt = time.Now()
	cart.UpdatedAt = cart.CreatedAt
	m.s.carts[cart.UserID] = *cart.Clone()
	return nil
}

func (m mockCarts) Save(_ context.Context, cart *models.Cart) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.cartSaveErr != nil {
		return m.s.cartSaveErr
	}
	stored, ok := m.s.carts[cart.UserID]
	if !ok || stored.Version != cart.Version {
		return repository.ErrConflict
	}
	cart.Version++
	m.s.carts[cart.UserID] = *cart.Clone()
	m.s.cartSaves++
	return nil
}

type mockAccounts struct{ s *memStore }

func (m mockAccounts) FindByID(_ context.Context, id string) (*models.Account, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	a, ok := m.s.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (m mockAccounts) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.accounts {
		if a.Email == strings.ToLower(email) {
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m mockAccounts) Create(_ context.Context, account *models.Account) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, a := range m.s.accounts {
		if a.Email == account.Email {
			return repository.ErrDuplicate
		}
	}
	account.Version = 1
	m.s.accounts[account.ID] = *account
	return nil
}

func (m mockAccounts) Save(_ context.Context, account *models.Account) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if m.s.accountSaveErr != nil {
		return m.s.accountSaveErr
	}
	stored, ok := m.s.accounts[account.ID]
	if !ok || stored.Version != account.Version {
		return repository.ErrConflict
	}
	account.Version++
	m.s.accounts[account.ID] = *account
	return nil
}

// mockTx restores both collections when fn fails.
type mockTx struct{ s *memStore }

func (m mockTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.s.mu.Lock()
	carts := make(map[string]models.Cart, len(m.s.carts))
	for k, v := range m.s.carts {
		carts[k] = *v.Clone()
	}
	accounts := make(map[string]models.Account, len(m.s.accounts))
	for k, v := range m.s.accounts {
		accounts[k] = v
	}
	m.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		m.s.mu.Lock()
		m.s.carts, m.s.accounts = carts, accounts
		m.s.mu.Unlock()
		return err
	}
	return nil
}

// --- Mock Idempotency Store ---

type mockIdem struct {
	mu     sync.Mutex
	values map[string]string

	// completeErrs are returned by successive Complete calls
	completeErrs  []error
	completeCalls int
	reserveTTL    time.Duration
}

func newMockIdem() *mockIdem {
	return &mockIdem{values: make(map[string]string)}
}

func (m *mockIdem) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reserveTTL = ttl
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = "pending"
	return true, nil
}

func (m *mockIdem) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := m.values[key]
	if v == "pending" {
		return "", repository.ErrInFlight
	}
	return v, nil
}

func (m *mockIdem) Complete(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeCalls++
	if len(m.completeErrs) > 0 {
		err := m.completeErrs[0]
		m.completeErrs = m.completeErrs[1:]
		if err != nil {
			return err
		}
	}
	m.values[key] = value
	return nil
}

func (m *mockIdem) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// --- Mock Publisher ---

type mockPublisher struct {
	events []models.CheckoutEvent
	err    error
}

func (m *mockPublisher) PublishCheckout(_ context.Context, event models.CheckoutEvent) error {
	m.events = append(m.events, event)
	return m.err
}

// --- Mock Token Issuer ---

type mockTokens struct{ err error }

func (m mockTokens) GenerateAuthTokens(userID string) (*auth.AuthTokens, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &auth.AuthTokens{Access: auth.AccessToken{Token: "token-" + userID, Expires: time.Now().Add(time.Hour)}}, nil
}

// --- Helpers ---

func product(id string, cost int64) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Category: "Test", Cost: decimal.NewFromInt(cost), Rating: 4}
}

func seedAccount(s *memStore, id, address string, wallet int64) models.Account {
	a := models.Account{
		ID:          id,
		Email:       id + "@example.com",
		Name:        id,
		Address:     address,
		WalletMoney: decimal.NewFromInt(wallet),
		Version:     1,
	}
	s.accounts[id] = a
	return a
}

func seedCart(s *memStore, userID string, lines ...models.CartLine) {
	s.carts[userID] = models.Cart{
		ID:            "cart-" + userID,
		UserID:        userID,
		Lines:         lines,
		PaymentOption: "PAYMENT_OPTION_DEFAULT",
		Version:       1,
	}
}
