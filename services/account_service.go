package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veekshithcb/Qkartbackend/auth"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/repository"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer issues the credentials returned after register and login.
type TokenIssuer interface {
	GenerateAuthTokens(userID string) (*auth.AuthTokens, error)
}

// AccountService defines registration, login and the account fields the
// cart-service owns.
type AccountService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, *auth.AuthTokens, *ServiceError)
	Login(ctx context.Context, req *models.LoginRequest) (*models.Account, *auth.AuthTokens, *ServiceError)
	GetAccount(ctx context.Context, id string) (*models.Account, *ServiceError)
	SetAddress(ctx context.Context, account models.Account, address string) (*models.Account, *ServiceError)
}

type AccountServiceConfig struct {
	DefaultAddress     string
	DefaultWalletMoney decimal.Decimal
}

type accountServiceImpl struct {
	repo   repository.AccountRepository
	tokens TokenIssuer
	cfg    AccountServiceConfig
	logger *zap.Logger
}

func NewAccountService(repo repository.AccountRepository, tokens TokenIssuer, cfg AccountServiceConfig, logger *zap.Logger) AccountService {
	return &accountServiceImpl{repo: repo, tokens: tokens, cfg: cfg, logger: logger}
}

func (s *accountServiceImpl) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, *auth.AuthTokens, *ServiceError) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, Internal("Failed to hash password", err)
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		PasswordHash: string(hash),
		Address:      s.cfg.DefaultAddress,
		WalletMoney:  s.cfg.DefaultWalletMoney,
	}

	err = s.repo.Create(ctx, account)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, nil, InvalidRequest("Email already taken")
	}
	if err != nil {
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, nil, Internal("Failed to create account", err)
	}

	tokens, svcErr := s.issueTokens(account.ID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	s.logger.Info("Account registered", zap.String("user_id", account.ID))
	return account, tokens, nil
}

func (s *accountServiceImpl) Login(ctx context.Context, req *models.LoginRequest) (*models.Account, *auth.AuthTokens, *ServiceError) {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, Unauthorized("Incorrect email or password")
	}
	if err != nil {
		s.logger.Error("Failed to fetch account", zap.Error(err))
		return nil, nil, Internal("Failed to fetch account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, Unauthorized("Incorrect email or password")
	}

	tokens, svcErr := s.issueTokens(account.ID)
	if svcErr != nil {
		return nil, nil, svcErr
	}
	return account, tokens, nil
}

func (s *accountServiceImpl) GetAccount(ctx context.Context, id string) (*models.Account, *ServiceError) {
	account, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("User not found")
	}
	if err != nil {
		s.logger.Error("Failed to fetch account", zap.String("user_id", id), zap.Error(err))
		return nil, Internal("Failed to fetch account", err)
	}
	return account, nil
}

// SetAddress replaces the shipping address. account is not modified.
func (s *accountServiceImpl) SetAddress(ctx context.Context, account models.Account, address string) (*models.Account, *ServiceError) {
	updated := account
	updated.Address = strings.TrimSpace(address)

	err := s.repo.Save(ctx, &updated)
	if errors.Is(err, repository.ErrConflict) {
		return nil, Conflict("Account was modified by another request, please retry", err)
	}
	if err != nil {
		s.logger.Error("Failed to save address", zap.String("user_id", account.ID), zap.Error(err))
		return nil, Internal("Failed to save address", err)
	}
	return &updated, nil
}

func (s *accountServiceImpl) issueTokens(userID string) (*auth.AuthTokens, *ServiceError) {
	tokens, err := s.tokens.GenerateAuthTokens(userID)
	if err != nil {
		s.logger.Error("Failed to issue tokens", zap.String("user_id", userID), zap.Error(err))
		return nil, Internal("Failed to issue tokens", err)
	}
	return tokens, nil
}
