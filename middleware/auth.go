package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/veekshithcb/Qkartbackend/auth"
	"github.com/veekshithcb/Qkartbackend/logger"
	"github.com/veekshithcb/Qkartbackend/models"
	"github.com/veekshithcb/Qkartbackend/services"
	"go.uber.org/zap"
)

const (
	UserContextKey    = "userID"
	AccountContextKey = "account"
)

type TokenValidator interface {
	ValidateToken(tokenStr, expectedType string) (string, error)
}

type AccountLoader interface {
	GetAccount(ctx context.Context, id string) (*models.Account, *services.ServiceError)
}

// Authenticate validates the bearer access token and loads the account it
// names. The account is re-read on every request so checkout always sees the
// stored wallet balance and version.
func Authenticate(tokens TokenValidator, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenStr, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
			return
		}

		userID, err := tokens.ValidateToken(tokenStr, auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
			return
		}

		account, svcErr := accounts.GetAccount(c.Request.Context(), userID)
		if svcErr != nil {
			if svcErr.Kind == services.KindNotFound {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Please authenticate"})
				return
			}
			logger.FromContext(c).Error("Failed to load authenticated account",
				zap.String("user_id", userID), zap.Error(svcErr))
			c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
			return
		}

		c.Set(UserContextKey, account.ID)
		c.Set(AccountContextKey, *account)
		c.Next()
	}
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (string, error) {
	if id := c.GetString(UserContextKey); id != "" {
		return id, nil
	}
	return "", errors.New("user ID not found in context")
}

// GetAccount returns the snapshot loaded by Authenticate.
func GetAccount(c *gin.Context) (models.Account, error) {
	if val, ok := c.Get(AccountContextKey); ok {
		if account, ok := val.(models.Account); ok {
			return account, nil
		}
	}
	return models.Account{}, errors.New("account not found in context")
}
