package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"github.com/Payphone-Digital/marketplace/internal/model"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves a bearer token to the account it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Account, error)
}

type JWTMiddleware struct {
	auth Authenticator
}

func NewJWTMiddleware(auth Authenticator) *JWTMiddleware {
	return &JWTMiddleware{auth: auth}
}

// RequireAuth validates the bearer token and sets the account in context
func (m *JWTMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c.GetHeader(constants.HeaderAuthorization))
		if !ok {
			logger.GetLogger().Warn("Missing or malformed Authorization header",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method))
			c.AbortWithStatusJSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized))
			return
		}

		account, err := m.auth.Authenticate(c.Request.Context(), tokenString)
		if err != nil {
			status := apperrors.ToHTTPStatus(err)
			if status != http.StatusInternalServerError {
				status = http.StatusUnauthorized
			}
			logger.GetLogger().Warn("Authentication rejected",
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
				zap.Error(err))
			c.AbortWithStatusJSON(status, constants.BuildErrorResponse(http.StatusText(status)))
			return
		}

		c.Set(constants.GinKeyAccount, account)
		c.Set(constants.GinKeyAccountID, account.ID)
		c.Set(constants.GinKeyEmail, account.Email)
		c.Request = c.Request.WithContext(ctxutil.WithUserID(c.Request.Context(), account.ID.String()))

		logger.GetLogger().Debug("Account authenticated",
			zap.String("account_id", account.ID.String()),
			zap.String("path", c.Request.URL.Path))

		c.Next()
	}
}

// CurrentAccount returns the account set by RequireAuth.
func CurrentAccount(c *gin.Context) (*model.Account, bool) {
	v, exists := c.Get(constants.GinKeyAccount)
	if !exists {
		return nil, false
	}
	account, ok := v.(*model.Account)
	return account, ok && account != nil
}

func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}
