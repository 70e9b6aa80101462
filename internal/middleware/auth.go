package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"tourism/internal/access"
	"tourism/internal/domain"
	"tourism/internal/pkg/jwt"
	"tourism/internal/pkg/response"
	"tourism/internal/repository"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// AccountLoader resolves the account a token was issued for.
type AccountLoader interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWTAuth requires a Bearer token, loads the account it names and stores the
// resulting principal on the gin and request contexts.
func JWTAuth(tokens *jwt.Service, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		authenticate(c, tokens, accounts, strings.TrimSpace(parts[1]))
	}
}

// JWTQueryAuth reads the token from the access_token query parameter. Browsers
// cannot set headers on websocket upgrades.
func JWTQueryAuth(tokens *jwt.Service, accounts AccountLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.Query("access_token"))
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "access_token query parameter is required")
			return
		}
		authenticate(c, tokens, accounts, token)
	}
}

func authenticate(c *gin.Context, tokens *jwt.Service, accounts AccountLoader, token string) {
	claims, err := tokens.ValidateToken(token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Not authorized, token failed")
		return
	}

	user, err := accounts.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Abort(c, http.StatusUnauthorized, "USER_NOT_FOUND", "Not authorized, user not found")
			return
		}
		_ = c.Error(err)
		response.Abort(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load account")
		return
	}

	p := access.Principal{AccountID: user.ID, Username: user.Username, Role: user.Role}
	c.Set(principalKey, p)
	c.Set("user_id", p.AccountID)
	c.Set("role", string(p.Role))
	c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), p))

	c.Next()
}

// CurrentPrincipal returns the principal set by JWTAuth, or the zero value for
// anonymous requests.
func CurrentPrincipal(c *gin.Context) access.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.Principal{}
}
