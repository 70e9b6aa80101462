package middleware

import (
	"net/http"

	"tourism/internal/access"
	"tourism/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Authorize checks collection level access for kind. Record level checks
// (ownership) happen in the handlers once the record is loaded.
func Authorize(kind access.Kind, action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if p.IsZero() && !(kind == access.KindPlace && action == access.ActionRead) {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		if !access.CanAccess(p, access.Collection(kind), action) {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}
