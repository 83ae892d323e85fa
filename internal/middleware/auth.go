package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/salonbook/booking-api/internal/model"
	"github.com/salonbook/booking-api/pkg/auth"
)

const ContextPrincipal = "principal"

// Auth verifies the bearer token and stores the resulting principal in
// the request context. Tokens are issued by the external identity
// provider; only verification happens here.
func Auth(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "missing authorization header",
			})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		if token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "invalid authorization header format",
			})
			return
		}

		claims, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "invalid token",
			})
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "invalid token subject",
			})
			return
		}

		principal := &model.Principal{
			UserID: userID,
			Role:   model.Role(claims.Role),
		}
		if claims.SalonID != "" {
			if salonID, err := uuid.Parse(claims.SalonID); err == nil {
				principal.SalonID = salonID
			}
		}

		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// PrincipalFromContext returns the verified caller identity set by Auth.
func PrincipalFromContext(c *gin.Context) (*model.Principal, bool) {
	value, exists := c.Get(ContextPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(*model.Principal)
	return principal, ok
}
