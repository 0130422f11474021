package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"market_sync/internal/feature/marketdata/transport/http/dto"
)

// TokenVerifier validates a signed bearer token.
type TokenVerifier interface {
	Verify(token string) error
}

// RequireTriggerSecret accepts "Bearer <secret>" or, when verifier is set,
// a bearer token the verifier accepts. With neither configured the check is
// disabled.
func RequireTriggerSecret(secret string, verifier TokenVerifier) gin.HandlerFunc {
	want := []byte("Bearer " + secret)
	return func(c *gin.Context) {
		if secret == "" && verifier == nil {
			c.Next()
			return
		}

		auth := c.GetHeader("Authorization")
		if secret != "" && subtle.ConstantTimeCompare([]byte(auth), want) == 1 {
			c.Next()
			return
		}
		if verifier != nil {
			if token, ok := strings.CutPrefix(auth, "Bearer "); ok && verifier.Verify(token) == nil {
				c.Next()
				return
			}
		}

		allowCORS(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	}
}
