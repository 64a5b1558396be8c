package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/catalog_assistant/internal/utils"
)

const sessionIDKey = "session_id"

// SessionMiddleware resolves the session id from a Bearer session token.
type SessionMiddleware struct {
	signer      *utils.TokenSigner
	rateLimiter *InvalidTokenRateLimiter
}

// NewSessionMiddleware constructs a new SessionMiddleware.
func NewSessionMiddleware(signer *utils.TokenSigner) *SessionMiddleware {
	return &SessionMiddleware{
		signer:      signer,
		rateLimiter: NewInvalidTokenRateLimiter(5, time.Minute),
	}
}

// Handle returns a Gin middleware function that requires a valid session token.
// EventSource clients cannot set headers, so a token query parameter is also accepted.
func (m *SessionMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				m.handleAuthError(c, "UNAUTHORIZED", "Invalid authorization header")
				return
			}
			token = parts[1]
		}
		if token == "" {
			m.handleAuthError(c, "UNAUTHORIZED", "Missing session token")
			return
		}

		claims, err := m.signer.Validate(token)
		if err != nil {
			m.handleAuthError(c, "INVALID_TOKEN", "Invalid or expired session token")
			return
		}

		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

func (m *SessionMiddleware) handleAuthError(c *gin.Context, code, message string) {
	// Apply rate limit for invalid token attempts
	if !m.rateLimiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid session tokens")
		c.Abort()
		return
	}

	utils.Error(c, 401, code, message)
	c.Abort()
}

// GetSessionID returns the session id set by SessionMiddleware.
func GetSessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
