package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	userIDKey       = "userID"
)

// RequestID tags every request with a unique ID, honoring one supplied by
// the caller
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("requestID", id)
		c.Next()
	}
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start)
		log.Printf("%s %s %d %s %s", c.Request.Method, c.FullPath(), c.Writer.Status(), duration, c.GetString("requestID"))
	}
}

func CORS(allowOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Requested-With", requestIDHeader},
	}
	if len(allowOrigins) == 1 && allowOrigins[0] == "*" {
		config.AllowAllOrigins = true
		config.AllowOrigins = nil
	}
	return cors.New(config)
}

// Auth enforces the static bearer token when one is configured and derives a
// stable user identity for quota accounting. Without a configured token the
// endpoint is open and users are keyed by client IP.
func Auth(authToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")

		if authToken != "" {
			if !strings.HasPrefix(header, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(authToken)) != 1 {
				respondMessage(c, http.StatusUnauthorized, "unauthorized")
				c.Abort()
				return
			}
		}

		c.Set(userIDKey, userIdentity(token, c.ClientIP()))
		c.Next()
	}
}

// Quota rejects requests from users who exhausted their daily or monthly
// allowance
func Quota(store QuotaChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, err := store.CheckAndReserve(c.Request.Context(), c.GetString(userIDKey))
		if err != nil {
			respondMessage(c, http.StatusInternalServerError, "quota check failed")
			c.Abort()
			return
		}
		if !ok {
			respondMessage(c, http.StatusTooManyRequests, "usage limit reached")
			c.Abort()
			return
		}
		c.Next()
	}
}

// userIdentity never stores raw credentials in the quota database
func userIdentity(token, clientIP string) string {
	if token == "" {
		return "ip:" + clientIP
	}
	sum := sha256.Sum256([]byte(token))
	return "tok:" + hex.EncodeToString(sum[:8])
}
