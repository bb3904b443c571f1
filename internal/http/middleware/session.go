package middleware

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const sessionIDKey = "session_id"

// SessionHeader carries the caller's session token on every request.
const SessionHeader = "X-Session-Token"

// Session resolves the caller's holder identity. A valid session token
// wins; without one the connection address is used, which breaks hold
// ownership across reconnects, hence the warning.
func Session(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := ""
		if token := c.GetHeader(SessionHeader); token != "" {
			sid = parseSessionID(token, secret)
			if sid == "" {
				log.Printf("[SESSION] token tidak valid dari %s", c.Request.RemoteAddr)
			}
		}
		if sid == "" {
			sid = c.Request.RemoteAddr
			log.Printf("[SESSION] request %s tanpa session token, pakai connection id", c.Request.RemoteAddr)
		}
		c.Set(sessionIDKey, sid)
		c.Next()
	}
}

func parseSessionID(token string, secret []byte) string {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return ""
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}

// GetSessionID returns the holder identity set by Session.
func GetSessionID(c *gin.Context) string {
	if v, ok := c.Get(sessionIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return c.Request.RemoteAddr
}
