package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionHandlers issues holder tokens. Clients carry the token across
// reconnects so their holds stay theirs.
type SessionHandlers struct {
	Secret []byte
}

// POST /api/session
func (h SessionHandlers) Create(c *gin.Context) {
	sid := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "gagal membuat token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sid,
		"token":      signed,
	})
}
