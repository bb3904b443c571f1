package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemHandlers serves liveness endpoints.
type SystemHandlers struct {
	DB *sql.DB
}

// GET /api/health
func (h SystemHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().Format(time.RFC3339)})
}

// GET /api/db-check
func (h SystemHandlers) DBCheck(c *gin.Context) {
	if h.DB == nil {
		RespondError(c, http.StatusServiceUnavailable, "db tidak tersedia", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.DB.PingContext(ctx); err != nil {
		RespondError(c, http.StatusServiceUnavailable, "db tidak merespon", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
