package handlers

import (
	"net/http"

	"busbooking/internal/domain"

	"github.com/gin-gonic/gin"
)

// RespondDomainError maps domain errors to HTTP responses. Unexpected
// errors never leak their detail to the caller.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		RespondError(c, http.StatusBadRequest, err.Error(), nil)
	case domain.IsNotFound(err):
		RespondError(c, http.StatusNotFound, err.Error(), nil)
	case domain.IsConflict(err):
		RespondError(c, http.StatusConflict, err.Error(), nil)
	default:
		RespondError(c, http.StatusInternalServerError, "terjadi kesalahan", nil)
	}
}
