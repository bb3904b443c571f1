package handlers

import (
	"io"
	"net/http"

	"busbooking/internal/uploads"

	"github.com/gin-gonic/gin"
)

// UploadHandlers stores customer document files referenced by bookings.
type UploadHandlers struct {
	Store *uploads.Store
}

// POST /api/uploads (multipart: file, booking_id)
func (h UploadHandlers) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file wajib diisi", err)
		return
	}

	src, err := file.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file tidak bisa dibaca", err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file tidak bisa dibaca", err)
		return
	}

	filename, err := h.Store.Save(file.Filename, data, c.PostForm("booking_id"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"filename": filename,
		"message":  "upload berhasil",
	})
}
