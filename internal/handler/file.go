package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/blob"
)

var contentTypeByExt = map[string]string{
	".jpg": "image/jpeg",
	".png": "image/png",
	".gif": "image/gif",
	".pdf": "application/pdf",
}

// FileHandler serves stored document and image blobs
type FileHandler struct {
	blobs blob.Store
}

// NewFileHandler creates the blob download handler
func NewFileHandler(blobs blob.Store) *FileHandler {
	return &FileHandler{blobs: blobs}
}

// Download streams the blob referenced by the handle path parameter
func (h *FileHandler) Download(c echo.Context) error {
	handle := c.Param("handle")

	data, err := h.blobs.Fetch(handle)
	if errors.Is(err, blob.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "file not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to read file"})
	}

	contentType := contentTypeByExt[strings.ToLower(filepath.Ext(handle))]
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.Blob(http.StatusOK, contentType, data)
}
