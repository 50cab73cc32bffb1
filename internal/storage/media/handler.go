package media

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/studioform/onboarding-backend/internal/api/http/respond"
	"github.com/studioform/onboarding-backend/internal/platform/logger"
	"github.com/studioform/onboarding-backend/internal/projects/domain"
)

// MaxUploadBytes caps a single upload.
const MaxUploadBytes = 10 << 20

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

type Handler struct {
	store Store
	log   *logger.Logger
}

func NewHandler(store Store, log *logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

// Register attaches upload routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.upload)
	rg.GET("/:id", h.download)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "file is required")
		return
	}
	if fh.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file exceeds 10 MiB")
		return
	}

	f, err := fh.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unreadable file")
		return
	}
	defer f.Close()

	body, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "unreadable file")
		return
	}
	if len(body) > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file exceeds 10 MiB")
		return
	}

	mt := mimetype.Detect(body)
	if !allowedTypes[mt.String()] {
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported file type "+mt.String())
		return
	}

	id := uuid.NewString()
	ref := domain.MediaRef{
		ID:          id,
		Name:        filepath.Base(fh.Filename),
		Key:         KeyFor(id),
		ContentType: mt.String(),
		Size:        int64(len(body)),
	}
	if err := h.store.Put(c.Request.Context(), ref.Key, ref.ContentType, bytes.NewReader(body), ref.Size); err != nil {
		h.log.Error("media upload failed", "key", ref.Key, "error", err)
		respond.Error(c, http.StatusInternalServerError, "could not store file")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "media": ref})
}

func (h *Handler) download(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(c, http.StatusNotFound, "media not found")
		return
	}

	b, contentType, err := ReadAll(c.Request.Context(), h.store, KeyFor(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "media not found")
			return
		}
		h.log.Error("media read failed", "id", id, "error", err)
		respond.Error(c, http.StatusInternalServerError, "could not read file")
		return
	}
	c.Data(http.StatusOK, contentType, b)
}
