package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/wintolabs/farrukhnagar-realty-sub000/internal/storage"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/logger"
	"github.com/wintolabs/farrukhnagar-realty-sub000/pkg/metrics"
)

// multipart framing allowance on top of the file size limit
const formOverhead = 1 << 20

// allowedImages maps accepted content types to the stored extension.
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ObjectStore is the storage the upload API writes to.
type ObjectStore interface {
	UploadFile(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	DeleteFile(ctx context.Context, key string) error
	PublicURL(key string) string
}

// UploadHandler accepts listing images from the admin panel.
type UploadHandler struct {
	store    ObjectStore
	maxBytes int64
}

// NewUploadHandler returns a handler; store may be nil, in which case every
// request answers 503.
func NewUploadHandler(store ObjectStore, maxBytes int64) *UploadHandler {
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}
	return &UploadHandler{store: store, maxBytes: maxBytes}
}

// Register mounts the upload API; admin authorizes every request.
func (h *UploadHandler) Register(r gin.IRouter, admin gin.HandlerFunc) {
	r.POST("/api/uploads", admin, h.Upload)
	r.DELETE("/api/uploads", admin, h.Delete)
}

func (h *UploadHandler) Upload(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Upload service not configured"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+formOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.reject(c, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		h.reject(c, http.StatusBadRequest, "No file provided")
		return
	}
	if fh.Size > h.maxBytes {
		h.reject(c, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	if fh.Size == 0 {
		h.reject(c, http.StatusBadRequest, "File is empty")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.reject(c, http.StatusBadRequest, "Could not read file")
		return
	}
	defer f.Close()

	// sniff the content instead of trusting the client's header
	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.reject(c, http.StatusBadRequest, "Could not read file")
		return
	}
	contentType := mimetype.Detect(head[:n]).String()
	ext, ok := allowedImages[contentType]
	if !ok {
		h.reject(c, http.StatusBadRequest, "Only JPEG, PNG, WebP or GIF images are allowed")
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		h.reject(c, http.StatusBadRequest, "Could not read file")
		return
	}

	key := storage.NewObjectKey(ext)
	if err := h.store.UploadFile(c.Request.Context(), key, f, fh.Size, contentType); err != nil {
		logger.Errorf("upload %s: %v", key, err)
		metrics.Uploads.WithLabelValues("upload", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Upload failed"})
		return
	}
	metrics.Uploads.WithLabelValues("upload", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "url": h.store.PublicURL(key), "key": key})
}

type deleteUploadRequest struct {
	Key string `json:"key"`
}

func (h *UploadHandler) Delete(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Upload service not configured"})
		return
	}
	var req deleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.rejectOp(c, "delete", http.StatusBadRequest, "Invalid request body")
		return
	}
	if !storage.ValidKey(req.Key) {
		h.rejectOp(c, "delete", http.StatusBadRequest, "Invalid key")
		return
	}
	if err := h.store.DeleteFile(c.Request.Context(), req.Key); err != nil {
		logger.Errorf("delete upload %s: %v", req.Key, err)
		metrics.Uploads.WithLabelValues("delete", "error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Delete failed"})
		return
	}
	metrics.Uploads.WithLabelValues("delete", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *UploadHandler) reject(c *gin.Context, status int, msg string) {
	h.rejectOp(c, "upload", status, msg)
}

func (h *UploadHandler) rejectOp(c *gin.Context, op string, status int, msg string) {
	metrics.Uploads.WithLabelValues(op, "rejected").Inc()
	c.JSON(status, gin.H{"success": false, "error": msg})
}
