package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/visionaryvybes/Archi-sub000/internal/providers/blob"
)

// multipart framing allowance on top of the blob size limit
const uploadOverhead = 1 << 20

// Upload stores an image sent as the multipart field "file" and returns its
// blob reference. Set it as the original image to restyle it.
func (h *Handlers) Upload(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are disabled"})
		return
	}

	maxSize := h.blobs.MaxSize()
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxSize+uploadOverhead))

	header, err := c.FormFile("file")
	if err != nil {
		h.metrics.RecordUpload("rejected")
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": blob.ErrTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	f, err := header.Open()
	if err != nil {
		h.metrics.RecordUpload("error")
		h.fail(c, err)
		return
	}
	defer f.Close()

	// One extra byte lets Save detect an oversized file
	data, err := io.ReadAll(io.LimitReader(f, int64(maxSize)+1))
	if err != nil {
		h.metrics.RecordUpload("error")
		h.fail(c, err)
		return
	}

	info, err := h.blobs.Save(c.Request.Context(), data)
	if err != nil {
		if statusFor(err) < http.StatusInternalServerError {
			h.metrics.RecordUpload("rejected")
		} else {
			h.metrics.RecordUpload("error")
		}
		h.fail(c, err)
		return
	}

	h.metrics.RecordUpload("success")
	h.logger.Info("Image uploaded",
		zap.String("ref", info.Ref),
		zap.String("mime", info.MIME),
		zap.Int("size", info.Size),
		zap.String("filename", header.Filename))
	c.JSON(http.StatusCreated, info)
}

// GetUpload serves the bytes behind a blob reference
func (h *Handlers) GetUpload(c *gin.Context) {
	if h.blobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads are disabled"})
		return
	}

	data, err := h.blobs.Read(c.Request.Context(), blob.RefPrefix+c.Param("key"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}
