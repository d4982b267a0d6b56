package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/terra-do-sol/checkin-api/pkg/config"
	appErrors "github.com/terra-do-sol/checkin-api/pkg/errors"
	"github.com/terra-do-sol/checkin-api/pkg/response"
	"github.com/terra-do-sol/checkin-api/pkg/storage"
)

// UploadHandler receives house photos from the public intake form before the
// check-in itself is submitted.
type UploadHandler struct {
	store  *storage.PhotoStore
	cfg    config.UploadsConfig
	logger *zap.Logger
}

func NewUploadHandler(store *storage.PhotoStore, cfg config.UploadsConfig, logger *zap.Logger) *UploadHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadHandler{store: store, cfg: cfg, logger: logger}
}

// UploadHousePhoto godoc
// @Summary      Upload a house photo
// @Description  Stores the photo and returns its public URL for use in a subsequent check-in submission.
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        foto  formData  file  true  "Photo file (JPEG, PNG or WebP)"
// @Success      201   {object}  response.Envelope
// @Failure      400   {object}  response.Envelope
// @Router       /uploads/house-photo [post]
func (h *UploadHandler) UploadHousePhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("foto")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrUpload, "missing foto file field"))
		return
	}
	if fileHeader.Size > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrUpload, "file exceeds the maximum allowed size"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to read uploaded file"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFileSizeBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, "failed to read uploaded file"))
		return
	}
	if int64(len(data)) > h.cfg.MaxFileSizeBytes {
		response.Error(c, appErrors.Clone(appErrors.ErrUpload, "file exceeds the maximum allowed size"))
		return
	}

	// Sniff the actual content instead of trusting the client header.
	contentType := http.DetectContentType(data)
	if !h.mimeAllowed(contentType) {
		response.Error(c, appErrors.Clone(appErrors.ErrUpload, "unsupported image type"))
		return
	}

	url, err := h.store.Save(fileHeader.Filename, data)
	if err != nil {
		h.logger.Error("house photo save failed", zap.Error(err))
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store photo"))
		return
	}

	h.logger.Info("house photo stored", zap.String("url", url), zap.Int("bytes", len(data)))
	response.Created(c, gin.H{"foto_casa_url": url})
}

func (h *UploadHandler) mimeAllowed(contentType string) bool {
	if len(h.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range h.cfg.AllowedMIMEs {
		if contentType == allowed {
			return true
		}
	}
	return false
}
