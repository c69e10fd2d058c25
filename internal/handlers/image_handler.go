package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/httperr"
	"github.com/BruksfildServices01/court-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
)

const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImageStore is the object storage behind complex images.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
}

type ImageHandler struct {
	db    *gorm.DB
	store ImageStore
	audit *audit.Dispatcher
}

func NewImageHandler(db *gorm.DB, store ImageStore, audit *audit.Dispatcher) *ImageHandler {
	return &ImageHandler{db: db, store: store, audit: audit}
}

// Upload stores a multipart "image" file. The first image of a complex,
// or one sent with isMain=true, becomes the main image.
func (h *ImageHandler) Upload(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		httperr.BadRequest(c, "missing_image", "An image file is required.")
		return
	}
	if fh.Size > maxImageBytes {
		httperr.BadRequest(c, "image_too_large", "Images must be at most 5 MB.")
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not read the uploaded file.")
		return
	}
	defer f.Close()

	// sniff instead of trusting the client's content type
	head := make([]byte, 512)
	n, _ := io.ReadFull(f, head)
	contentType := http.DetectContentType(head[:n])
	if !allowedImageTypes[contentType] {
		httperr.BadRequest(c, "unsupported_image_type", "Only JPEG, PNG and WebP images are accepted.")
		return
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		httperr.BadRequest(c, "invalid_image", "Could not read the uploaded file.")
		return
	}

	ctx := c.Request.Context()
	key := storage.ImageKey(cx.ID, fh.Filename)

	url, err := h.store.Put(ctx, key, contentType, f)
	if err != nil {
		if errors.Is(err, storage.ErrDisabled) {
			httperr.Unavailable(c, "image_storage_disabled", "Image uploads are not available.")
			return
		}
		log.Ctx(ctx).Error().Err(err).Uint("complex_id", cx.ID).Msg("image upload failed")
		httperr.Internal(c, "failed_to_upload_image", "Failed to upload image.")
		return
	}

	var count int64
	h.db.WithContext(ctx).Model(&models.ComplexImage{}).Where("complex_id = ?", cx.ID).Count(&count)

	img := models.ComplexImage{
		ComplexID:  cx.ID,
		URL:        url,
		StorageKey: key,
		IsMain:     count == 0 || strings.EqualFold(c.PostForm("isMain"), "true"),
		Position:   int(count),
	}

	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if img.IsMain {
			if err := tx.Model(&models.ComplexImage{}).
				Where("complex_id = ?", cx.ID).
				Update("is_main", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&img).Error
	})
	if err != nil {
		_ = h.store.Delete(ctx, key)
		httperr.Internal(c, "failed_to_save_image", "Failed to save image.")
		return
	}

	writeAudit(c, h.audit, cx.ID, "image_uploaded", "complex_image", img.ID, nil)
	httpresp.Created(c, img)
}

func (h *ImageHandler) SetMain(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}
	img, ok := h.loadImage(c, cx.ID)
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ComplexImage{}).
			Where("complex_id = ?", cx.ID).
			Update("is_main", false).Error; err != nil {
			return err
		}
		return tx.Model(img).Update("is_main", true).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_image", "Failed to update image.")
		return
	}

	img.IsMain = true
	httpresp.OK(c, img)
}

func (h *ImageHandler) Delete(c *gin.Context) {
	cx, ok := loadOwnedComplex(c, h.db, "id")
	if !ok {
		return
	}
	img, ok := h.loadImage(c, cx.ID)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.db.WithContext(ctx).Delete(img).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_image", "Failed to delete image.")
		return
	}

	if img.StorageKey != "" {
		if err := h.store.Delete(ctx, img.StorageKey); err != nil {
			// the row is gone; an orphaned object is only logged
			log.Ctx(ctx).Warn().Err(err).Str("key", img.StorageKey).Msg("image object delete failed")
		}
	}

	writeAudit(c, h.audit, cx.ID, "image_deleted", "complex_image", img.ID, nil)
	httpresp.OK(c, gin.H{"status": "deleted"})
}

func (h *ImageHandler) loadImage(c *gin.Context, complexID uint) (*models.ComplexImage, bool) {
	id, ok := idParam(c, "imageId")
	if !ok {
		return nil, false
	}

	var img models.ComplexImage
	if err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND complex_id = ?", id, complexID).
		First(&img).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "image_not_found", "Image not found.")
			return nil, false
		}
		httperr.Internal(c, "failed_to_get_image", "Failed to load image.")
		return nil, false
	}
	return &img, true
}
