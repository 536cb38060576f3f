package endpoints

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/storage"
)

const maxImagesPerUpload = 30

type GalleryController struct {
	store   db.Store
	storage storage.Storage
}

func newGalleryController(store db.Store, storage storage.Storage) *GalleryController {
	return &GalleryController{store: store, storage: storage}
}

// GalleryModule mounts all authenticated /gallery endpoints
func GalleryModule(store db.Store, storage storage.Storage) api.Module {
	ctl := newGalleryController(store, storage)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/gallery", ctl.listGallery)
		c.POST("/gallery", ctl.uploadImages)
		c.DELETE("/gallery/:id", ctl.deleteImage)
	})
}

func (c *GalleryController) listGallery(ctx *gin.Context, user *model.User) (any, *api.Error) {
	items, err := c.store.ListGallery()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not list gallery"}
	}
	return packets.NewGalleryItemResponses(items), nil
}

// uploadImages stores every file in the "images" field. With an event_id the
// photos form that event's album.
func (c *GalleryController) uploadImages(ctx *gin.Context, user *model.User) (any, *api.Error) {
	var form packets.GalleryForm
	if err := ctx.ShouldBind(&form); err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	multipart, err := ctx.MultipartForm()
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "multipart form required"}
	}
	files := multipart.File["images"]
	if len(files) == 0 {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "at least one image is required"}
	}
	if len(files) > maxImagesPerUpload {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: fmt.Sprintf("at most %d images per upload", maxImagesPerUpload)}
	}
	for _, f := range files {
		if !isImage(f.Filename) {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: fmt.Sprintf("%s is not an image", f.Filename)}
		}
	}

	caption := blankToNil(form.Caption)
	var eventID *int
	if form.EventID != nil && *form.EventID > 0 {
		event, err := c.store.GetEventByID(*form.EventID)
		if err != nil {
			return nil, notFoundOr(err, "could not get event")
		}
		eventID = &event.ID
		if caption == nil {
			album := "Album: " + event.Title
			caption = &album
		}
	}

	items := make([]model.GalleryItem, 0, len(files))
	for _, f := range files {
		url, err := c.storage.SaveFile(f, storage.GalleryFolder)
		if err != nil {
			log.Error().Err(err).Str("file", f.Filename).Msg("[gallery] save failed")
			c.discardAll(items)
			return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not save file"}
		}
		items = append(items, model.GalleryItem{Caption: caption, ImageURL: url, EventID: eventID})
	}

	created, err := c.store.CreateGalleryItems(items)
	if err != nil {
		c.discardAll(items)
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not save gallery"}
	}

	log.Info().Int("count", len(created)).Int("user", user.ID).Msg("[gallery] uploaded")
	return packets.NewGalleryItemResponses(created), nil
}

func (c *GalleryController) deleteImage(ctx *gin.Context, user *model.User) (any, *api.Error) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	item, err := c.store.GetGalleryItemByID(id)
	if err != nil {
		return nil, notFoundOr(err, "could not get image")
	}
	if err := c.store.DeleteGalleryItem(id); err != nil {
		return nil, notFoundOr(err, "could not delete image")
	}
	c.discardAll([]model.GalleryItem{item})
	return nil, nil
}

func (c *GalleryController) discardAll(items []model.GalleryItem) {
	for _, it := range items {
		if err := c.storage.DeleteFile(it.ImageURL); err != nil {
			log.Warn().Err(err).Str("url", it.ImageURL).Msg("could not delete stored file")
		}
	}
}

func isImage(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return true
	}
	return false
}
