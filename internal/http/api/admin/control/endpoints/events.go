package endpoints

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/storage"
)

const localTimeLayout = "2006-01-02T15:04"

type EventController struct {
	store   db.Store
	storage storage.Storage
	loc     *time.Location
}

func newEventController(store db.Store, storage storage.Storage, loc *time.Location) *EventController {
	return &EventController{store: store, storage: storage, loc: loc}
}

// EventModule mounts all authenticated /events endpoints
func EventModule(store db.Store, storage storage.Storage, loc *time.Location) api.Module {
	ctl := newEventController(store, storage, loc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/events", ctl.listEvents)
		c.GET("/events/:id", ctl.getEvent)
		c.POST("/events", ctl.createEvent)
		c.PUT("/events/:id", ctl.updateEvent)
		c.DELETE("/events/:id", ctl.deleteEvent)
	})
}

func (c *EventController) listEvents(ctx *gin.Context, user *model.User) (any, *api.Error) {
	events, err := c.store.ListEvents()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not list events"}
	}
	return packets.NewEventResponses(events), nil
}

func (c *EventController) getEvent(ctx *gin.Context, user *model.User) (any, *api.Error) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	event, err := c.store.GetEventByID(id)
	if err != nil {
		return nil, notFoundOr(err, "could not get event")
	}
	return packets.NewEventResponse(event), nil
}

func (c *EventController) createEvent(ctx *gin.Context, user *model.User) (any, *api.Error) {
	fields, apiErr := c.bindEventForm(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if fields.Title == nil || fields.DateStart == nil {
		log.Warn().Msg("[events] createEvent: missing required form fields")
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "title and date_start are required"}
	}
	if fields.DateEnd != nil && fields.DateEnd.Before(*fields.DateStart) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "date_end is before date_start"}
	}

	poster, apiErr := c.savePoster(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	fields.ImageURL = poster

	event, err := c.store.CreateEvent(*fields.Title, *fields.DateStart, fields)
	if err != nil {
		log.Error().Err(err).Msg("[events] createEvent: db create failed")
		c.discard(poster)
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not create event"}
	}

	log.Info().Int("id", event.ID).Int("user", user.ID).Str("title", event.Title).Msg("[events] created")
	return packets.NewEventResponse(event), nil
}

func (c *EventController) updateEvent(ctx *gin.Context, user *model.User) (any, *api.Error) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	existing, err := c.store.GetEventByID(id)
	if err != nil {
		return nil, notFoundOr(err, "could not get event")
	}

	fields, apiErr := c.bindEventForm(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	start := existing.DateStart
	if fields.DateStart != nil {
		start = *fields.DateStart
	}
	end := existing.DateEnd
	if fields.DateEnd != nil {
		end = fields.DateEnd
	}
	if end != nil && end.Before(start) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "date_end is before date_start"}
	}

	poster, apiErr := c.savePoster(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	fields.ImageURL = poster

	if err := c.store.UpdateEvent(id, fields); err != nil {
		c.discard(poster)
		return nil, notFoundOr(err, "could not update event")
	}
	if poster != nil {
		c.discard(existing.ImageURL)
	}

	updated, err := c.store.GetEventByID(id)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not fetch updated event"}
	}
	return packets.NewEventResponse(updated), nil
}

func (c *EventController) deleteEvent(ctx *gin.Context, user *model.User) (any, *api.Error) {
	id, apiErr := paramID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	existing, err := c.store.GetEventByID(id)
	if err != nil {
		return nil, notFoundOr(err, "could not get event")
	}
	if err := c.store.DeleteEvent(id); err != nil {
		return nil, notFoundOr(err, "could not delete event")
	}
	c.discard(existing.ImageURL)

	log.Info().Int("id", id).Int("user", user.ID).Msg("[events] deleted")
	return nil, nil
}

func (c *EventController) bindEventForm(ctx *gin.Context) (db.EventFields, *api.Error) {
	var form packets.EventForm
	if err := ctx.ShouldBind(&form); err != nil {
		return db.EventFields{}, &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	}

	fields := db.EventFields{
		Title:       blankToNil(form.Title),
		Description: blankToNil(form.Description),
		Location:    blankToNil(form.Location),
		Category:    blankToNil(form.Category),
	}
	var err error
	if fields.DateStart, err = c.parseTime(blankToNil(form.DateStart)); err != nil {
		return db.EventFields{}, &api.Error{Code: http.StatusBadRequest, Message: "invalid date_start: " + err.Error()}
	}
	if fields.DateEnd, err = c.parseTime(blankToNil(form.DateEnd)); err != nil {
		return db.EventFields{}, &api.Error{Code: http.StatusBadRequest, Message: "invalid date_end: " + err.Error()}
	}
	return fields, nil
}

// parseTime accepts RFC 3339 or a wall time in the mosque's zone.
func (c *EventController) parseTime(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(localTimeLayout, *raw, c.loc)
	if err != nil {
		return nil, fmt.Errorf("want RFC 3339 or %s", localTimeLayout)
	}
	return &t, nil
}

// savePoster stores the optional "poster" upload.
func (c *EventController) savePoster(ctx *gin.Context) (*string, *api.Error) {
	fileHeader, err := ctx.FormFile("poster")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "invalid poster upload"}
	}
	if !isImage(fileHeader.Filename) {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "poster must be an image"}
	}
	url, err := c.storage.SaveFile(fileHeader, storage.EventsFolder)
	if err != nil {
		log.Error().Err(err).Msg("[events] poster save failed")
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not save file"}
	}
	return &url, nil
}

func (c *EventController) discard(url *string) {
	if url == nil {
		return
	}
	if err := c.storage.DeleteFile(*url); err != nil {
		log.Warn().Err(err).Str("url", *url).Msg("could not delete stored file")
	}
}

func paramID(ctx *gin.Context) (int, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		log.Warn().Str("id", ctx.Param("id")).Msg("invalid id")
		return 0, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return id, nil
}

func notFoundOr(err error, message string) *api.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return &api.Error{Code: http.StatusNotFound, Message: "not found"}
	}
	return &api.Error{Code: http.StatusInternalServerError, Message: message}
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
