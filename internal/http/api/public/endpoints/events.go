package endpoints

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/masjid/internal/calendar"
	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/control/packets"
)

const (
	defaultUpcoming  = 3
	maxUpcoming      = 20
	calendarUpcoming = 50
)

type EventsController struct {
	store db.Store
	site  Site
}

// EventsModule mounts the public /events and /gallery endpoints
func EventsModule(store db.Store, site Site) api.Module {
	ctl := &EventsController{store: store, site: site}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/events/upcoming", ctl.upcoming)
		c.PUBLIC_GET("/events/calendar.ics", ctl.calendar)
		c.PUBLIC_GET("/events/:id", ctl.getEvent)
		c.PUBLIC_GET("/events/:id/gallery", ctl.eventGallery)
		c.PUBLIC_GET("/gallery", ctl.gallery)
	})
}

// GET /api/events/upcoming?limit=
func (e *EventsController) upcoming(ctx *gin.Context) (any, *api.Error) {
	limit := defaultUpcoming
	if raw := ctx.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxUpcoming {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "limit must be between 1 and 20"}
		}
		limit = n
	}

	events, err := e.store.ListUpcomingEvents(time.Now(), limit)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not list events"}
	}
	return packets.NewEventResponses(events), nil
}

// GET /api/events/:id
func (e *EventsController) getEvent(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := eventID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	event, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, lookupError(err)
	}
	album, err := e.store.ListGalleryByEvent(id)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not load album"}
	}
	return packets.EventWithAlbumResponse{
		EventResponse: packets.NewEventResponse(event),
		Album:         packets.NewGalleryItemResponses(album),
	}, nil
}

// GET /api/events/:id/gallery
func (e *EventsController) eventGallery(ctx *gin.Context) (any, *api.Error) {
	id, apiErr := eventID(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	if _, err := e.store.GetEventByID(id); err != nil {
		return nil, lookupError(err)
	}
	album, err := e.store.ListGalleryByEvent(id)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not load album"}
	}
	return packets.NewGalleryItemResponses(album), nil
}

// GET /api/gallery
func (e *EventsController) gallery(ctx *gin.Context) (any, *api.Error) {
	items, err := e.store.ListGallery()
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not list gallery"}
	}
	return packets.NewGalleryItemResponses(items), nil
}

// GET /api/events/calendar.ics
func (e *EventsController) calendar(ctx *gin.Context) (any, *api.Error) {
	events, err := e.store.ListUpcomingEvents(time.Now(), calendarUpcoming)
	if err != nil {
		return nil, &api.Error{Code: http.StatusInternalServerError, Message: "could not list events"}
	}
	cal := calendar.Events(e.site.Name, events, e.site.Location, time.Now())
	ctx.Header("Content-Disposition", `attachment; filename="kegiatan.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
	return nil, nil
}

func eventID(ctx *gin.Context) (int, *api.Error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil || id <= 0 {
		return 0, &api.Error{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	return id, nil
}

func lookupError(err error) *api.Error {
	if errors.Is(err, sql.ErrNoRows) {
		return &api.Error{Code: http.StatusNotFound, Message: "not found"}
	}
	return &api.Error{Code: http.StatusInternalServerError, Message: "could not get event"}
}
