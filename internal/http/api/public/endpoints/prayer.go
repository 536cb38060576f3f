package endpoints

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/athan"
	"github.com/Nixie-Tech-LLC/masjid/internal/calendar"
	"github.com/Nixie-Tech-LLC/masjid/internal/format"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/masjid/internal/metrics"
	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

const monthLayout = "2006-01"

// Schedule serves the current day's prayer times. *athan.Broadcaster implements it.
type Schedule interface {
	Snapshot() (athan.Snapshot, error)
}

// Site describes the mosque the public pages are about.
type Site struct {
	Name        string
	City        string
	Coordinates prayer.Coordinates
	Method      string
	Location    *time.Location
	Locale      string
}

type PrayerController struct {
	schedule Schedule
	site     Site
}

// PrayerModule mounts the public /prayer endpoints
func PrayerModule(schedule Schedule, site Site) api.Module {
	ctl := &PrayerController{schedule: schedule, site: site}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/prayer/today", ctl.today)
		c.PUBLIC_GET("/prayer/next", ctl.next)
		c.PUBLIC_GET("/prayer/date/:date", ctl.byDate)
		c.PUBLIC_GET("/prayer/month", ctl.month)
		c.PUBLIC_GET("/prayer/methods", ctl.methods)
		c.PUBLIC_GET("/prayer/calendar.ics", ctl.calendar)
	})
}

// GET /api/prayer/today
func (p *PrayerController) today(ctx *gin.Context) (any, *api.Error) {
	snap, err := p.schedule.Snapshot()
	if err != nil {
		return nil, prayerError(err)
	}

	day := p.day(snap.Times)
	current, hasCurrent := prayer.CurrentPrayer(snap.Now, snap.Times)
	for i := range day.Prayers {
		key := prayer.Prayers[i]
		day.Prayers[i].Next = key == snap.Next.Prayer && snap.Next.Time.Equal(snap.Times.Time(key))
		day.Prayers[i].Current = hasCurrent && key == current
	}
	return packets.TodayResponse{DayResponse: day, Next: p.nextResponse(snap.Next)}, nil
}

// GET /api/prayer/next
func (p *PrayerController) next(ctx *gin.Context) (any, *api.Error) {
	snap, err := p.schedule.Snapshot()
	if err != nil {
		return nil, prayerError(err)
	}
	return p.nextResponse(snap.Next), nil
}

// GET /api/prayer/date/:date?method=
func (p *PrayerController) byDate(ctx *gin.Context) (any, *api.Error) {
	date, err := prayer.ParseDate(ctx.Param("date"))
	if err != nil {
		return nil, &api.Error{Code: http.StatusBadRequest, Message: "date must be YYYY-MM-DD"}
	}
	method := p.methodParam(ctx)

	set, err := prayer.ComputePrayerTimes(p.site.Coordinates, date, method)
	metrics.ObservePrayer(method, err)
	if err != nil {
		return nil, prayerError(err)
	}
	return p.day(set), nil
}

// GET /api/prayer/month?month=YYYY-MM&method=
func (p *PrayerController) month(ctx *gin.Context) (any, *api.Error) {
	sets, apiErr := p.monthSchedule(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	out := make([]packets.DayResponse, 0, len(sets))
	for _, set := range sets {
		out = append(out, p.day(set))
	}
	return out, nil
}

// GET /api/prayer/methods
func (p *PrayerController) methods(ctx *gin.Context) (any, *api.Error) {
	names := prayer.MethodNames()
	out := packets.MethodsResponse{Default: p.site.Method, Methods: make([]prayer.Method, 0, len(names))}
	for _, name := range names {
		m, err := prayer.LookupMethod(name)
		if err != nil {
			continue
		}
		out.Methods = append(out.Methods, m)
	}
	return out, nil
}

// GET /api/prayer/calendar.ics?month=YYYY-MM&method=
func (p *PrayerController) calendar(ctx *gin.Context) (any, *api.Error) {
	sets, apiErr := p.monthSchedule(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	cal := calendar.Prayers(p.site.Name, sets, p.site.Location, p.site.Locale, time.Now())
	ctx.Header("Content-Disposition", `attachment; filename="jadwal-sholat.ics"`)
	ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
	return nil, nil
}

func (p *PrayerController) monthSchedule(ctx *gin.Context) ([]prayer.PrayerTimeSet, *api.Error) {
	month := time.Now().In(p.site.Location)
	if raw := ctx.Query("month"); raw != "" {
		parsed, err := time.Parse(monthLayout, raw)
		if err != nil {
			return nil, &api.Error{Code: http.StatusBadRequest, Message: "month must be YYYY-MM"}
		}
		month = parsed
	}
	method := p.methodParam(ctx)

	sets, err := calendar.MonthSchedule(p.site.Coordinates, method, month.Year(), month.Month())
	metrics.ObservePrayer(method, err)
	if err != nil {
		return nil, prayerError(err)
	}
	return sets, nil
}

func (p *PrayerController) methodParam(ctx *gin.Context) string {
	if m := strings.TrimSpace(ctx.Query("method")); m != "" {
		return m
	}
	return p.site.Method
}

func (p *PrayerController) day(set prayer.PrayerTimeSet) packets.DayResponse {
	row := func(key, label string, t time.Time) packets.PrayerTime {
		return packets.PrayerTime{Key: key, Label: label, Time: t, Clock: format.Clock(t, p.site.Location)}
	}

	out := packets.DayResponse{
		Date:     set.Date.String(),
		Method:   set.Method,
		Timezone: p.site.Location.String(),
		Prayers:  make([]packets.PrayerTime, 0, len(prayer.Prayers)),
		Sunrise:  row("sunrise", sunLabel("sunrise", p.site.Locale), set.Sunrise),
		Sunset:   row("sunset", sunLabel("sunset", p.site.Locale), set.Sunset),
	}
	for _, key := range prayer.Prayers {
		out.Prayers = append(out.Prayers, row(key.String(), key.Label(p.site.Locale), set.Time(key)))
	}
	return out
}

func (p *PrayerController) nextResponse(n prayer.NextPrayer) packets.NextResponse {
	return packets.NextResponse{
		Prayer:           n.Prayer.String(),
		Label:            n.Prayer.Label(p.site.Locale),
		Time:             n.Time,
		Clock:            format.Clock(n.Time, p.site.Location),
		SecondsRemaining: n.SecondsRemaining(),
		Remaining:        format.Remaining(n.Remaining),
	}
}

func sunLabel(key, locale string) string {
	if locale == "id" {
		return map[string]string{"sunrise": "Terbit", "sunset": "Terbenam"}[key]
	}
	return map[string]string{"sunrise": "Sunrise", "sunset": "Sunset"}[key]
}

// prayerError maps engine failures to HTTP status codes.
func prayerError(err error) *api.Error {
	switch {
	case errors.Is(err, prayer.ErrInvalidCoordinates), errors.Is(err, prayer.ErrUnknownMethod):
		return &api.Error{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, prayer.ErrNoSolarSolution):
		return &api.Error{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	default:
		log.Error().Err(err).Msg("prayer time lookup failed")
		return &api.Error{Code: http.StatusInternalServerError, Message: "could not compute prayer times"}
	}
}
