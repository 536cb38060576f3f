package endpoints

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/format"
	"github.com/Nixie-Tech-LLC/masjid/internal/model"
	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

const athanTemplate = "athan.html"

// RegisterAthanPage serves the full-screen athan board for the mosque's
// displays. The engine must have athan.html loaded.
func RegisterAthanPage(r gin.IRoutes, schedule Schedule, site Site) {
	r.GET("/athan", func(ctx *gin.Context) {
		snap, err := schedule.Snapshot()
		if err != nil {
			log.Error().Err(err).Msg("athan page without schedule")
			ctx.String(http.StatusServiceUnavailable, "prayer times unavailable")
			return
		}
		ctx.HTML(http.StatusOK, athanTemplate, athanPage(snap.Times, snap.Next, site))
	})
}

func athanPage(set prayer.PrayerTimeSet, next prayer.NextPrayer, site Site) model.AthanPageData {
	prayers := make([]model.Prayer, 0, len(prayer.Prayers))
	for _, p := range prayer.Prayers {
		clock, period := format.Clock12(set.Time(p), site.Location)
		prayers = append(prayers, model.Prayer{
			Key:    p.String(),
			Name:   p.Label(site.Locale),
			Time:   clock,
			Period: period,
			Next:   p == next.Prayer && next.Time.Equal(set.Time(p)),
		})
	}

	return model.AthanPageData{
		Masjid:    site.Name,
		City:      site.City,
		Date:      format.LongDate(set.Date.Midnight(site.Location), site.Locale),
		Prayers:   prayers,
		Sunrise:   format.Clock(set.Sunrise, site.Location),
		NextName:  next.Prayer.Label(site.Locale),
		NextTime:  format.Clock(next.Time, site.Location),
		Remaining: format.Remaining(next.Remaining),
	}
}
