package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PrayerComputations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "masjid_prayer_computations_total", Help: "Prayer time computations by method and result"},
		[]string{"method", "result"},
	)
	AthanAnnouncements = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "masjid_athan_announcements_total", Help: "Athan announcements published per prayer"},
		[]string{"prayer"},
	)
	AthanPublishErrors = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "masjid_athan_publish_errors_total", Help: "Failed athan announcement publishes"},
	)
	NextPrayerSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "masjid_next_prayer_seconds", Help: "Seconds until the next prayer"},
	)
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "masjid_http_requests_total", Help: "HTTP requests by route and status"},
		[]string{"method", "route", "status"},
	)
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "masjid_http_request_duration_seconds", Help: "HTTP request latency", Buckets: prometheus.DefBuckets},
		[]string{"method", "route"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			PrayerComputations,
			AthanAnnouncements,
			AthanPublishErrors,
			NextPrayerSeconds,
			HTTPRequests,
			HTTPDuration,
		)
	})
}

// ObservePrayer counts one computation; err == nil is a success.
func ObservePrayer(method string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	PrayerComputations.WithLabelValues(method, result).Inc()
}

// Handler serves the default registry at /metrics.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

// Middleware records request counts and latency keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
