package main

import (
	"html/template"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/masjid/internal/config"
	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/Nixie-Tech-LLC/masjid/internal/http/api/admin/control/endpoints"
	publicapi "github.com/Nixie-Tech-LLC/masjid/internal/http/api/public/endpoints"
	"github.com/Nixie-Tech-LLC/masjid/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/masjid/internal/metrics"
	"github.com/Nixie-Tech-LLC/masjid/internal/redis"
	"github.com/Nixie-Tech-LLC/masjid/internal/storage"
)

type Dependencies struct {
	Store    db.Store
	Storage  storage.Storage
	Sessions *redis.Sessions // nil when Redis is not configured
	Schedule publicapi.Schedule
}

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Dependencies, tmpl *template.Template) {
	r.SetHTMLTemplate(tmpl)
	r.Use(metrics.Middleware())
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Disposition",
		},
		AllowCredentials: false,
	}))

	// keep the interfaces nil rather than wrapping a nil pointer
	var (
		checker middleware.RevocationChecker
		revoker authapi.SessionRevoker
	)
	if deps.Sessions != nil {
		checker, revoker = deps.Sessions, deps.Sessions
	}

	site := publicapi.Site{
		Name:        cfg.MasjidName,
		City:        cfg.MasjidCity,
		Coordinates: cfg.Coordinates,
		Method:      cfg.PrayerMethod,
		Location:    cfg.Timezone,
		Locale:      cfg.Locale,
	}

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, deps.Store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     deps.Store,
		Sessions:  checker,
	},
		adminapi.EventModule(deps.Store, deps.Storage, cfg.Timezone),
		adminapi.GalleryModule(deps.Store, deps.Storage),
		adminapi.DashboardModule(deps.Store),
		// session endpoints that require auth
		authapi.AuthSessionModule(cfg.JWTSecret, deps.Store, revoker),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
	},
		publicapi.PrayerModule(deps.Schedule, site),
		publicapi.EventsModule(deps.Store, site),
	)

	publicapi.RegisterAthanPage(r, deps.Schedule, site)
	r.GET("/metrics", metrics.Handler())

	if !cfg.UseSpaces {
		r.Static("/uploads", cfg.UploadDir)
	}
}
