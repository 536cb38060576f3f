package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/athan"
	"github.com/Nixie-Tech-LLC/masjid/internal/broker"
	"github.com/Nixie-Tech-LLC/masjid/internal/config"
	"github.com/Nixie-Tech-LLC/masjid/internal/db"
	"github.com/Nixie-Tech-LLC/masjid/internal/logging"
	"github.com/Nixie-Tech-LLC/masjid/internal/metrics"
	"github.com/Nixie-Tech-LLC/masjid/internal/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.Environment)
	metrics.Register()

	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)
	storageSystem := InitStorage(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var sessions *redis.Sessions
	if cfg.RedisAddress != "" {
		s := redis.NewSessions(redis.NewClient(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword))
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := s.Ping(pingCtx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddress).Msg("redis unreachable")
		}
		cancel()
		sessions = s
		log.Info().Str("addr", cfg.RedisAddress).Msg("session revocation enabled")
	} else {
		log.Warn().Msg("REDIS_ADDRESS not set, logout will not revoke tokens")
	}

	var publisher athan.Publisher
	if cfg.MQTTBrokerURL != "" {
		client, err := broker.Connect(cfg.MQTTBrokerURL, cfg.MQTTClientID, cfg.MQTTTopicPrefix)
		if err != nil {
			log.Error().Err(err).Msg("athan announcements disabled")
		} else {
			defer client.Close()
			publisher = client
		}
	}

	broadcaster := athan.New(athan.Config{
		Coordinates: cfg.Coordinates,
		Method:      cfg.PrayerMethod,
		Location:    cfg.Timezone,
		Locale:      cfg.Locale,
	}, publisher)
	broadcasterDone := make(chan struct{})
	go func() {
		defer close(broadcasterDone)
		if err := broadcaster.Run(ctx); err != nil {
			log.Error().Err(err).Msg("athan broadcaster failed")
		}
	}()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	RegisterRoutes(r, cfg, Dependencies{
		Store:    store,
		Storage:  storageSystem,
		Sessions: sessions,
		Schedule: broadcaster,
	}, LoadTemplates())

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.ServerAddress).Str("masjid", cfg.MasjidName).Str("method", cfg.PrayerMethod).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	<-broadcasterDone
	if err := db.DB.Close(); err != nil {
		log.Error().Err(err).Msg("closing database")
	}
	log.Info().Msg("stopped")
}

// requestLogger logs one line per request through zerolog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			event = log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("request")
	}
}
