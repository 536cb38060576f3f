package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/masjid/internal/prayer"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL   string
	MQTTClientID    string
	MQTTTopicPrefix string

	UploadDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string

	MasjidName   string
	MasjidCity   string
	Coordinates  prayer.Coordinates
	PrayerMethod string
	MethodsFile  string
	Timezone     *time.Location
	Locale       string
}

// Load reads configuration from environment variables, seeding them from a
// .env file in the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	cfg := &Config{
		Environment:    getenv("APP_ENV", "production"),
		ServerAddress:  getenv("SERVER_ADDRESS", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      os.Getenv("JWT_SECRET"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL:   os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:    getenv("MQTT_CLIENT_ID", "masjid-server"),
		MQTTTopicPrefix: getenv("MQTT_TOPIC_PREFIX", "masjid"),

		UploadDir:       getenv("UPLOAD_DIR", "./uploads"),
		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),

		MasjidName:   getenv("MASJID_NAME", "Masjid"),
		MasjidCity:   getenv("MASJID_CITY", "Jakarta Pusat"),
		PrayerMethod: getenv("PRAYER_METHOD", "Singapore"),
		MethodsFile:  os.Getenv("PRAYER_METHODS_FILE"),
		Locale:       strings.ToLower(getenv("LOCALE", "id")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.UseSpaces && (cfg.SpacesBucket == "" || cfg.SpacesEndpoint == "") {
		return nil, fmt.Errorf("SPACES_BUCKET and SPACES_ENDPOINT are required when USE_SPACES=true")
	}

	lat, err := getfloat("MASJID_LATITUDE", -6.1702)
	if err != nil {
		return nil, err
	}
	lon, err := getfloat("MASJID_LONGITUDE", 106.8314)
	if err != nil {
		return nil, err
	}
	cfg.Coordinates = prayer.Coordinates{Latitude: lat, Longitude: lon}
	if err := cfg.Coordinates.Validate(); err != nil {
		return nil, fmt.Errorf("MASJID_LATITUDE/MASJID_LONGITUDE: %w", err)
	}

	// extra presets must be registered before the method name is checked
	if cfg.MethodsFile != "" {
		names, err := prayer.LoadMethods(cfg.MethodsFile)
		if err != nil {
			return nil, err
		}
		log.Info().Strs("methods", names).Str("file", cfg.MethodsFile).Msg("registered calculation methods")
	}
	if _, err := prayer.LookupMethod(cfg.PrayerMethod); err != nil {
		return nil, fmt.Errorf("PRAYER_METHOD: %w", err)
	}

	cfg.Timezone, err = time.LoadLocation(getenv("TIMEZONE", "Asia/Jakarta"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getfloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
