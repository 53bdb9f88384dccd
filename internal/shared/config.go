package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	PlacesBase     string
	PlacesKey      string
	PlacesLanguage string
	FetchDelay     time.Duration
	Workers        int
	MaxPlaces      int
	MinReviews     int
	CacheTTL       time.Duration
	RequestTimeout time.Duration
	TaxonomyFile   string
	VocabularyFile string
}

// Load reads the environment, after merging a local .env if there is one. Values
// already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("ignoring unreadable .env")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		PlacesBase:     env("PLACES_BASE_URL", "https://maps.googleapis.com/maps/api/place"),
		PlacesKey:      env("GOOGLE_PLACES_API_KEY", ""),
		PlacesLanguage: env("PLACES_LANGUAGE", "de"),
		FetchDelay:     time.Duration(atoi("FETCH_DELAY_MS", 1000)) * time.Millisecond,
		Workers:        atoi("FETCH_WORKERS", 4),
		MaxPlaces:      atoi("MAX_PLACES", 30),
		MinReviews:     atoi("MIN_REVIEWS", 100),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		TaxonomyFile:   env("TAXONOMY_FILE", ""),
		VocabularyFile: env("VOCABULARY_FILE", ""),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
