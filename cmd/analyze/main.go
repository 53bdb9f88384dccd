// Command analyze mines Google Places reviews of one category in one city and
// prints the demand report.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"review_demand/internal/adapters/export"
	"review_demand/internal/adapters/observability"
	"review_demand/internal/adapters/places"
	redisad "review_demand/internal/adapters/redis"
	"review_demand/internal/app"
	"review_demand/internal/demand"
	"review_demand/internal/domain"
	"review_demand/internal/shared"
	mysqlrepo "review_demand/internal/storage/mysql"
)

const usageExamples = `
Examples:
  analyze -category parks -city Berlin -api-key YOUR_API_KEY
  analyze -category cafes -city München -max-places 15
  GOOGLE_PLACES_API_KEY=... analyze -category restaurants -city Hamburg -o results.json
`

func main() {
	cfg := shared.Load()

	var (
		category   = flag.String("category", "", "category to analyze, e.g. parks, cafes (required)")
		city       = flag.String("city", "", "city to analyze, e.g. Berlin (required)")
		apiKey     = flag.String("api-key", cfg.PlacesKey, "Google Places API key (default $GOOGLE_PLACES_API_KEY)")
		maxPlaces  = flag.Int("max-places", cfg.MaxPlaces, "maximum number of places to analyze")
		minReviews = flag.Int("min-reviews", cfg.MinReviews, "reviews needed for a reliable analysis")
		delay      = flag.Duration("delay", cfg.FetchDelay, "delay between API calls")
		taxonomy   = flag.String("taxonomy", cfg.TaxonomyFile, "JSON feature taxonomy replacing the built-in one")
		output     string
		quiet      bool
	)
	flag.StringVar(&output, "output", "", "save the report as JSON to this file")
	flag.StringVar(&output, "o", "", "shorthand for -output")
	flag.BoolVar(&quiet, "quiet", false, "only print a summary")
	flag.BoolVar(&quiet, "q", false, "shorthand for -quiet")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s -category C -city C [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprint(flag.CommandLine.Output(), usageExamples)
	}
	flag.Parse()

	// logs go to stderr so stdout carries only the report
	log.Logger = observability.NewLoggerTo(os.Stderr, cfg.AppEnv)
	if quiet {
		log.Logger = log.Logger.Level(zerolog.WarnLevel)
	}

	if *category == "" || *city == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *apiKey == "" {
		fmt.Fprintln(os.Stderr, "error: Google Places API key required; pass -api-key or set GOOGLE_PLACES_API_KEY")
		os.Exit(1)
	}
	if len(*apiKey) < 20 {
		log.Warn().Msg("API key seems too short, it may be invalid")
	}

	analyzer, err := demand.LoadAnalyzer(*taxonomy, cfg.VocabularyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load analyzer tables failed")
	}
	client, err := places.New(places.Config{
		BaseURL:        cfg.PlacesBase,
		APIKey:         *apiKey,
		Language:       cfg.PlacesLanguage,
		Delay:          *delay,
		PageTokenDelay: 2 * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Places client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewDemandService(client, optionalCache(ctx, cfg), optionalRepo(ctx, cfg), analyzer, app.Options{
		Workers:  cfg.Workers,
		CacheTTL: cfg.CacheTTL,
	})

	log.Info().
		Str("category", *category).
		Str("city", *city).
		Int("max_places", *maxPlaces).
		Int("min_reviews", *minReviews).
		Msg("analysis starting")

	rep, err := svc.BuildReport(ctx, app.Params{
		Category: *category, City: *city, MinReviews: *minReviews, MaxPlaces: *maxPlaces,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	if quiet {
		err = export.WriteSummary(os.Stdout, rep)
	} else {
		err = export.WriteText(os.Stdout, rep)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("write report failed")
	}

	if output != "" {
		if err := export.WriteFile(output, rep); err != nil {
			log.Fatal().Err(err).Str("path", output).Msg("save report failed")
		}
		fmt.Printf("Results saved to: %s\n", output)
	}
}

// optionalCache returns a Redis cache when REDIS_ADDR is set and reachable.
func optionalCache(ctx context.Context, cfg shared.Config) domain.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := c.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, running without cache")
		return nil
	}
	return c
}

// optionalRepo returns the report history store when MYSQL_DSN is set and reachable.
func optionalRepo(ctx context.Context, cfg shared.Config) domain.ReportRepository {
	if cfg.MySQLDSN == "" {
		return nil
	}
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err == nil {
		err = db.PingContext(ctx)
	}
	if err != nil {
		log.Warn().Err(err).Msg("mysql unavailable, reports will not be stored")
		return nil
	}
	return mysqlrepo.New(db)
}
