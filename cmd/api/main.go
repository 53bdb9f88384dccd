package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "review_demand/internal/adapters/http_server"
	"review_demand/internal/adapters/observability"
	"review_demand/internal/adapters/places"
	redisad "review_demand/internal/adapters/redis"
	"review_demand/internal/app"
	"review_demand/internal/demand"
	"review_demand/internal/domain"
	"review_demand/internal/shared"
	mysqlrepo "review_demand/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, observability.MetricsHandler(reg))

	analyzer, err := demand.LoadAnalyzer(cfg.TaxonomyFile, cfg.VocabularyFile)
	if err != nil {
		log.Fatal().Err(err).Msg("load analyzer tables failed")
	}
	client, err := places.New(places.Config{
		BaseURL:        cfg.PlacesBase,
		APIKey:         cfg.PlacesKey,
		Language:       cfg.PlacesLanguage,
		Delay:          cfg.FetchDelay,
		PageTokenDelay: 2 * time.Second,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Places client (GOOGLE_PLACES_API_KEY)")
	}

	// db
	var repo domain.ReportRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo = mysqlrepo.New(db)
	} else {
		log.Warn().Msg("MYSQL_DSN is empty, reports will not be stored")
	}

	// cache
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		cache = redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	}

	svc := app.NewDemandService(client, cache, repo, analyzer, app.Options{
		Workers:  cfg.Workers,
		CacheTTL: cfg.CacheTTL,
	})

	// http
	srv := server.New(cfg.RequestTimeout)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Svc: svc})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
