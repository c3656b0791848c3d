package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application"
	appanalysis "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application/analysis"
	appusage "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/application/usage"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/config"
	domai "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/ai"
	domanalysis "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/analysis"
	domdiag "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/diagnostics"
	domusage "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/domain/usage"
	aiclient "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/ai/openai"
	mysqlp "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/db/mysql"
	pgp "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/db/postgres"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/httpserver"
	minioStore "github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/infra/storage"
	"github.com/shanekeen-real/youtube-tos-cursor-sub001/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect database (mysql atau postgres, tergantung driver)
	var (
		db        *sql.DB
		repo      domanalysis.Repository
		usageRepo domusage.Repository
		diagRepo  domdiag.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = pgp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		repo = pgp.NewAnalysisRepository(db)
		usageRepo = pgp.NewUsageRepository(db)
		diagRepo = pgp.NewDiagnosticsRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		repo = mysqlp.NewAnalysisRepository(db)
		usageRepo = mysqlp.NewUsageRepository(db)
		diagRepo = mysqlp.NewDiagnosticsRepository(db)
	}
	defer db.Close()

	// init minio
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init providers (urutan config = urutan fallback)
	if len(cfg.AI.Providers) == 0 {
		log.Fatalf("no ai providers configured")
	}
	providers := make([]domai.Provider, 0, len(cfg.AI.Providers))
	for _, p := range cfg.AI.Providers {
		providers = append(providers, aiclient.NewClient(aiclient.Config{
			Name:        p.Name,
			APIKey:      p.APIKey,
			Endpoint:    p.Endpoint,
			Model:       p.Model,
			VisionModel: p.VisionModel,
			MultiModal:  p.MultiModal,
		}))
	}

	// init quota governor
	clock := application.SystemClock{}
	governor := appusage.NewGovernor(cfg.DailyLimits(), cfg.AI.DefaultDailyLimit, usageRepo, clock)

	// init runner
	policy := appanalysis.DefaultBackoffPolicy()
	if cfg.AI.MaxAttempts > 0 {
		policy.MaxAttempts = cfg.AI.MaxAttempts
	}
	runner := &appanalysis.Runner{
		Providers:   providers,
		Gate:        governor,
		Policy:      policy,
		CallTimeout: cfg.CallTimeout(),
	}

	// init service
	svc := appanalysis.NewService(runner, repo, store, diagRepo, clock, appanalysis.Options{
		EnableAIOrigin: cfg.AI.EnableAIOrigin,
	})

	// init router
	checkers := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
	}
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(svc, governor, checkers, cfg.Auth.APIKeys))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
