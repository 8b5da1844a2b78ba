// Command server runs the recruitment assistant HTTP API.
//
// Startup order:
//  1. Load .env + environment configuration
//  2. Configure logging (level, optional rotating file sink)
//  3. Initialize OpenTelemetry tracing (no-op unless enabled)
//  4. Open sqlite, migrate, seed the slot pool when empty
//  5. Build the dialog engine (router, scheduling flow, info advisor, LLM clients)
//  6. Serve the Gin router with graceful shutdown
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/go-recruit-assistant/internal/agent"
	"github.com/tbourn/go-recruit-assistant/internal/config"
	"github.com/tbourn/go-recruit-assistant/internal/exit"
	httpapi "github.com/tbourn/go-recruit-assistant/internal/http"
	"github.com/tbourn/go-recruit-assistant/internal/info"
	"github.com/tbourn/go-recruit-assistant/internal/llm"
	"github.com/tbourn/go-recruit-assistant/internal/observability"
	"github.com/tbourn/go-recruit-assistant/internal/repo"
	"github.com/tbourn/go-recruit-assistant/internal/schedule"
	"github.com/tbourn/go-recruit-assistant/internal/search"
	"github.com/tbourn/go-recruit-assistant/internal/services"
	"github.com/tbourn/go-recruit-assistant/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.MustLoad()

	sysutil.SetLogLevel(cfg.Log.Level)
	log.Logger = zerolog.New(sysutil.NewLogWriter(
		cfg.Log.File, cfg.Log.Pretty, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups, cfg.Log.MaxAgeDays,
	)).With().Timestamp().Logger()

	gin.SetMode(cfg.GinMode)

	ctx := context.Background()
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate failed")
	}
	if err := repo.SeedSlots(ctx, db, cfg.SchedulePath); err != nil {
		log.Warn().Err(err).Str("path", cfg.SchedulePath).Msg("slot seeding skipped")
	}

	engine := buildEngine(db, cfg)
	defer engine.Close()

	r := gin.New()
	httpapi.RegisterRoutes(r, db, engine, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("otel shutdown failed")
	}
}

// buildEngine wires the dialog engine. LLM-backed pieces (chat fallback, exit
// oracle) stay nil without an API key; the engine degrades to fixed apologies
// and keyword-only routing, which keeps local development offline-friendly.
func buildEngine(db *gorm.DB, cfg config.Config) *agent.Engine {
	var oracle exit.Oracle
	var chat agent.Responder
	if cfg.LLM.APIKey != "" {
		chat = llm.NewClient(cfg.LLM.APIKey, cfg.LLM.ChatModels, cfg.LLM.Timeout)
		oracle = llm.NewExitOracle(cfg.LLM.APIKey, cfg.LLM.ExitModel, cfg.LLM.Timeout)
	} else {
		log.Warn().Msg("no LLM API key; chat fallback and end-of-conversation detection degraded")
	}

	exitAdv := exit.NewAdvisor(oracle)
	exitAdv.Threshold = cfg.ExitThreshold
	exitAdv.Window = cfg.ExitHistoryWindow

	flow := agent.NewFlow(&schedule.Store{DB: db})
	flow.PageSize = cfg.SlotPageSize

	var infoAdv agent.InfoAdvisor
	if idx, err := search.NewJobSpecIndex(cfg.JobSpecPath); err != nil {
		log.Warn().Err(err).Str("path", cfg.JobSpecPath).Msg("job spec index unavailable")
	} else {
		infoAdv = info.NewAdvisor(idx, cfg.InfoThreshold)
	}

	return agent.NewEngine(
		&agent.Router{Exit: exitAdv},
		flow,
		infoAdv,
		chat,
		&services.TranscriptStore{DB: db},
	)
}
