package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cleberrangel/time-perception-api/internal/cache"
	"github.com/cleberrangel/time-perception-api/internal/config"
	"github.com/cleberrangel/time-perception-api/internal/database"
	"github.com/cleberrangel/time-perception-api/internal/handler"
	"github.com/cleberrangel/time-perception-api/internal/logger"
	"github.com/cleberrangel/time-perception-api/internal/metrics"
	"github.com/cleberrangel/time-perception-api/internal/middleware"
	"github.com/cleberrangel/time-perception-api/internal/migration"
	"github.com/cleberrangel/time-perception-api/internal/repository"
	"github.com/cleberrangel/time-perception-api/internal/service"
	"github.com/cleberrangel/time-perception-api/internal/websocket"
	"github.com/gin-gonic/gin"
)

const Version = "1.0.0"

func main() {
	// Carrega configurações
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Erro ao carregar configurações: %v", err)
	}

	// Inicializa logger estruturado
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	log := logger.Global()
	log.Info().
		Str("version", Version).
		Str("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Bool("log_json", cfg.LogJSON).
		Int("trend_window_days", cfg.TrendWindowDays).
		Dur("insights_cache_ttl", cfg.InsightsCacheTTL).
		Msg("Time Perception API iniciando")

	metrics.Init()

	// Banco de dados
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Erro ao conectar ao banco de dados")
	}
	defer database.Close(db)

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := migration.NewMigrator(db).Run(migrateCtx); err != nil {
		cancelMigrate()
		log.Fatal().Err(err).Msg("Erro ao executar migrations")
	}
	cancelMigrate()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Inicializa dependências
	entryRepo := repository.NewEntryRepository(db)
	insightCache := cache.New[any](cfg.InsightsCacheTTL)
	defer insightCache.Stop()

	hub := websocket.NewHub()
	go hub.Run(ctx)

	entryService := service.NewEntryService(entryRepo, insightCache, hub)
	insightService := service.NewInsightService(entryRepo, insightCache, cfg.TrendWindowDays)
	exportService := service.NewExportService(entryRepo, insightService)

	// Configura modo do Gin
	gin.SetMode(cfg.GinMode)

	r := handler.NewRouter(handler.Handlers{
		Health:    handler.NewHealthHandler(db, hub, Version),
		Entries:   handler.NewEntryHandler(entryService),
		Insights:  handler.NewInsightHandler(insightService),
		Export:    handler.NewExportHandler(exportService),
		WebSocket: handler.NewWebSocketHandler(hub),
	}, handler.RouterOptions{
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        middleware.NewRateLimiter(cfg.RateLimitPerMinute),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Servidor iniciando")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Erro ao iniciar servidor")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Encerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Erro no encerramento do servidor")
	}
}
