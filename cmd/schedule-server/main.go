package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Guilhem-Bonnet/study-schedule/internal/adapters/httpapi"
	"github.com/Guilhem-Bonnet/study-schedule/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/study-schedule/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/buildinfo"
	"github.com/Guilhem-Bonnet/study-schedule/internal/config"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite (ex: schedule.db)")
	locale := flag.String("locale", def.Locale, "Locale forcée pour cette exécution, non persistée (ex: pt-BR, en-US)")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("app", "schedule-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("db", *dbPath).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	bus := memorybus.New()
	defer bus.Close()
	settingsSvc := app.NewSettingsService(sqlite.NewSettingsRepository(db.SQL), bus)

	// -locale s'applique en mémoire: les réglages stockés restent inchangés.
	settingsFn := app.WithLocaleOverride(settingsSvc.Get, *locale)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sessions := app.NewSessionManager(shutdownCtx, logger.With().Str("component", "sessions").Logger(), ports.SystemClock{}, bus, settingsFn)
	defer sessions.Close()
	if s, err := settingsFn(ctx); err == nil {
		sessions.ApplySettings(s)
		logger.Info().Int("max_sessions", s.MaxSessions).Str("locale", s.Locale).Str("selection_mode", string(s.SelectionMode)).Msg("settings loaded")
	}

	// Sweeper: démonte les widgets dont le client a disparu.
	sweeper := app.NewIdleSweeper(logger.With().Str("component", "sweeper").Logger(), sessions, settingsFn)
	go sweeper.Run(shutdownCtx)

	srv := httpapi.NewServer(logger, sessions, settingsSvc, ports.SystemClock{}, bus, nil)
	srv.LocaleOverride = *locale
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// Démonter d'abord: les flux SSE/WS se terminent sur widget.unmounted.
	sessions.Close()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}
