package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

type Server struct {
	logger   zerolog.Logger
	sessions *app.SessionManager
	settings *app.SettingsService
	clock    ports.Clock
	bus      ports.EventBus
	// onSettingsUpdated est optionnel (ex: journaliser, recharger un composant).
	onSettingsUpdated func(domain.Settings)

	// LocaleOverride remplace en mémoire la locale des réglages persistés
	// (page, schedule, today). GET /settings montre toujours la valeur stockée.
	LocaleOverride string
}

func NewServer(logger zerolog.Logger, sessions *app.SessionManager, settings *app.SettingsService, clock ports.Clock, bus ports.EventBus, onSettingsUpdated func(domain.Settings)) *Server {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Server{logger: logger, sessions: sessions, settings: settings, clock: clock, bus: bus, onSettingsUpdated: onSettingsUpdated}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	// Flux longs (SSE, WebSocket): pas de timeout de requête.
	if s.sessions != nil {
		streams := NewStreamsHandler(s.logger, s.sessions, s.bus)
		r.Get("/api/v1/sessions/{id}/events", streams.events)
		r.Get("/api/v1/sessions/{id}/ws", streams.socket)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(defaultRequestTimeout))

		r.Get("/", s.handlePage)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleVersion)
			r.Get("/openapi.json", s.handleOpenAPI)

			NewScheduleHandler(s.clock, s.settingsFunc()).Routes(r)

			if s.sessions != nil {
				NewSessionsHandler(s.sessions).Routes(r)
			}
			if s.settings != nil {
				NewSettingsHandler(s.settings, func(updated domain.Settings) {
					if s.sessions != nil {
						s.sessions.ApplySettings(updated)
					}
					if s.onSettingsUpdated != nil {
						s.onSettingsUpdated(updated)
					}
				}).Routes(r)
			}
		})
	})

	return r
}

// settingsFunc renvoie les réglages courants, ou les défauts sans service.
func (s *Server) settingsFunc() func(r *http.Request) domain.Settings {
	return func(r *http.Request) domain.Settings {
		if s.settings == nil {
			return domain.DefaultSettings()
		}
		st, err := app.WithLocaleOverride(s.settings.Get, s.LocaleOverride)(r.Context())
		if err != nil {
			hlog.FromRequest(r).Warn().Err(err).Msg("settings unavailable, using defaults")
			return domain.DefaultSettings()
		}
		return st
	}
}
