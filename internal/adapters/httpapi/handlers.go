package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/buildinfo"
	"github.com/Guilhem-Bonnet/study-schedule/internal/httpjson"
)

const defaultRequestTimeout = 30 * time.Second

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.sessions != nil {
		body["sessions"] = s.sessions.Count()
	}
	httpjson.Write(w, http.StatusOK, body)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, buildinfo.Current())
}

func accessLogFn(r *http.Request, status, size int, duration time.Duration) {
	logger := hlog.FromRequest(r)
	logger.Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("http")
}

// writeAppError traduit les erreurs applicatives en statut HTTP + code stable.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, app.ErrNotFound) {
		httpjson.WriteCode(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	switch code := app.CodeOf(err); code {
	case app.CodeInvalidDay, app.CodeInvalidSettings:
		httpjson.WriteCode(w, http.StatusBadRequest, code, err.Error())
	case app.CodeSessionLimit:
		httpjson.WriteCode(w, http.StatusTooManyRequests, code, err.Error())
	case app.CodeClockUnavailable:
		httpjson.WriteCode(w, http.StatusServiceUnavailable, code, err.Error())
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

// requestLocale: ?locale= puis Accept-Language puis réglages.
func requestLocale(r *http.Request, fallback string) app.Locale {
	return app.ResolveLocale(r.URL.Query().Get("locale"), r.Header.Get("Accept-Language"), fallback)
}
