package httpapi

import (
	"bytes"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/render"
)

// handlePage monte un widget et rend la page. Sans place libre, la page est
// servie tout de suite en instantané statique (pas d'attente sur le limiteur:
// les clients sans JS ne démontent jamais leur session).
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	settings := s.settingsFunc()(r)
	loc := requestLocale(r, settings.Locale)

	var view app.WidgetView
	mounted := false
	if s.sessions != nil {
		sess, err := s.sessions.Mount(r.Context(), app.MountOptions{Locale: loc.String(), NoWait: true})
		if err == nil {
			view, mounted = sess.View(), true
		} else {
			hlog.FromRequest(r).Warn().Err(err).Msg("widget mount failed, serving static snapshot")
		}
	}
	if !mounted {
		view = app.SnapshotView(s.clock, settings.Title, loc)
	}

	var buf bytes.Buffer
	if err := render.Page(&buf, view); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
