package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/httpjson"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

// ScheduleHandler sert les données figées et l'horloge, sans session.
type ScheduleHandler struct {
	clock    ports.Clock
	settings func(r *http.Request) domain.Settings
}

func NewScheduleHandler(clock ports.Clock, settings func(r *http.Request) domain.Settings) *ScheduleHandler {
	return &ScheduleHandler{clock: clock, settings: settings}
}

func (h *ScheduleHandler) Routes(r chi.Router) {
	r.Get("/schedule", h.week)
	r.Get("/legend", h.legend)
	r.Get("/today", h.today)
	r.Get("/view", h.view)
}

type weekResponse struct {
	Locale string `json:"locale"`
	domain.Week
}

func (h *ScheduleHandler) week(w http.ResponseWriter, r *http.Request) {
	loc := requestLocale(r, h.settings(r).Locale)
	httpjson.Write(w, http.StatusOK, weekResponse{Locale: loc.String(), Week: loc.Week()})
}

func (h *ScheduleHandler) legend(w http.ResponseWriter, r *http.Request) {
	loc := requestLocale(r, h.settings(r).Locale)
	httpjson.Write(w, http.StatusOK, app.BuildLegend(loc))
}

func (h *ScheduleHandler) today(w http.ResponseWriter, r *http.Request) {
	loc := requestLocale(r, h.settings(r).Locale)
	today, err := app.Today(h.clock, loc)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, today)
}

// view renvoie un instantané complet (utilisé par l'export du CLI).
func (h *ScheduleHandler) view(w http.ResponseWriter, r *http.Request) {
	settings := h.settings(r)
	loc := requestLocale(r, settings.Locale)
	httpjson.Write(w, http.StatusOK, app.SnapshotView(h.clock, settings.Title, loc))
}
