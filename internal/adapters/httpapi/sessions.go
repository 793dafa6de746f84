package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/httpjson"
	"github.com/Guilhem-Bonnet/study-schedule/internal/render"
)

type SessionsHandler struct {
	sessions *app.SessionManager
}

func NewSessionsHandler(sessions *app.SessionManager) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

func (h *SessionsHandler) Routes(r chi.Router) {
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.mount)
		r.Get("/{id}", h.get)
		r.Get("/{id}/view", h.view)
		r.Get("/{id}/widget", h.widget)
		r.Post("/{id}/select", h.selectDay)
		r.Delete("/{id}", h.unmount)
	})
}

// SelectRequest: dayIndex prioritaire, sinon label ("QUA", "wed").
type SelectRequest struct {
	DayIndex *int   `json:"dayIndex,omitempty"`
	Label    string `json:"label,omitempty"`
}

type mountRequest struct {
	Locale string `json:"locale,omitempty"`
}

func (h *SessionsHandler) mount(w http.ResponseWriter, r *http.Request) {
	var req mountRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}
	}
	locale := req.Locale
	if locale == "" {
		locale = r.URL.Query().Get("locale")
	}
	if locale == "" {
		locale = r.Header.Get("Accept-Language")
	}

	sess, err := h.sessions.Mount(r.Context(), app.MountOptions{Locale: locale})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, sess.View())
}

// session charge la session de l'URL et note l'activité; écrit l'erreur sinon.
func (h *SessionsHandler) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return nil, false
	}
	sess.Touch(time.Now())
	return sess, true
}

func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httpjson.Write(w, http.StatusOK, sess.Snapshot())
}

func (h *SessionsHandler) view(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	httpjson.Write(w, http.StatusOK, sess.View())
}

func (h *SessionsHandler) widget(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render.Widget(&buf, sess.View()); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}

func (h *SessionsHandler) selectDay(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	var err error
	switch {
	case req.DayIndex != nil:
		err = sess.Select(*req.DayIndex)
	case req.Label != "":
		_, err = sess.SelectLabel(req.Label)
	default:
		httpjson.WriteCode(w, http.StatusBadRequest, app.CodeInvalidDay, "missing dayIndex or label")
		return
	}
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, sess.Snapshot())
}

func (h *SessionsHandler) unmount(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Unmount(chi.URLParam(r, "id")); err != nil {
		writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
