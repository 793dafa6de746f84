package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/app"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

const heartbeatInterval = 15 * time.Second

// StreamsHandler pousse l'état d'une session: SSE (lecture seule) ou
// WebSocket (lecture + sélection).
type StreamsHandler struct {
	logger   zerolog.Logger
	sessions *app.SessionManager
	bus      ports.EventBus

	Heartbeat time.Duration
}

func NewStreamsHandler(logger zerolog.Logger, sessions *app.SessionManager, bus ports.EventBus) *StreamsHandler {
	return &StreamsHandler{logger: logger, sessions: sessions, bus: bus, Heartbeat: heartbeatInterval}
}

func (h *StreamsHandler) heartbeat() time.Duration {
	if h.Heartbeat <= 0 {
		return heartbeatInterval
	}
	return h.Heartbeat
}

// events: un event SSE par tick/sélection de la session. Le flux se termine
// au démontage de la session ou à la déconnexion du client.
func (h *StreamsHandler) events(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if h.bus == nil {
		http.Error(w, "events unavailable", http.StatusServiceUnavailable)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// S'abonner avant le premier envoi: aucun tick ne passe entre les deux.
	ch, cancel := h.bus.Subscribe(ports.ForSession(sess.ID))
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	b, _ := json.Marshal(sess.Snapshot())
	writeSSE(w, "state", b)
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat())
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			sess.Touch(time.Now())
			fmt.Fprintf(w, "event: ping\ndata: {}\n\n")
			flusher.Flush()
		case evt, ok := <-ch:
			if !ok {
				return
			}
			sess.Touch(time.Now())
			writeSSE(w, evt.Topic, evt.Payload)
			flusher.Flush()
			if evt.Topic == ports.TopicUnmounted {
				return
			}
		}
	}
}

func writeSSE(w http.ResponseWriter, event string, data []byte) {
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

// socketMessage est échangé dans les deux sens sur le WebSocket.
type socketMessage struct {
	Type     string        `json:"type"`
	DayIndex *int          `json:"dayIndex,omitempty"`
	Label    string        `json:"label,omitempty"`
	State    *app.StateDTO `json:"state,omitempty"`
	Code     string        `json:"code,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// socket: le client envoie {"type":"select","dayIndex":0}; le serveur pousse
// {"type":"widget.tick","state":{...}}. La fermeture du socket démonte la session.
func (h *StreamsHandler) socket(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("websocket accept failed")
		return
	}
	defer conn.CloseNow()

	logger := h.logger.With().Str("component", "ws").Str("session_id", sess.ID).Logger()
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var ch <-chan ports.Event
	if h.bus != nil {
		var unsubscribe func()
		ch, unsubscribe = h.bus.Subscribe(ports.ForSession(sess.ID))
		defer unsubscribe()
	}

	snap := sess.Snapshot()
	if err := writeSocket(ctx, conn, socketMessage{Type: "state", State: &snap}); err != nil {
		return
	}

	go func() {
		defer cancel()
		for {
			var msg socketMessage
			_, data, err := conn.Read(ctx)
			if err != nil {
				return
			}
			sess.Touch(time.Now())
			if err := json.Unmarshal(data, &msg); err != nil {
				_ = writeSocket(ctx, conn, socketMessage{Type: "error", Error: "invalid json"})
				continue
			}
			if reply, ok := h.handleSocketMessage(sess, msg); ok {
				_ = writeSocket(ctx, conn, reply)
			}
		}
	}()

	heartbeat := time.NewTicker(h.heartbeat())
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := h.sessions.Unmount(sess.ID); err == nil {
				logger.Info().Msg("websocket closed, widget unmounted")
			}
			return
		case <-heartbeat.C:
			// Un client qui ne fait qu'écouter reste actif tant qu'il répond au ping.
			pingCtx, cancelPing := context.WithTimeout(ctx, h.heartbeat())
			err := conn.Ping(pingCtx)
			cancelPing()
			if err != nil {
				logger.Debug().Err(err).Msg("websocket ping failed")
				cancel()
				continue
			}
			sess.Touch(time.Now())
		case evt, ok := <-ch:
			if !ok {
				return
			}
			sess.Touch(time.Now())
			var st app.StateDTO
			if err := json.Unmarshal(evt.Payload, &st); err != nil {
				continue
			}
			if err := writeSocket(ctx, conn, socketMessage{Type: evt.Topic, State: &st}); err != nil {
				return
			}
			if evt.Topic == ports.TopicUnmounted {
				_ = conn.Close(websocket.StatusNormalClosure, "unmounted")
				return
			}
		}
	}
}

func (h *StreamsHandler) handleSocketMessage(sess *app.Session, msg socketMessage) (socketMessage, bool) {
	switch msg.Type {
	case "select":
		var err error
		switch {
		case msg.DayIndex != nil:
			err = sess.Select(*msg.DayIndex)
		case msg.Label != "":
			_, err = sess.SelectLabel(msg.Label)
		default:
			err = &app.CodedError{Code: app.CodeInvalidDay, Message: "missing dayIndex or label"}
		}
		if err != nil {
			return socketErr(err), true
		}
		// Le nouvel état arrive par le bus (widget.selected).
		return socketMessage{}, false
	case "ping":
		snap := sess.Snapshot()
		return socketMessage{Type: "state", State: &snap}, true
	default:
		return socketMessage{Type: "error", Error: "unknown message type"}, true
	}
}

func socketErr(err error) socketMessage {
	if errors.Is(err, app.ErrNotFound) {
		return socketMessage{Type: "error", Code: "not_found", Error: "session unmounted"}
	}
	return socketMessage{Type: "error", Code: app.CodeOf(err), Error: err.Error()}
}

func writeSocket(ctx context.Context, conn *websocket.Conn, msg socketMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, b)
}
