package app

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

const defaultAcquireTimeout = 2 * time.Second

// SessionManager monte et démonte les widgets. Chaque session possède sa
// propre horloge, arrêtée au démontage.
type SessionManager struct {
	parent   context.Context
	logger   zerolog.Logger
	clock    ports.Clock
	bus      ports.EventBus
	slots    *SlotLimiter
	settings func(ctx context.Context) (domain.Settings, error)

	// AcquireTimeout borne l'attente d'une place quand le plafond est atteint.
	AcquireTimeout time.Duration

	mu       sync.Mutex
	sessions map[string]*Session
	closed   bool
}

func NewSessionManager(parent context.Context, logger zerolog.Logger, clock ports.Clock, bus ports.EventBus, settings func(ctx context.Context) (domain.Settings, error)) *SessionManager {
	if parent == nil {
		parent = context.Background()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	maxSessions := domain.DefaultSettings().MaxSessions
	if settings != nil {
		if s, err := settings(parent); err == nil && s.MaxSessions > 0 {
			maxSessions = s.MaxSessions
		}
	}
	return &SessionManager{
		parent:         parent,
		logger:         logger,
		clock:          clock,
		bus:            bus,
		slots:          NewSlotLimiter(maxSessions),
		settings:       settings,
		AcquireTimeout: defaultAcquireTimeout,
		sessions:       map[string]*Session{},
	}
}

// MountOptions surcharge les réglages pour une session (ex: ?locale=en).
type MountOptions struct {
	Locale string
	// NoWait échoue tout de suite avec session_limit quand le plafond est atteint.
	NoWait bool
}

func (m *SessionManager) currentSettings(ctx context.Context) domain.Settings {
	if m.settings == nil {
		return domain.DefaultSettings()
	}
	s, err := m.settings(ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("settings unavailable, using defaults")
		return domain.DefaultSettings()
	}
	return s
}

// Mount crée une session, démarre son horloge et la renvoie déjà échantillonnée
// (Ready vaut vrai si la première lecture d'horloge a réussi).
func (m *SessionManager) Mount(ctx context.Context, opts MountOptions) (*Session, error) {
	m.mu.Lock()
	closed := m.closed
	m.mu.Unlock()
	if closed {
		return nil, errors.New("session manager closed")
	}

	if err := m.acquireSlot(ctx, opts.NoWait); err != nil {
		return nil, &CodedError{Code: CodeSessionLimit, Message: "too many mounted widgets", Err: err}
	}

	settings := m.currentSettings(ctx)
	loc := ResolveLocale(opts.Locale, settings.Locale)
	now := time.Now()

	sess := &Session{
		ID:        xid.New().String(),
		CreatedAt: now,
		Locale:    loc,
		Title:     settings.Title,
		week:      loc.Week(),
		lastSeen:  now,
	}
	sess.release = m.slots.Release

	sessionID := sess.ID
	sess.tracker = NewActiveDayTracker(settings.SelectionMode, func(topic string, st domain.ScheduleState) {
		PublishStateEvent(m.bus, topic, sessionID, st)
	})
	sess.ticker = NewClockTicker(
		m.logger.With().Str("component", "ticker").Str("session_id", sessionID).Logger(),
		m.clock, sess.tracker, loc.FormatTimestamp,
	)
	if iv := settings.TickInterval(); iv > 0 {
		sess.ticker.Interval = iv
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		m.slots.Release()
		return nil, errors.New("session manager closed")
	}
	m.sessions[sessionID] = sess
	m.mu.Unlock()

	PublishStateEvent(m.bus, ports.TopicMounted, sessionID, sess.tracker.Snapshot())
	sess.ticker.Start(m.parent)

	m.logger.Info().
		Str("session_id", sessionID).
		Str("locale", loc.String()).
		Str("mode", string(settings.SelectionMode)).
		Msg("widget mounted")
	return sess, nil
}

var errNoSlot = errors.New("no free slot")

func (m *SessionManager) acquireSlot(ctx context.Context, noWait bool) error {
	if noWait {
		if !m.slots.TryAcquire() {
			return errNoSlot
		}
		return nil
	}
	timeout := m.AcquireTimeout
	if timeout <= 0 {
		timeout = defaultAcquireTimeout
	}
	acquireCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return m.slots.Acquire(acquireCtx)
}

func (m *SessionManager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return sess, nil
}

// Unmount arrête l'horloge de la session et la retire. Après retour, l'état
// n'est plus modifié.
func (m *SessionManager) Unmount(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	if sess.close() {
		PublishStateEvent(m.bus, ports.TopicUnmounted, id, sess.tracker.Snapshot())
		m.logger.Info().Str("session_id", id).Msg("widget unmounted")
	}
	return nil
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// IDs renvoie les sessions montées, triées.
func (m *SessionManager) IDs() []string {
	m.mu.Lock()
	out := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		out = append(out, id)
	}
	m.mu.Unlock()
	sort.Strings(out)
	return out
}

// SweepIdle démonte les sessions inactives depuis plus de idle.
func (m *SessionManager) SweepIdle(now time.Time, idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	m.mu.Lock()
	var stale []string
	for id, sess := range m.sessions {
		if now.Sub(sess.LastSeen()) > idle {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	n := 0
	for _, id := range stale {
		if err := m.Unmount(id); err == nil {
			n++
		}
	}
	return n
}

// ApplySettings ajuste à chaud le plafond de sessions. Locale, mode et
// cadence s'appliquent aux sessions montées ensuite.
func (m *SessionManager) ApplySettings(s domain.Settings) {
	if s.MaxSessions > 0 {
		m.slots.SetLimit(s.MaxSessions)
	}
}

func (m *SessionManager) Slots() *SlotLimiter { return m.slots }

// Close démonte toutes les sessions (arrêt du serveur).
func (m *SessionManager) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	for _, id := range m.IDs() {
		_ = m.Unmount(id)
	}
}
