package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

const DefaultTickInterval = time.Second

// ClockTicker synchronise un ActiveDayTracker avec l'horloge de l'hôte.
// Start échantillonne immédiatement puis à chaque intervalle; Close arrête la
// boucle et attend sa sortie (idempotent).
type ClockTicker struct {
	logger  zerolog.Logger
	clock   ports.Clock
	tracker *ActiveDayTracker
	format  func(time.Time) string

	Interval time.Duration

	mu      sync.Mutex
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewClockTicker(logger zerolog.Logger, clock ports.Clock, tracker *ActiveDayTracker, format func(time.Time) string) *ClockTicker {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if format == nil {
		format = ResolveLocale().FormatTimestamp
	}
	return &ClockTicker{
		logger:   logger,
		clock:    clock,
		tracker:  tracker,
		format:   format,
		Interval: DefaultTickInterval,
		done:     make(chan struct{}),
	}
}

func (k *ClockTicker) Start(parent context.Context) {
	if parent == nil {
		parent = context.Background()
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.started || k.closed {
		return
	}
	k.started = true
	ctx, cancel := context.WithCancel(parent)
	k.cancel = cancel

	// Premier échantillon synchrone: pas de flash "aucun jour actif" au montage.
	k.Sample()
	go k.run(ctx)
}

func (k *ClockTicker) run(ctx context.Context) {
	defer close(k.done)

	interval := k.Interval
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// Close a pu être appelé pendant l'attente: ne pas écrire dans un état détaché.
			if ctx.Err() != nil {
				return
			}
			k.Sample()
		}
	}
}

// Sample lit l'horloge et l'applique au tracker. En cas d'échec la lecture est
// ignorée: ready reste tel quel et le prochain tick réessaie.
func (k *ClockTicker) Sample() bool {
	now, err := k.clock.Now()
	if err != nil {
		k.logger.Warn().Err(err).Msg("clock read failed")
		return false
	}
	if now.IsZero() {
		k.logger.Warn().Msg("clock returned zero time")
		return false
	}
	return k.tracker.applySample(now, k.format(now))
}

// Close libère le timer. Après retour, aucun tick n'écrit plus dans le tracker.
func (k *ClockTicker) Close() {
	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return
	}
	k.closed = true
	started := k.started
	k.mu.Unlock()

	k.tracker.detach()
	if !started {
		return
	}
	k.cancel()
	<-k.done
}
