package app

import (
	"sync"
	"time"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

// ActiveDayTracker détient le ScheduleState d'un widget.
// Écrivains: le ClockTicker (applySample) et la sélection (SetActiveDay).
// Après detach, plus aucune mutation n'est appliquée ni publiée.
type ActiveDayTracker struct {
	// pubMu sérialise mutation + publication: les abonnés voient les états
	// dans l'ordre des révisions. Toujours pris avant mu.
	pubMu sync.Mutex

	mu       sync.Mutex
	state    domain.ScheduleState
	mode     domain.SelectionMode
	clockDay int
	detached bool

	// onChange est appelé hors de mu (sous pubMu) avec le topic et l'état après mutation.
	onChange func(topic string, st domain.ScheduleState)
}

func NewActiveDayTracker(mode domain.SelectionMode, onChange func(string, domain.ScheduleState)) *ActiveDayTracker {
	if !mode.Valid() {
		mode = domain.SelectionFollowClock
	}
	return &ActiveDayTracker{
		state:    domain.NewScheduleState(),
		mode:     mode,
		clockDay: domain.NoActiveDay,
		onChange: onChange,
	}
}

// ActiveDay renvoie le jour actif, ok=false tant qu'aucun n'est connu.
func (t *ActiveDayTracker) ActiveDay() (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.ActiveDay, t.state.HasActiveDay()
}

// SetActiveDay applique une sélection utilisateur. L'appelant fournit un index
// issu de la table des jours; la validation d'entrées externes se fait en amont.
func (t *ActiveDayTracker) SetActiveDay(index int) {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()

	t.mu.Lock()
	if t.detached {
		t.mu.Unlock()
		return
	}
	t.state.ActiveDay = index
	t.state.SelectedByUser = true
	t.state.Revision++
	st := t.state
	t.mu.Unlock()

	t.notify(ports.TopicSelected, st)
}

func (t *ActiveDayTracker) Snapshot() domain.ScheduleState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// applySample écrit un échantillon d'horloge. Renvoie false si le tracker est détaché.
func (t *ActiveDayTracker) applySample(now time.Time, formatted string) bool {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()

	t.mu.Lock()
	if t.detached {
		t.mu.Unlock()
		return false
	}

	day := int(now.Weekday())
	dayChanged := t.clockDay != day
	t.clockDay = day

	keepSelection := t.state.SelectedByUser &&
		t.mode == domain.SelectionHoldUntilDayChange &&
		!dayChanged
	if !keepSelection {
		t.state.ActiveDay = day
		t.state.SelectedByUser = false
	}

	t.state.DisplayTimestamp = formatted
	t.state.LastTickAt = now
	t.state.Ticks++
	t.state.Revision++

	topic := ports.TopicTick
	if !t.state.Ready {
		t.state.Ready = true
		topic = ports.TopicReady
	}
	st := t.state
	t.mu.Unlock()

	t.notify(topic, st)
	return true
}

// detach attend la fin d'une publication en cours: rien n'est publié après.
func (t *ActiveDayTracker) detach() {
	t.pubMu.Lock()
	defer t.pubMu.Unlock()
	t.mu.Lock()
	t.detached = true
	t.mu.Unlock()
}

func (t *ActiveDayTracker) notify(topic string, st domain.ScheduleState) {
	if t.onChange != nil {
		t.onChange(topic, st)
	}
}
