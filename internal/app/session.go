package app

import (
	"sync"
	"time"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

// Session est un widget monté: son état, son horloge et ses métadonnées.
// Elle est créée par SessionManager.Mount et libérée par Unmount.
type Session struct {
	ID        string
	CreatedAt time.Time
	Locale    Locale
	Title     string

	week    domain.Week
	tracker *ActiveDayTracker
	ticker  *ClockTicker

	mu       sync.Mutex
	lastSeen time.Time
	closed   bool
	release  func()
}

func (s *Session) Week() domain.Week { return s.week }

func (s *Session) State() domain.ScheduleState { return s.tracker.Snapshot() }

func (s *Session) Snapshot() StateDTO { return ToStateDTO(s.ID, s.tracker.Snapshot()) }

func (s *Session) View() WidgetView {
	return BuildView(s.Title, s.Locale, s.week, s.ID, s.tracker.Snapshot())
}

// Select applique le clic sur une case du jour dayIndex.
func (s *Session) Select(dayIndex int) error {
	if _, ok := s.week.Day(dayIndex); !ok {
		return &CodedError{Code: CodeInvalidDay, Message: "unknown day index"}
	}
	if s.isClosed() {
		return ErrNotFound
	}
	s.tracker.SetActiveDay(dayIndex)
	return nil
}

// SelectLabel sélectionne un jour par libellé ("QUA", "wed", "sáb").
func (s *Session) SelectLabel(label string) (int, error) {
	idx, ok := MatchDayLabel(s.week, label)
	if !ok {
		return domain.NoActiveDay, &CodedError{Code: CodeInvalidDay, Message: "unknown day label: " + label}
	}
	return idx, s.Select(idx)
}

func (s *Session) Touch(now time.Time) {
	s.mu.Lock()
	if now.After(s.lastSeen) {
		s.lastSeen = now
	}
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// close arrête l'horloge puis rend la place au limiteur. Idempotent.
func (s *Session) close() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	release := s.release
	s.release = nil
	s.mu.Unlock()

	s.ticker.Close()
	if release != nil {
		release()
	}
	return true
}
