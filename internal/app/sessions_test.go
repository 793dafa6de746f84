package app

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/study-schedule/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

func staticSettings(s domain.Settings) func(context.Context) (domain.Settings, error) {
	return func(context.Context) (domain.Settings, error) { return s, nil }
}

func newTestManager(t *testing.T, clock ports.Clock, settings domain.Settings) (*SessionManager, *memorybus.Bus) {
	t.Helper()
	bus := memorybus.New()
	m := NewSessionManager(context.Background(), zerolog.Nop(), clock, bus, staticSettings(settings))
	m.AcquireTimeout = 50 * time.Millisecond
	t.Cleanup(m.Close)
	return m, bus
}

func fastSettings() domain.Settings {
	s := domain.DefaultSettings()
	s.TickIntervalMillis = 10
	return s
}

func TestSessionManager_MountRendersWednesday(t *testing.T) {
	m, _ := newTestManager(t, newFakeClock(wednesday), fastSettings())

	sess, err := m.Mount(context.Background(), MountOptions{})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	v := sess.View()
	if !v.State.Ready {
		t.Fatalf("expected ready view after mount")
	}
	highlighted := 0
	for _, c := range v.Cards {
		if c.Highlighted {
			highlighted++
			if c.DayIndex != 3 || c.Label != "QUA" {
				t.Fatalf("wrong highlighted card %+v", c)
			}
		}
	}
	if highlighted != 1 {
		t.Fatalf("want exactly one highlighted card, got %d", highlighted)
	}
}

func TestSessionManager_SelectThenTickReverts(t *testing.T) {
	m, _ := newTestManager(t, newFakeClock(wednesday), fastSettings())
	sess, err := m.Mount(context.Background(), MountOptions{})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := sess.Select(0); err != nil {
		t.Fatalf("Select: %v", err)
	}
	ticks := sess.State().Ticks
	waitFor(t, "tick after select", func() bool { return sess.State().Ticks > ticks })
	if got := sess.State().ActiveDay; got != 3 {
		t.Fatalf("want clock day 3 after tick, got %d", got)
	}

	if err := sess.Select(7); CodeOf(err) != CodeInvalidDay {
		t.Fatalf("expected invalid_day, got %v", err)
	}
	if idx, err := sess.SelectLabel("dom"); err != nil || idx != 0 {
		t.Fatalf("SelectLabel(dom): idx=%d err=%v", idx, err)
	}
	if _, err := sess.SelectLabel("funday"); CodeOf(err) != CodeInvalidDay {
		t.Fatalf("expected invalid_day for unknown label, got %v", err)
	}
}

func TestSessionManager_LocaleOverride(t *testing.T) {
	m, _ := newTestManager(t, newFakeClock(wednesday), fastSettings())
	sess, err := m.Mount(context.Background(), MountOptions{Locale: "en-GB"})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if sess.Locale.String() != "en-US" {
		t.Fatalf("locale: want en-US, got %s", sess.Locale)
	}
	if d, _ := sess.Week().Day(3); d.Label != "WED" {
		t.Fatalf("label: want WED, got %q", d.Label)
	}
	if ts := sess.State().DisplayTimestamp; ts != "10/21/2026, 2:03:05 PM" {
		t.Fatalf("timestamp: got %q", ts)
	}
}

func TestSessionManager_UnmountStopsTicksAndPublishes(t *testing.T) {
	clock := newFakeClock(wednesday)
	m, bus := newTestManager(t, clock, fastSettings())
	sess, err := m.Mount(context.Background(), MountOptions{})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	events, cancel := bus.Subscribe(ports.ForSession(sess.ID))
	defer cancel()

	waitFor(t, "ticks", func() bool { return sess.State().Ticks >= 2 })
	if err := m.Unmount(sess.ID); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if err := m.Unmount(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second Unmount: want ErrNotFound, got %v", err)
	}
	if _, err := m.Get(sess.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after Unmount: want ErrNotFound, got %v", err)
	}

	frozen := sess.State()
	time.Sleep(50 * time.Millisecond)
	if sess.State() != frozen {
		t.Fatalf("state mutated after unmount")
	}
	if err := sess.Select(1); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Select after unmount: want ErrNotFound, got %v", err)
	}

	sawUnmounted := false
	for !sawUnmounted {
		select {
		case evt := <-events:
			if evt.Topic == ports.TopicUnmounted {
				var dto StateDTO
				if err := json.Unmarshal(evt.Payload, &dto); err != nil {
					t.Fatalf("payload: %v", err)
				}
				if dto.SessionID != sess.ID {
					t.Fatalf("payload session: %q", dto.SessionID)
				}
				sawUnmounted = true
			}
		case <-time.After(time.Second):
			t.Fatalf("no unmounted event")
		}
	}
	if m.Slots().InUse() != 0 {
		t.Fatalf("slot not released: %d in use", m.Slots().InUse())
	}
}

func TestSessionManager_SessionLimit(t *testing.T) {
	s := fastSettings()
	s.MaxSessions = 1
	m, _ := newTestManager(t, newFakeClock(wednesday), s)

	first, err := m.Mount(context.Background(), MountOptions{})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := m.Mount(context.Background(), MountOptions{}); CodeOf(err) != CodeSessionLimit {
		t.Fatalf("expected session_limit, got %v", err)
	}

	m.ApplySettings(domain.Settings{MaxSessions: 2})
	if _, err := m.Mount(context.Background(), MountOptions{}); err != nil {
		t.Fatalf("Mount after raising limit: %v", err)
	}
	if m.Count() != 2 {
		t.Fatalf("want 2 sessions, got %d", m.Count())
	}

	_ = m.Unmount(first.ID)
	if m.Count() != 1 {
		t.Fatalf("want 1 session, got %d", m.Count())
	}
}

func TestSessionManager_NoWaitFailsFast(t *testing.T) {
	s := fastSettings()
	s.MaxSessions = 1
	m, _ := newTestManager(t, newFakeClock(wednesday), s)
	m.AcquireTimeout = 5 * time.Second

	if _, err := m.Mount(context.Background(), MountOptions{NoWait: true}); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	start := time.Now()
	_, err := m.Mount(context.Background(), MountOptions{NoWait: true})
	if CodeOf(err) != CodeSessionLimit {
		t.Fatalf("expected session_limit, got %v", err)
	}
	if d := time.Since(start); d > time.Second {
		t.Fatalf("NoWait mount waited %v", d)
	}
	if m.Slots().InUse() != 1 {
		t.Fatalf("failed mount must not hold a slot, %d in use", m.Slots().InUse())
	}
}

func TestSessionManager_SweepIdleAndClose(t *testing.T) {
	m, _ := newTestManager(t, newFakeClock(wednesday), fastSettings())
	stale, _ := m.Mount(context.Background(), MountOptions{})
	fresh, _ := m.Mount(context.Background(), MountOptions{})

	now := time.Now().Add(10 * time.Minute)
	fresh.Touch(now)

	if n := m.SweepIdle(now, 5*time.Minute); n != 1 {
		t.Fatalf("want 1 swept session, got %d", n)
	}
	if _, err := m.Get(stale.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("stale session still mounted")
	}

	m.Close()
	if m.Count() != 0 {
		t.Fatalf("Close left %d sessions", m.Count())
	}
	if _, err := m.Mount(context.Background(), MountOptions{}); err == nil {
		t.Fatalf("Mount after Close should fail")
	}
}

func TestIdleSweeper_UsesSettingsTimeout(t *testing.T) {
	s := fastSettings()
	s.IdleTimeoutSeconds = 60
	m, _ := newTestManager(t, newFakeClock(wednesday), s)
	sess, _ := m.Mount(context.Background(), MountOptions{})

	sw := NewIdleSweeper(zerolog.Nop(), m, staticSettings(s))
	if n := sw.tick(context.Background(), time.Now().Add(30*time.Second)); n != 0 {
		t.Fatalf("nothing should be idle yet, swept %d", n)
	}
	if n := sw.tick(context.Background(), sess.LastSeen().Add(2*time.Minute)); n != 1 {
		t.Fatalf("want 1 swept session, got %d", n)
	}
}
