package app

import (
	"sync"
	"testing"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

type recordedChange struct {
	topic string
	state domain.ScheduleState
}

func TestActiveDayTracker_SelectionIsImmediate(t *testing.T) {
	var changes []recordedChange
	tracker := NewActiveDayTracker(domain.SelectionFollowClock, func(topic string, st domain.ScheduleState) {
		changes = append(changes, recordedChange{topic, st})
	})

	tracker.applySample(wednesday, "x")
	tracker.SetActiveDay(0)

	if day, ok := tracker.ActiveDay(); !ok || day != 0 {
		t.Fatalf("ActiveDay: want 0, got %d (ok=%v)", day, ok)
	}
	if len(changes) != 2 {
		t.Fatalf("want 2 notifications, got %d", len(changes))
	}
	if changes[0].topic != ports.TopicReady {
		t.Fatalf("first sample topic: want %q, got %q", ports.TopicReady, changes[0].topic)
	}
	if changes[1].topic != ports.TopicSelected || changes[1].state.ActiveDay != 0 {
		t.Fatalf("unexpected selection notification %+v", changes[1])
	}

	// Tick suivant: l'horloge reprend la main.
	tracker.applySample(wednesday, "y")
	if day, _ := tracker.ActiveDay(); day != 3 {
		t.Fatalf("after tick: want 3, got %d", day)
	}
	if changes[2].topic != ports.TopicTick {
		t.Fatalf("second sample topic: want %q, got %q", ports.TopicTick, changes[2].topic)
	}
}

func TestActiveDayTracker_ReadyNeverReverts(t *testing.T) {
	tracker := NewActiveDayTracker("bogus", nil)
	if tracker.mode != domain.SelectionFollowClock {
		t.Fatalf("unknown mode should fall back to follow-clock, got %q", tracker.mode)
	}
	tracker.applySample(wednesday, "a")
	tracker.applySample(thursday, "b")
	st := tracker.Snapshot()
	if !st.Ready || st.Ticks != 2 || st.ActiveDay != 4 || st.DisplayTimestamp != "b" {
		t.Fatalf("unexpected state %+v", st)
	}
}

func TestActiveDayTracker_DetachedIgnoresWrites(t *testing.T) {
	tracker := NewActiveDayTracker(domain.SelectionFollowClock, nil)
	tracker.applySample(wednesday, "a")
	tracker.detach()

	if tracker.applySample(thursday, "b") {
		t.Fatalf("applySample should report detached tracker")
	}
	tracker.SetActiveDay(6)
	if day, _ := tracker.ActiveDay(); day != 3 {
		t.Fatalf("detached tracker mutated: %d", day)
	}
}

func TestActiveDayTracker_PublishesInRevisionOrder(t *testing.T) {
	var (
		mu      sync.Mutex
		changes []recordedChange
	)
	tracker := NewActiveDayTracker(domain.SelectionFollowClock, func(topic string, st domain.ScheduleState) {
		mu.Lock()
		changes = append(changes, recordedChange{topic, st})
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(day int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tracker.SetActiveDay(day % domain.DaysPerWeek)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				tracker.applySample(wednesday, "t")
			}
		}()
	}
	wg.Wait()

	if len(changes) != 800 {
		t.Fatalf("want 800 notifications, got %d", len(changes))
	}
	for i, c := range changes {
		if c.state.Revision != i+1 {
			t.Fatalf("notification %d carries revision %d", i, c.state.Revision)
		}
	}
}

func TestActiveDayTracker_NothingPublishedAfterDetach(t *testing.T) {
	var (
		mu       sync.Mutex
		detached bool
		late     int
	)
	tracker := NewActiveDayTracker(domain.SelectionFollowClock, func(string, domain.ScheduleState) {
		mu.Lock()
		if detached {
			late++
		}
		mu.Unlock()
	})

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					tracker.SetActiveDay(1)
				}
			}
		}()
	}

	tracker.applySample(wednesday, "a")
	tracker.detach()
	mu.Lock()
	detached = true
	mu.Unlock()
	close(stop)
	wg.Wait()

	if late != 0 {
		t.Fatalf("%d notifications published after detach", late)
	}
}
