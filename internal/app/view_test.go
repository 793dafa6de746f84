package app

import (
	"errors"
	"testing"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

func TestBuildView_SkeletonUntilReady(t *testing.T) {
	week := localePtBR.Week()
	v := BuildView("t", localePtBR, week, "s1", domain.NewScheduleState())
	if v.State.Ready || len(v.Cards) != 0 || v.Skeleton != 7 {
		t.Fatalf("expected skeleton view, got ready=%v cards=%d skeleton=%d", v.State.Ready, len(v.Cards), v.Skeleton)
	}
	if v.State.ActiveDayIndex != nil {
		t.Fatalf("active day must be unset before first sample")
	}
	if len(v.Legend) != 6 {
		t.Fatalf("legend is rendered even while loading, got %d entries", len(v.Legend))
	}
}

func TestBuildView_HighlightsOnlyActiveDay(t *testing.T) {
	st := domain.NewScheduleState()
	st.Ready = true
	st.ActiveDay = 0

	v := BuildView("t", localeEn, localeEn.Week(), "", st)
	if len(v.Cards) != 7 {
		t.Fatalf("want 7 cards, got %d", len(v.Cards))
	}
	for _, c := range v.Cards {
		if c.Highlighted != (c.DayIndex == 0) {
			t.Fatalf("card %d highlighted=%v", c.DayIndex, c.Highlighted)
		}
		if len(c.Subjects) != 3 {
			t.Fatalf("card %d: want 3 subjects", c.DayIndex)
		}
	}
	if v.Cards[0].Label != "SUN" {
		t.Fatalf("label: want SUN, got %q", v.Cards[0].Label)
	}
	if v.Legend[1].Label != "Language runtime" {
		t.Fatalf("legend label: got %q", v.Legend[1].Label)
	}
	if *v.State.ActiveDayIndex != 0 {
		t.Fatalf("state active day: got %d", *v.State.ActiveDayIndex)
	}
}

func TestToday(t *testing.T) {
	got, err := Today(newFakeClock(wednesday), localePtBR)
	if err != nil {
		t.Fatalf("Today: %v", err)
	}
	if got.DayIndex != 3 || got.Label != "QUA" || got.DisplayTimestamp != "21/10/2026 14:03:05" {
		t.Fatalf("unexpected today %+v", got)
	}

	broken := newFakeClock(wednesday)
	broken.Fail(errors.New("boom"))
	if _, err := Today(broken, localePtBR); CodeOf(err) != CodeClockUnavailable {
		t.Fatalf("want clock_unavailable, got %v", err)
	}
	if v := SnapshotView(broken, "t", localePtBR); v.State.Ready {
		t.Fatalf("snapshot with broken clock must stay loading")
	}
	if v := SnapshotView(newFakeClock(wednesday), "t", localePtBR); !v.Cards[3].Highlighted {
		t.Fatalf("snapshot should highlight wednesday")
	}
}
