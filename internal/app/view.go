package app

import (
	"encoding/json"
	"time"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

// StateDTO est la forme JSON d'un ScheduleState.
type StateDTO struct {
	SessionID        string     `json:"sessionId,omitempty"`
	ActiveDayIndex   *int       `json:"activeDayIndex"`
	DisplayTimestamp string     `json:"displayTimestamp"`
	Ready            bool       `json:"ready"`
	SelectedByUser   bool       `json:"selectedByUser"`
	Ticks            int        `json:"ticks"`
	Revision         int        `json:"revision"`
	LastTickAt       *time.Time `json:"lastTickAt,omitempty"`
}

func ToStateDTO(sessionID string, st domain.ScheduleState) StateDTO {
	dto := StateDTO{
		SessionID:        sessionID,
		DisplayTimestamp: st.DisplayTimestamp,
		Ready:            st.Ready,
		SelectedByUser:   st.SelectedByUser,
		Ticks:            st.Ticks,
		Revision:         st.Revision,
	}
	if st.HasActiveDay() {
		day := st.ActiveDay
		dto.ActiveDayIndex = &day
	}
	if !st.LastTickAt.IsZero() {
		at := st.LastTickAt
		dto.LastTickAt = &at
	}
	return dto
}

func PublishStateEvent(bus ports.EventBus, topic, sessionID string, st domain.ScheduleState) {
	if bus == nil {
		return
	}
	b, err := json.Marshal(ToStateDTO(sessionID, st))
	if err != nil {
		return
	}
	bus.Publish(ports.Event{Topic: topic, SessionID: sessionID, Payload: b})
}

type SubjectView struct {
	Name     string                 `json:"name"`
	Category domain.SubjectCategory `json:"category"`
	Style    domain.Style           `json:"style"`
}

type CardView struct {
	DayIndex    int           `json:"dayIndex"`
	Label       string        `json:"label"`
	Highlighted bool          `json:"highlighted"`
	Subjects    []SubjectView `json:"subjects"`
}

type LegendEntry struct {
	Category domain.SubjectCategory `json:"category"`
	Label    string                 `json:"label"`
	Style    domain.Style           `json:"style"`
}

// WidgetView est le modèle de rendu partagé par la page HTML, l'API JSON et l'export.
// Tant que Ready est faux, Cards est vide et Skeleton donne le nombre de cases fantômes.
type WidgetView struct {
	SessionID string        `json:"sessionId,omitempty"`
	Title     string        `json:"title"`
	Locale    string        `json:"locale"`
	State     StateDTO      `json:"state"`
	Cards     []CardView    `json:"cards"`
	Skeleton  int           `json:"skeleton,omitempty"`
	Legend    []LegendEntry `json:"legend"`
}

func BuildLegend(loc Locale) []LegendEntry {
	cats := domain.Categories()
	out := make([]LegendEntry, 0, len(cats))
	for _, c := range cats {
		out = append(out, LegendEntry{Category: c, Label: loc.CategoryLabel(c), Style: domain.StyleOf(c)})
	}
	return out
}

func BuildView(title string, loc Locale, week domain.Week, sessionID string, st domain.ScheduleState) WidgetView {
	v := WidgetView{
		SessionID: sessionID,
		Title:     title,
		Locale:    loc.String(),
		State:     ToStateDTO(sessionID, st),
		Cards:     []CardView{},
		Legend:    BuildLegend(loc),
	}
	if !st.Ready {
		v.Skeleton = len(week.Days)
		return v
	}
	for _, d := range week.Days {
		card := CardView{
			DayIndex:    d.Index,
			Label:       d.Label,
			Highlighted: st.HasActiveDay() && d.Index == st.ActiveDay,
			Subjects:    make([]SubjectView, 0, len(d.Subjects)),
		}
		for _, s := range d.Subjects {
			card.Subjects = append(card.Subjects, SubjectView{Name: s.Name, Category: s.Category, Style: domain.StyleOf(s.Category)})
		}
		v.Cards = append(v.Cards, card)
	}
	return v
}

// TodayDTO est l'échantillon d'horloge sans session.
type TodayDTO struct {
	DayIndex         int    `json:"dayIndex"`
	Label            string `json:"label"`
	DisplayTimestamp string `json:"displayTimestamp"`
	Locale           string `json:"locale"`
}

func Today(clock ports.Clock, loc Locale) (TodayDTO, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	now, err := clock.Now()
	if err != nil {
		return TodayDTO{}, &CodedError{Code: CodeClockUnavailable, Message: "clock read failed", Err: err}
	}
	day := int(now.Weekday())
	return TodayDTO{
		DayIndex:         day,
		Label:            loc.DayLabels[day],
		DisplayTimestamp: loc.FormatTimestamp(now),
		Locale:           loc.String(),
	}, nil
}

// SnapshotView échantillonne l'horloge une fois et construit la vue sans monter de session.
// Si l'horloge échoue, la vue reste en squelette.
func SnapshotView(clock ports.Clock, title string, loc Locale) WidgetView {
	tracker := NewActiveDayTracker(domain.SelectionFollowClock, nil)
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if now, err := clock.Now(); err == nil && !now.IsZero() {
		tracker.applySample(now, loc.FormatTimestamp(now))
	}
	return BuildView(title, loc, loc.Week(), "", tracker.Snapshot())
}
