package domain

import "time"

// ScheduleState est l'état mutable d'un widget monté.
// ActiveDay vaut NoActiveDay tant qu'aucun jour n'est connu.
type ScheduleState struct {
	ActiveDay        int
	DisplayTimestamp string
	Ready            bool

	SelectedByUser bool
	LastTickAt     time.Time
	Ticks          int

	// Revision croît à chaque mutation (tick ou sélection).
	Revision int
}

func NewScheduleState() ScheduleState {
	return ScheduleState{ActiveDay: NoActiveDay}
}

func (s ScheduleState) HasActiveDay() bool {
	return ValidDayIndex(s.ActiveDay)
}
