package domain

import (
	"errors"
	"fmt"
	"time"
)

const (
	DaysPerWeek    = 7
	SubjectsPerDay = 3
	NoActiveDay    = -1
	firstDayIndex  = int(time.Sunday)
	lastDayIndex   = int(time.Saturday)
)

type Subject struct {
	Name     string          `json:"name"`
	Category SubjectCategory `json:"category"`
}

// Day suit la numérotation de time.Weekday (0 = dimanche).
type Day struct {
	Index    int       `json:"dayIndex"`
	Label    string    `json:"label"`
	Subjects []Subject `json:"subjects"`
}

type Week struct {
	Days []Day `json:"days"`
}

var ErrInvalidWeek = errors.New("invalid week")

// ValidDayIndex indique si i désigne un jour de la semaine.
func ValidDayIndex(i int) bool {
	return i >= firstDayIndex && i <= lastDayIndex
}

var (
	spring    = Subject{Name: "Spring", Category: CategoryFramework}
	review    = Subject{Name: "Review", Category: CategoryReview}
	outros    = Subject{Name: "Outros", Category: CategoryMiscellaneous}
	devops    = Subject{Name: "DevOps", Category: CategoryDevOps}
	golang    = Subject{Name: "Golang", Category: CategoryLanguageRuntime}
	fundament = Subject{Name: "Fund.", Category: CategoryFundamentals}
)

// weekSubjects est la table figée, indexée par jour.
var weekSubjects = [DaysPerWeek][SubjectsPerDay]Subject{
	{spring, review, outros},
	{devops, golang, fundament},
	{golang, spring, devops},
	{devops, golang, outros},
	{spring, devops, fundament},
	{golang, devops, spring},
	{devops, golang, fundament},
}

// DefaultWeek construit la semaine avec les libellés fournis (un par jour, dimanche d'abord).
// Chaque appel renvoie une copie: la table source n'est jamais exposée.
func DefaultWeek(labels [DaysPerWeek]string) Week {
	days := make([]Day, 0, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		subjects := make([]Subject, SubjectsPerDay)
		copy(subjects, weekSubjects[i][:])
		days = append(days, Day{Index: i, Label: labels[i], Subjects: subjects})
	}
	return Week{Days: days}
}

// Day renvoie le jour d'index i.
func (w Week) Day(i int) (Day, bool) {
	for _, d := range w.Days {
		if d.Index == i {
			return d, true
		}
	}
	return Day{}, false
}

func (w Week) Validate() error {
	if len(w.Days) != DaysPerWeek {
		return fmt.Errorf("%w: want %d days, got %d", ErrInvalidWeek, DaysPerWeek, len(w.Days))
	}
	seen := map[int]bool{}
	for _, d := range w.Days {
		if !ValidDayIndex(d.Index) {
			return fmt.Errorf("%w: day index %d out of range", ErrInvalidWeek, d.Index)
		}
		if seen[d.Index] {
			return fmt.Errorf("%w: duplicate day index %d", ErrInvalidWeek, d.Index)
		}
		seen[d.Index] = true
		if len(d.Subjects) != SubjectsPerDay {
			return fmt.Errorf("%w: day %d has %d subjects", ErrInvalidWeek, d.Index, len(d.Subjects))
		}
		for _, s := range d.Subjects {
			if !s.Category.Valid() {
				return fmt.Errorf("%w: unknown category %q on day %d", ErrInvalidWeek, s.Category, d.Index)
			}
		}
	}
	return nil
}
