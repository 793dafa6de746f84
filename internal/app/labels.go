package app

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

// normalizeLabel rend un libellé comparable: minuscules, sans accents ni points.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Retire les accents (NFD -> suppression Mn -> NFC).
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if out, _, err := transform.String(tr, s); err == nil {
		s = out
	}
	return strings.TrimSuffix(s, ".")
}

// MatchDayLabel retrouve l'index d'un jour par son libellé, dans la semaine
// affichée puis dans les autres locales servies ("sáb", "Sat", "SAB" -> 6).
func MatchDayLabel(week domain.Week, label string) (int, bool) {
	want := normalizeLabel(label)
	if want == "" {
		return domain.NoActiveDay, false
	}
	for _, d := range week.Days {
		if normalizeLabel(d.Label) == want {
			return d.Index, true
		}
	}
	for _, l := range supportedLocales {
		for i, dl := range l.DayLabels {
			if normalizeLabel(dl) == want {
				return i, true
			}
		}
	}
	return domain.NoActiveDay, false
}
