package app

import (
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

// Locale regroupe ce qui dépend de la langue: libellés des jours, de la légende
// et format de l'horodatage.
type Locale struct {
	Tag        language.Tag
	DayLabels  [domain.DaysPerWeek]string
	Layout     string
	categories map[domain.SubjectCategory]string
}

func (l Locale) String() string { return l.Tag.String() }

// FormatTimestamp formate t en heure locale de l'hôte, à la seconde.
func (l Locale) FormatTimestamp(t time.Time) string {
	return t.Local().Format(l.Layout)
}

func (l Locale) CategoryLabel(c domain.SubjectCategory) string {
	if s, ok := l.categories[c]; ok {
		return s
	}
	return string(c)
}

// Week construit la semaine figée avec les libellés de la locale.
func (l Locale) Week() domain.Week {
	return domain.DefaultWeek(l.DayLabels)
}

var (
	localePtBR = Locale{
		Tag:       language.BrazilianPortuguese,
		DayLabels: [domain.DaysPerWeek]string{"DOM", "SEG", "TER", "QUA", "QUI", "SEX", "SAB"},
		Layout:    "02/01/2006 15:04:05",
		categories: map[domain.SubjectCategory]string{
			domain.CategoryDevOps:          "DevOps",
			domain.CategoryLanguageRuntime: "Golang",
			domain.CategoryFramework:       "Spring",
			domain.CategoryFundamentals:    "Fundamentos",
			domain.CategoryMiscellaneous:   "Outros",
			domain.CategoryReview:          "Revisão",
		},
	}
	localeEn = Locale{
		Tag:       language.AmericanEnglish,
		DayLabels: [domain.DaysPerWeek]string{"SUN", "MON", "TUE", "WED", "THU", "FRI", "SAT"},
		Layout:    "1/2/2006, 3:04:05 PM",
		categories: map[domain.SubjectCategory]string{
			domain.CategoryDevOps:          "DevOps",
			domain.CategoryLanguageRuntime: "Language runtime",
			domain.CategoryFramework:       "Framework",
			domain.CategoryFundamentals:    "Fundamentals",
			domain.CategoryMiscellaneous:   "Miscellaneous",
			domain.CategoryReview:          "Review",
		},
	}

	// Le premier élément est la locale par défaut.
	supportedLocales = []Locale{localePtBR, localeEn}
	localeMatcher    = language.NewMatcher([]language.Tag{localePtBR.Tag, localeEn.Tag})
)

// SupportedLocales renvoie les tags servis, défaut en premier.
func SupportedLocales() []string {
	out := make([]string, 0, len(supportedLocales))
	for _, l := range supportedLocales {
		out = append(out, l.String())
	}
	return out
}

// ResolveLocale choisit la locale à partir de préférences ordonnées
// (paramètre explicite, Accept-Language, réglages...). La première préférence
// qui correspond à une locale servie l'emporte; sinon pt-BR.
func ResolveLocale(prefs ...string) Locale {
	for _, pref := range prefs {
		if l, ok := matchLocale(pref); ok {
			return l
		}
	}
	return supportedLocales[0]
}

func matchLocale(pref string) (Locale, bool) {
	pref = strings.TrimSpace(pref)
	if pref == "" {
		return Locale{}, false
	}
	tags, _, err := language.ParseAcceptLanguage(pref)
	if err != nil || len(tags) == 0 {
		return Locale{}, false
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(supportedLocales) {
		return Locale{}, false
	}
	return supportedLocales[idx], true
}
