package domain

import "time"

// SelectionMode règle la cohabitation entre clic utilisateur et tick d'horloge.
type SelectionMode string

const (
	// SelectionFollowClock: chaque tick réécrit le jour actif (comportement historique).
	SelectionFollowClock SelectionMode = "follow-clock"
	// SelectionHoldUntilDayChange: la sélection tient jusqu'au changement de jour de l'horloge.
	SelectionHoldUntilDayChange SelectionMode = "hold-until-day-change"
)

func (m SelectionMode) Valid() bool {
	return m == SelectionFollowClock || m == SelectionHoldUntilDayChange
}

const (
	DefaultLocale      = "pt-BR"
	MinTickIntervalMs  = 100
	defaultTickMs      = 1000
	defaultMaxSessions = 64
	defaultIdleSeconds = 300
)

type Settings struct {
	// Locale BCP 47 (libellés des jours + format de l'horodatage).
	Locale string `json:"locale"`

	SelectionMode SelectionMode `json:"selectionMode"`

	// Cadence de l'horloge en millisecondes.
	TickIntervalMillis int `json:"tickIntervalMillis"`

	Title string `json:"title"`

	// Sessions (widgets montés) simultanées et expiration d'inactivité.
	MaxSessions        int `json:"maxSessions"`
	IdleTimeoutSeconds int `json:"idleTimeoutSeconds"`
}

func DefaultSettings() Settings {
	return Settings{
		Locale:             DefaultLocale,
		SelectionMode:      SelectionFollowClock,
		TickIntervalMillis: defaultTickMs,
		Title:              "Cronograma de Estudos",
		MaxSessions:        defaultMaxSessions,
		IdleTimeoutSeconds: defaultIdleSeconds,
	}
}

func (s Settings) TickInterval() time.Duration {
	return time.Duration(s.TickIntervalMillis) * time.Millisecond
}

func (s Settings) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSeconds) * time.Second
}
