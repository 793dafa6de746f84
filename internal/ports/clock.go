package ports

import "time"

// Clock lit l'horloge de l'hôte. Une lecture peut échouer (horloge injectée, tests).
type Clock interface {
	Now() (time.Time, error)
}

// SystemClock lit time.Now en heure locale.
type SystemClock struct{}

func (SystemClock) Now() (time.Time, error) {
	return time.Now(), nil
}
