package app

import (
	"errors"

	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

var ErrNotFound = ports.ErrNotFound

// Codes stables renvoyés par l'API (champ "code").
const (
	CodeInvalidDay       = "invalid_day"
	CodeSessionLimit     = "session_limit"
	CodeInvalidSettings  = "invalid_settings"
	CodeClockUnavailable = "clock_unavailable"
)

// CodedError porte un code d'erreur stable, exposé tel quel par l'API.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

// CodeOf renvoie le code d'une CodedError de la chaîne, ou "".
func CodeOf(err error) string {
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ""
}
