package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
	"github.com/Guilhem-Bonnet/study-schedule/internal/ports"
)

type SettingsService struct {
	repo ports.SettingsRepository
	bus  ports.EventBus
}

func NewSettingsService(repo ports.SettingsRepository, bus ports.EventBus) *SettingsService {
	return &SettingsService{repo: repo, bus: bus}
}

func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	return s.repo.Get(ctx)
}

func (s *SettingsService) Put(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	normalized, err := NormalizeSettings(settings)
	if err != nil {
		return domain.Settings{}, err
	}
	updated, err := s.repo.Put(ctx, normalized)
	if err != nil {
		return domain.Settings{}, err
	}
	if s.bus != nil {
		if b, err := json.Marshal(updated); err == nil {
			s.bus.Publish(ports.Event{Topic: ports.TopicSettings, Payload: b})
		}
	}
	return updated, nil
}

// NormalizeSettings complète les champs vides avec les défauts et rejette
// les valeurs incohérentes.
func NormalizeSettings(settings domain.Settings) (domain.Settings, error) {
	def := domain.DefaultSettings()

	settings.Locale = ResolveLocale(settings.Locale, def.Locale).String()

	if settings.SelectionMode == "" {
		settings.SelectionMode = def.SelectionMode
	}
	if !settings.SelectionMode.Valid() {
		return domain.Settings{}, &CodedError{
			Code:    CodeInvalidSettings,
			Message: fmt.Sprintf("unknown selectionMode %q", settings.SelectionMode),
		}
	}

	switch {
	case settings.TickIntervalMillis <= 0:
		settings.TickIntervalMillis = def.TickIntervalMillis
	case settings.TickIntervalMillis < domain.MinTickIntervalMs:
		return domain.Settings{}, &CodedError{
			Code:    CodeInvalidSettings,
			Message: fmt.Sprintf("tickIntervalMillis must be >= %d", domain.MinTickIntervalMs),
		}
	}

	settings.Title = strings.TrimSpace(settings.Title)
	if settings.Title == "" {
		settings.Title = def.Title
	}
	if settings.MaxSessions <= 0 {
		settings.MaxSessions = def.MaxSessions
	}
	if settings.IdleTimeoutSeconds <= 0 {
		settings.IdleTimeoutSeconds = def.IdleTimeoutSeconds
	}
	return settings, nil
}

// WithLocaleOverride remplace la locale renvoyée par get, sans la persister.
// Une locale vide renvoie get tel quel.
func WithLocaleOverride(get func(ctx context.Context) (domain.Settings, error), locale string) func(ctx context.Context) (domain.Settings, error) {
	if locale == "" {
		return get
	}
	resolved := ResolveLocale(locale).String()
	return func(ctx context.Context) (domain.Settings, error) {
		s, err := get(ctx)
		if err != nil {
			return s, err
		}
		s.Locale = resolved
		return s, nil
	}
}
