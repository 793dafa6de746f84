package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Guilhem-Bonnet/study-schedule/internal/domain"
)

const widgetSettingsKey = "widget"

// SettingsRepository stocke les préférences du widget en JSON (une seule ligne).
type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (domain.Settings, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, `SELECT value_json FROM settings WHERE key = ?`, widgetSettingsKey).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultSettings(), nil
		}
		return domain.Settings{}, err
	}

	// Part des défauts: un champ absent du JSON stocké garde sa valeur par défaut.
	s := domain.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		// JSON corrompu: on repart des défauts plutôt que de bloquer le widget.
		return domain.DefaultSettings(), nil
	}
	return s, nil
}

func (r *SettingsRepository) Put(ctx context.Context, settings domain.Settings) (domain.Settings, error) {
	b, err := json.Marshal(settings)
	if err != nil {
		return domain.Settings{}, err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings(key, value_json, updated_at)
		VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json, updated_at = excluded.updated_at
	`, widgetSettingsKey, string(b), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return domain.Settings{}, err
	}
	return r.Get(ctx)
}
