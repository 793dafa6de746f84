package config

import "os"

type Config struct {
	Addr      string
	DBPath    string
	Locale    string
	ServerURL string
}

// Default lit la configuration depuis l'environnement (préfixe SCHEDULE_).
// Locale vide: la locale des settings persistés s'applique.
func Default() Config {
	return Config{
		Addr:      envOr("SCHEDULE_ADDR", "127.0.0.1:8080"),
		DBPath:    envOr("SCHEDULE_DB_PATH", "schedule.db"),
		Locale:    os.Getenv("SCHEDULE_LOCALE"),
		ServerURL: envOr("SCHEDULE_SERVER_URL", "http://127.0.0.1:8080"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
