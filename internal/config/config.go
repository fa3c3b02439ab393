package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config is read from the environment, with an optional .env file for local
// runs. The remote backend is enabled only when DB_DSN is set; without it the
// app runs fully offline on the embedded store.
type Config struct {
	HTTPAddr       string
	DBDSN          string
	DataPath       string
	MigrationsPath string
	Timezone       string
	Environment    string
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		DBDSN:          os.Getenv("DB_DSN"),
		DataPath:       os.Getenv("DATA_PATH"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
		Timezone:       os.Getenv("TZ"),
		Environment:    os.Getenv("ENV"),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = "schedule.db"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

// RemoteEnabled reports whether a Postgres backend should be wired up.
func (c *Config) RemoteEnabled() bool {
	return c.DBDSN != ""
}
