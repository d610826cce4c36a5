package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	DBDSN     string
	BaseURL   string
	JWTSecret string
	LogFile   string
}

func Load() Config {
	// .env is optional; deployments are expected to set the environment directly.
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "storefront.db" // sqlite file in project root
	}
	base := os.Getenv("BASE_URL")
	if base == "" {
		// Image links are built off this, so it includes the API prefix.
		base = "http://localhost:" + port + "/api"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret-change-me"
		log.Println("[config] JWT_SECRET not set, using insecure dev default")
	}
	logFile := os.Getenv("LOG_FILE")

	cfg := Config{Port: port, DBDSN: dsn, BaseURL: base, JWTSecret: secret, LogFile: logFile}
	log.Printf("[config] PORT=%s DB_DSN=%s BASE_URL=%s LOG_FILE=%s", cfg.Port, cfg.DBDSN, cfg.BaseURL, cfg.LogFile)
	return cfg
}
