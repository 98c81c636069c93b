package config

import (
	"log"
	"os"

	"github.com/shopspring/decimal"
)

// Config holds all runtime settings, loaded once at startup.
type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	StoreName   string
	Currency    string

	// TaxRate is the flat PPN rate applied to every sale (0.11 = 11%).
	TaxRate decimal.Decimal
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:    getEnv("PORT", "3000"),
		DatabaseDSN: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		StoreName:   getEnv("STORE_NAME", "OmniPOS Enterprise"),
		Currency:    getEnv("CURRENCY", "IDR"),
		TaxRate:     loadTaxRate(),
	}

	if cfg.JWTSecret == "" {
		log.Println("[WARN] JWT_SECRET not set, using insecure development default")
	}

	return cfg
}

func loadTaxRate() decimal.Decimal {
	raw := getEnv("TAX_RATE", "0.11")
	rate, err := decimal.NewFromString(raw)
	if err != nil || rate.IsNegative() {
		log.Printf("[WARN] Invalid TAX_RATE %q, falling back to 0.11", raw)
		return decimal.NewFromFloat(0.11)
	}
	return rate
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
