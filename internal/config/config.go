package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the whole app configuration, loaded from env.
type Config struct {
	Port string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     int

	JWTSecret string

	// Payment gateway (Midtrans Snap).
	MidtransBaseURL   string
	MidtransServerKey string

	// Shipping gateway (RajaOngkir-compatible).
	RajaOngkirBaseURL string
	RajaOngkirAPIKey  string

	// Warehouse origin used for every cost quote and label.
	OriginCityID string

	GoEnv string
	FEURL string
}

func Load() (Config, error) {
	pgPort, err := mustAtoi("POSTGRES_PORT")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Port: os.Getenv("PORT"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     pgPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		MidtransBaseURL:   os.Getenv("MIDTRANS_BASE_URL"),
		MidtransServerKey: os.Getenv("MIDTRANS_SERVER_KEY"),

		RajaOngkirBaseURL: os.Getenv("RAJAONGKIR_BASE_URL"),
		RajaOngkirAPIKey:  os.Getenv("RAJAONGKIR_API_KEY"),

		OriginCityID: os.Getenv("ORIGIN_CITY_ID"),

		GoEnv: os.Getenv("GO_ENV"),
		FEURL: os.Getenv("FE_URL"),
	}

	required := map[string]string{
		"PORT":                cfg.Port,
		"POSTGRES_USER":       cfg.PostgresUser,
		"POSTGRES_PASSWORD":   cfg.PostgresPassword,
		"POSTGRES_DB":         cfg.PostgresDB,
		"POSTGRES_HOST":       cfg.PostgresHost,
		"JWT_SECRET":          cfg.JWTSecret,
		"MIDTRANS_BASE_URL":   cfg.MidtransBaseURL,
		"MIDTRANS_SERVER_KEY": cfg.MidtransServerKey,
		"RAJAONGKIR_BASE_URL": cfg.RajaOngkirBaseURL,
		"RAJAONGKIR_API_KEY":  cfg.RajaOngkirAPIKey,
		"ORIGIN_CITY_ID":      cfg.OriginCityID,
		"GO_ENV":              cfg.GoEnv,
	}
	for k, v := range required {
		if v == "" {
			return Config{}, fmt.Errorf("%s is required", k)
		}
	}

	return cfg, nil
}

func mustAtoi(key string) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
