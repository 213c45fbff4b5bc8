package config

import (
	"os"
)

type Config struct {
	ServerAddress string
	DatabaseURL   string
	DatabaseName  string
	StoreDriver   string
	DataDir       string
	AMQPURL       string
}

func Load() *Config {
	return &Config{
		ServerAddress: ":" + getEnv("PORT", "8000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DatabaseName:  getEnv("DATABASE_NAME", ""),
		StoreDriver:   getEnv("STORE_DRIVER", "mongo"),
		DataDir:       getEnv("DATA_DIR", "./data"),
		AMQPURL:       getEnv("AMQP_URL", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
