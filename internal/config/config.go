package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	ServerPort  int
	LogLevel    string

	DatabaseURL string

	JWTSecret []byte
	AuthURL   string

	MediaRoot     string
	StorageDriver string
	CloudinaryURL string

	RedisAddr string
	CacheTTL  time.Duration

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	RequestTimeout time.Duration
}

// LoadEnvFile loads variables from path when it exists; the process environment wins.
func LoadEnvFile(path string) {
	if path == "" {
		return
	}
	if err := godotenv.Load(path); err != nil {
		log.Printf("notice: %s not loaded: %v. Using system environment variables", path, err)
	}
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "marketplace"),
		ServerPort:  EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),
		AuthURL:   os.Getenv("AUTH_URL"),

		MediaRoot:     EnvDefault("MEDIA_ROOT", "."),
		StorageDriver: EnvDefault("STORAGE_DRIVER", "local"),
		CloudinaryURL: os.Getenv("CLOUDINARY_URL"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		CacheTTL:  EnvDurationDefault("CACHE_TTL", 5*time.Minute),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "product"),

		RequestTimeout: EnvDurationDefault("REQUEST_TIMEOUT", 15*time.Second),
	}
}
