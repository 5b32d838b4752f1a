package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

type Config struct {
	Port   string
	AppEnv string
	// Storage: "mongo" uses MongoDB for profiles and Postgres for users,
	// "memory" keeps both in process (local runs, demos)
	StorageDriver string
	MongoURI      string
	MongoDatabase string
	DBUrl         string
	// Auth
	JWTSecret string
	JWTTTL    time.Duration
	JWKSUrl   string // optional, enables RS256 tokens
	// Redis backs the rate limiter; empty falls back to in-memory counters
	RedisURL      string
	RedisPassword string
	// Rate Limiting Configuration
	RateLimitWindowSeconds   int
	RateLimitGlobalThreshold int
	RateLimitAuthThreshold   int
	CORSAllowedOrigins       []string
	// Tracing
	OTLPEndpoint    string
	OTLPInsecure    bool
	ServiceName     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	// .env is optional; production injects the environment directly
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	cfg := &Config{
		Port:                     v.GetString("PORT"),
		AppEnv:                   v.GetString("APP_ENV"),
		StorageDriver:            strings.ToLower(v.GetString("STORAGE_DRIVER")),
		MongoURI:                 v.GetString("MONGO_URI"),
		MongoDatabase:            v.GetString("MONGO_DATABASE"),
		DBUrl:                    v.GetString("DATABASE_URL"),
		JWTSecret:                v.GetString("JWT_SECRET"),
		JWTTTL:                   v.GetDuration("JWT_TTL"),
		JWKSUrl:                  strings.TrimRight(v.GetString("JWKS_URL"), "/"),
		RedisURL:                 v.GetString("REDIS_URL"),
		RedisPassword:            v.GetString("REDIS_PASSWORD"),
		RateLimitWindowSeconds:   v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		RateLimitGlobalThreshold: v.GetInt("RATE_LIMIT_GLOBAL_THRESHOLD"),
		RateLimitAuthThreshold:   v.GetInt("RATE_LIMIT_AUTH_THRESHOLD"),
		CORSAllowedOrigins:       splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		OTLPEndpoint:             v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure:             v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		ServiceName:              v.GetString("OTEL_SERVICE_NAME"),
		RequestTimeout:           v.GetDuration("REQUEST_TIMEOUT"),
		ShutdownTimeout:          v.GetDuration("SHUTDOWN_TIMEOUT"),
	}

	if cfg.StorageDriver != StorageMongo && cfg.StorageDriver != StorageMemory {
		log.Printf("WARNING: unknown STORAGE_DRIVER %q, using %q", cfg.StorageDriver, StorageMongo)
		cfg.StorageDriver = StorageMongo
	}
	if cfg.StorageDriver == StorageMongo && cfg.DBUrl == "" {
		log.Println("WARNING: DATABASE_URL is missing. Application may fail to connect.")
	}
	if cfg.JWTSecret == "" {
		log.Println("WARNING: JWT_SECRET is empty. Tokens cannot be issued or verified.")
	}
	if cfg.RedisURL == "" {
		log.Println("WARNING: REDIS_URL not configured. Rate limiting will use in-memory fallback.")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("STORAGE_DRIVER", StorageMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "profiles")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", time.Hour)
	v.SetDefault("JWKS_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 60)
	v.SetDefault("RATE_LIMIT_GLOBAL_THRESHOLD", 100)
	v.SetDefault("RATE_LIMIT_AUTH_THRESHOLD", 10)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "profile-backend")
	v.SetDefault("REQUEST_TIMEOUT", 10*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)
}

// splitList turns "a, b,,c" into [a b c]
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
