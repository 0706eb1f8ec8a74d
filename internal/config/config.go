package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // embedded zone database for STATS_TIMEZONE
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	Database                  DatabaseConfig
	Redis                     RedisConfig
	StatsTimeZone             *time.Location
	SeedOnStart               bool
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Driver                 string
	Host                   string
	Port                   string
	Username               string
	Password               string
	Name                   string
	SSLMode                string
	TimeZone               string
	Path                   string
	DSN                    string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
	LogQueries             bool
}

// RedisConfig holds the stats cache connection. An empty Addr disables caching.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	StatsTTL time.Duration
}

// IsDevelopment reports whether the server runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	ints := map[string]int{}
	for key, def := range map[string]string{
		"JWT_EXPIRATION_MINUTES":       "60",
		"JWT_REFRESH_EXPIRATION_HOURS": "168", // 7 days
		"DB_MAX_OPEN_CONNS":            "10",
		"DB_MAX_IDLE_CONNS":            "5",
		"DB_CONN_MAX_LIFETIME_MIN":     "30",
		"REDIS_DB":                     "0",
		"STATS_CACHE_TTL_SECONDS":      "30",
	} {
		v, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		ints[key] = v
	}

	environment := getEnv("APP_ENV", "development")

	dbConfig := DatabaseConfig{
		Driver:                 strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		Host:                   getEnv("DB_HOST", "localhost"),
		Username:               getEnv("DB_USERNAME", "root"),
		Password:               getEnv("DB_PASSWORD", ""),
		Name:                   getEnv("DB_NAME", "careflow"),
		SSLMode:                getEnv("DB_SSLMODE", "disable"),
		TimeZone:               getEnv("DB_TIMEZONE", "UTC"),
		Path:                   getEnv("DB_PATH", "careflow.db"),
		MaxOpenConns:           ints["DB_MAX_OPEN_CONNS"],
		MaxIdleConns:           ints["DB_MAX_IDLE_CONNS"],
		ConnMaxLifetimeMinutes: ints["DB_CONN_MAX_LIFETIME_MIN"],
		LogQueries:             environment == "development",
	}

	switch dbConfig.Driver {
	case "mysql":
		dbConfig.Port = getEnv("DB_PORT", "3306")
		dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)
	case "postgres":
		dbConfig.Port = getEnv("DB_PORT", "5432")
		dbConfig.DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			dbConfig.Host, dbConfig.Username, dbConfig.Password, dbConfig.Name, dbConfig.Port, dbConfig.SSLMode, dbConfig.TimeZone)
	case "sqlite":
		dbConfig.DSN = dbConfig.Path
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want mysql, postgres or sqlite)", dbConfig.Driver)
	}
	if v, ok := os.LookupEnv("DB_DSN"); ok && v != "" {
		dbConfig.DSN = v
	}

	statsZone, err := time.LoadLocation(getEnv("STATS_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_TIMEZONE: %w", err)
	}

	seed, err := strconv.ParseBool(getEnv("SEED_ON_START", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_ON_START: %w", err)
	}

	return &Config{
		Port:                      getEnv("PORT", "5000"),
		Origin:                    getEnv("ORIGIN", "http://localhost:5173"),
		Environment:               environment,
		JWTSecret:                 getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret:          getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		JWTExpirationMinutes:      ints["JWT_EXPIRATION_MINUTES"],
		JWTRefreshExpirationHours: ints["JWT_REFRESH_EXPIRATION_HOURS"],
		Database:                  dbConfig,
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       ints["REDIS_DB"],
			StatsTTL: time.Duration(ints["STATS_CACHE_TTL_SECONDS"]) * time.Second,
		},
		StatsTimeZone: statsZone,
		SeedOnStart:   seed,
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
