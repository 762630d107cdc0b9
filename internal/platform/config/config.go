package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	StorageDriver string
	RunMigrations bool
	MigrationsDir string

	JWTSecret string
	JWTIssuer string

	// Timeouts
	OperationTimeout   time.Duration
	RequestTimeout     time.Duration
	DBConnectTimeout   time.Duration
	DBStatementTimeout time.Duration
	DBMaxConns         int32

	// Rate limiting for command routes, in ulule/limiter format (e.g. "100-M").
	RateLimit string

	// System accounts used by business-event journal entries.
	AccountsPayableCode string
	SalesReturnsCode    string

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("MIGRATIONS_DIR", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_ISSUER", "erp-ledger")
	viper.SetDefault("OPERATION_TIMEOUT", "10s")
	viper.SetDefault("REQUEST_TIMEOUT", "15s")
	viper.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	viper.SetDefault("DB_STATEMENT_TIMEOUT", "8s")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("RATE_LIMIT", "300-M")
	viper.SetDefault("ACCOUNTS_PAYABLE_CODE", "2100")
	viper.SetDefault("SALES_RETURNS_CODE", "4900")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:         viper.GetString("PGSQL_URL"),
		Port:                viper.GetString("PORT"),
		IsProduction:        viper.GetBool("IS_PRODUCTION"),
		StorageDriver:       viper.GetString("STORAGE_DRIVER"),
		RunMigrations:       viper.GetBool("RUN_MIGRATIONS"),
		MigrationsDir:       viper.GetString("MIGRATIONS_DIR"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		JWTIssuer:           viper.GetString("JWT_ISSUER"),
		DBMaxConns:          viper.GetInt32("DB_MAX_CONNS"),
		RateLimit:           viper.GetString("RATE_LIMIT"),
		AccountsPayableCode: viper.GetString("ACCOUNTS_PAYABLE_CODE"),
		SalesReturnsCode:    viper.GetString("SALES_RETURNS_CODE"),
		CORSAllowedOrigins:  viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
	}

	if cfg.StorageDriver != StoragePostgres && cfg.StorageDriver != StorageMemory {
		log.Printf("Warning: unknown STORAGE_DRIVER ('%s'). Defaulting to %s.\n", cfg.StorageDriver, StoragePostgres)
		cfg.StorageDriver = StoragePostgres
	}
	if cfg.StorageDriver == StoragePostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.OperationTimeout = durationOrDefault("OPERATION_TIMEOUT", 10*time.Second)
	cfg.RequestTimeout = durationOrDefault("REQUEST_TIMEOUT", 15*time.Second)
	cfg.DBConnectTimeout = durationOrDefault("DB_CONNECT_TIMEOUT", 5*time.Second)
	cfg.DBStatementTimeout = durationOrDefault("DB_STATEMENT_TIMEOUT", 8*time.Second)

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}
