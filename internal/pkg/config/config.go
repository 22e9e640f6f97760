package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port        string        `env:"PORT,         default=8080"`
	Env         string        `env:"ENV,          default=development"`
	LogLevel    string        `env:"LOG_LEVEL,    default=info"`
	JWTSecret   string        `env:"JWT_SECRET,   required"`
	TokenTTL    time.Duration `env:"TOKEN_TTL,    default=24h"`
	CORSOrigins []string      `env:"CORS_ORIGINS, default=*"`

	Store     StoreConfig
	Mongo     MongoConfig
	Redis     RedisConfig
	Admin     AdminConfig
	Dashboard DashboardConfig

	SeedDemo bool `env:"SEED_DEMO, default=false"`
	// SnapshotInterval of zero disables the background analytics refresher.
	SnapshotInterval time.Duration `env:"SNAPSHOT_INTERVAL, default=5m"`
}

type StoreConfig struct {
	// Driver is one of sqlite, mysql or mongo.
	Driver     string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,  default=sehat_sathi.db"`
	MySQLDSN   string `env:"MYSQL_DSN"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=sehat_sathi"`
}

// RedisConfig is optional: an empty address runs without idempotency keys
// and analytics snapshots.
type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type AdminConfig struct {
	Username string `env:"ADMIN_USERNAME, default=admin"`
	Email    string `env:"ADMIN_EMAIL,    default=admin@sehatsathi.gov.in"`
	Password string `env:"ADMIN_PASSWORD, default=admin123"`
}

type DashboardConfig struct {
	LowStockThreshold int64 `env:"LOW_STOCK_THRESHOLD, default=50"`
	ExpiryWindowDays  int   `env:"EXPIRY_WINDOW_DAYS,  default=30"`
	Limit             int   `env:"DASHBOARD_LIMIT,     default=10"`
}

// IsDevelopment reports whether human-friendly defaults such as console
// logging should apply.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration from lookuper and validates cross-field rules.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case "sqlite", "mongo":
	case "mysql":
		if cfg.Store.MySQLDSN == "" {
			return nil, fmt.Errorf("MYSQL_DSN is required when STORE_DRIVER=mysql")
		}
	default:
		return nil, fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	if cfg.SnapshotInterval < 0 {
		return nil, fmt.Errorf("SNAPSHOT_INTERVAL must not be negative")
	}
	return &cfg, nil
}
