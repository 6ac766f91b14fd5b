package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	Storage       StorageConfig
	Catalog       CatalogConfig
	Customization CustomizationConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.FeatureFlags.UseSQLite {
		cfg.DB.Driver = DBDriverSQLite
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Storage.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"ATELIER_APP_ENV" required:"true"`
	Port           string   `envconfig:"ATELIER_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"ATELIER_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"ATELIER_LOG_WARN_STACK" default:"false"`
	LogFormat      string   `envconfig:"ATELIER_LOG_FORMAT" default:"json"`
	AllowedOrigins []string `envconfig:"ATELIER_CORS_ALLOWED_ORIGINS"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"ATELIER_DB_DSN"`
	Driver string `envconfig:"ATELIER_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"ATELIER_DB_HOST"`
	LegacyPort     int    `envconfig:"ATELIER_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"ATELIER_DB_USER"`
	LegacyPassword string `envconfig:"ATELIER_DB_PASSWORD"`
	LegacyName     string `envconfig:"ATELIER_DB_NAME"`
	LegacySSLMode  string `envconfig:"ATELIER_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"ATELIER_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"ATELIER_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"ATELIER_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"ATELIER_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"ATELIER_DB_SLOW_QUERY_THRESHOLD" default:"200ms"`
}

// IsSQLite reports whether the catalog runs on the embedded sqlite driver.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"ATELIER_REDIS_URL"`
	Address      string        `envconfig:"ATELIER_REDIS_ADDR"`
	Password     string        `envconfig:"ATELIER_REDIS_PASSWORD"`
	DB           int           `envconfig:"ATELIER_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ATELIER_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ATELIER_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ATELIER_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ATELIER_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ATELIER_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StorageConfig selects the key/value backend that stands in for browser local storage.
type StorageConfig struct {
	Driver        string        `envconfig:"ATELIER_STORAGE_DRIVER" default:"memory"`
	KeyTTL        time.Duration `envconfig:"ATELIER_STORAGE_KEY_TTL" default:"720h"`
	MemoryQuotaKB int           `envconfig:"ATELIER_STORAGE_MEMORY_QUOTA_KB" default:"5120"`
}

func (s StorageConfig) IsRedis() bool {
	return strings.EqualFold(s.Driver, StorageDriverRedis)
}

// CatalogConfig points the customization engine at a remote catalog API.
// An empty BaseURL keeps configuration lookups in process.
type CatalogConfig struct {
	BaseURL        string        `envconfig:"ATELIER_CATALOG_BASE_URL"`
	RequestTimeout time.Duration `envconfig:"ATELIER_CATALOG_REQUEST_TIMEOUT" default:"10s"`
}

type CustomizationConfig struct {
	PriceDebounce   time.Duration `envconfig:"ATELIER_CUSTOMIZATION_PRICE_DEBOUNCE" default:"150ms"`
	PersistDebounce time.Duration `envconfig:"ATELIER_CUSTOMIZATION_PERSIST_DEBOUNCE" default:"500ms"`
	SessionIdleTTL  time.Duration `envconfig:"ATELIER_CUSTOMIZATION_SESSION_IDLE_TTL" default:"2h"`
	SweepInterval   time.Duration `envconfig:"ATELIER_CUSTOMIZATION_SWEEP_INTERVAL" default:"5m"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"ATELIER_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"ATELIER_AUTO_MIGRATE" default:"false"`
	AutoSeed    bool `envconfig:"ATELIER_AUTO_SEED" default:"false"`
}

func (s StorageConfig) validate(redis RedisConfig) error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case StorageDriverMemory:
		return nil
	case StorageDriverRedis:
		if redis.URL == "" && redis.Address == "" {
			return fmt.Errorf("%s=redis requires %s or %s", EnvStorageDriver, EnvRedisURL, EnvRedisAddr)
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage driver %q", s.Driver)
	}
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		db.DSN = DefaultSQLiteDSN
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
