package config

// EnvPrefix is passed to envconfig; every field carries an explicit key so the prefix is informational.
const EnvPrefix = "ATELIER"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
	DefaultSQLiteDSN = "file:atelier.db?cache=shared&_foreign_keys=on"

	StorageDriverMemory = "memory"
	StorageDriverRedis  = "redis"
)

const (
	EnvAppEnv        = "ATELIER_APP_ENV"
	EnvPort          = "ATELIER_APP_PORT"
	EnvLogLevel      = "ATELIER_LOG_LEVEL"
	EnvDBDSN         = "ATELIER_DB_DSN"
	EnvDBDriver      = "ATELIER_DB_DRIVER"
	EnvDBHost        = "ATELIER_DB_HOST"
	EnvDBUser        = "ATELIER_DB_USER"
	EnvDBName        = "ATELIER_DB_NAME"
	EnvRedisURL      = "ATELIER_REDIS_URL"
	EnvRedisAddr     = "ATELIER_REDIS_ADDR"
	EnvStorageDriver = "ATELIER_STORAGE_DRIVER"
	EnvCatalogURL    = "ATELIER_CATALOG_BASE_URL"
	EnvPriceDebounce = "ATELIER_CUSTOMIZATION_PRICE_DEBOUNCE"
	EnvUseSQLite     = "ATELIER_USE_SQLITE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
