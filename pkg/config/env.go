package config

const (
	EnvPrefix = "HF"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	DefaultShelfLifeDays = 10
)

const (
	EnvAppEnv                 = "HF_APP_ENV"
	EnvPort                   = "HF_APP_PORT"
	EnvDBDSN                  = "HF_DB_DSN"
	EnvDBDriver               = "HF_DB_DRIVER"
	EnvDBHost                 = "HF_DB_HOST"
	EnvDBUser                 = "HF_DB_USER"
	EnvDBName                 = "HF_DB_NAME"
	EnvDBPassword             = "HF_DB_PASSWORD"
	EnvRedisURL               = "HF_REDIS_URL"
	EnvJWTSecret              = "HF_JWT_SECRET"
	EnvJWTIssuer              = "HF_JWT_ISSUER"
	EnvJWTExpMins             = "HF_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes = "HF_REFRESH_TOKEN_TTL_MINUTES"
	EnvStockShelfLifeDays     = "HF_STOCK_SHELF_LIFE_DAYS"
	EnvCronSchedule           = "HF_CRON_SCHEDULE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
