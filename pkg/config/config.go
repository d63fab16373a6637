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
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Stock         StockConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env                string   `envconfig:"HF_APP_ENV" required:"true"`
	Port               string   `envconfig:"HF_APP_PORT" default:"8080"`
	LogLevel           string   `envconfig:"HF_LOG_LEVEL" default:"info"`
	LogFormat          string   `envconfig:"HF_LOG_FORMAT" default:"json"`
	LogWarnStack       bool     `envconfig:"HF_LOG_WARN_STACK" default:"false"`
	CORSAllowedOrigins []string `envconfig:"HF_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HF_DB_DSN"`
	Driver string `envconfig:"HF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HF_DB_HOST"`
	LegacyPort     int    `envconfig:"HF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HF_DB_USER"`
	LegacyPassword string `envconfig:"HF_DB_PASSWORD"`
	LegacyName     string `envconfig:"HF_DB_NAME"`
	LegacySSLMode  string `envconfig:"HF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HF_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	SlowQueryThreshold time.Duration `envconfig:"HF_DB_SLOW_QUERY_THRESHOLD" default:"500ms"`
}

// IsSQLite reports whether the configured driver targets a sqlite file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"HF_REDIS_URL"`
	Address      string        `envconfig:"HF_REDIS_ADDR"`
	Password     string        `envconfig:"HF_REDIS_PASSWORD"`
	DB           int           `envconfig:"HF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HF_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HF_JWT_ISSUER" default:"hf-dashboard"`
	ExpirationMinutes      int    `envconfig:"HF_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"HF_REFRESH_TOKEN_TTL_MINUTES" default:"10080"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HF_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HF_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HF_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HF_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HF_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"HF_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"HF_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"HF_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	// TrustProxyHeaders reads the client IP from X-Forwarded-For and X-Real-IP.
	// Enable it only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `envconfig:"HF_AUTH_TRUST_PROXY_HEADERS" default:"false"`
}

// StockConfig holds the windows used by the stock and dashboard services.
type StockConfig struct {
	ShelfLifeDays         int `envconfig:"HF_STOCK_SHELF_LIFE_DAYS" default:"10"`
	DashboardUpcomingDays int `envconfig:"HF_DASHBOARD_UPCOMING_DAYS" default:"7"`
	DashboardExpiringDays int `envconfig:"HF_DASHBOARD_EXPIRING_DAYS" default:"3"`
}

// ShelfLife converts the configured shelf life into a duration.
func (s StockConfig) ShelfLife() time.Duration {
	days := s.ShelfLifeDays
	if days <= 0 {
		days = DefaultShelfLifeDays
	}
	return time.Duration(days) * 24 * time.Hour
}

type CronConfig struct {
	Interval time.Duration `envconfig:"HF_CRON_INTERVAL" default:"1h"`
	Schedule string        `envconfig:"HF_CRON_SCHEDULE"`
	LockKey  string        `envconfig:"HF_CRON_LOCK_KEY" default:"cron-worker"`
	LockTTL  time.Duration `envconfig:"HF_CRON_LOCK_TTL" default:"55m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDBDriver, DBDriverSQLite)
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
