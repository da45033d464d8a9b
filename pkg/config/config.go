package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "digifund"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "DIGIFUND_DB_DSN"
	EnvDBHost = "DIGIFUND_DB_HOST"
	EnvDBUser = "DIGIFUND_DB_USER"
	EnvDBName = "DIGIFUND_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	CORS         CORSConfig
	FeatureFlags FeatureFlagsConfig
	Insights     InsightsConfig
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
	Env          string `envconfig:"DIGIFUND_APP_ENV" required:"true"`
	Port         string `envconfig:"DIGIFUND_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"DIGIFUND_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"DIGIFUND_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"DIGIFUND_DB_DSN"`
	Driver string `envconfig:"DIGIFUND_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"DIGIFUND_DB_HOST"`
	LegacyPort     int    `envconfig:"DIGIFUND_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"DIGIFUND_DB_USER"`
	LegacyPassword string `envconfig:"DIGIFUND_DB_PASSWORD"`
	LegacyName     string `envconfig:"DIGIFUND_DB_NAME"`
	LegacySSLMode  string `envconfig:"DIGIFUND_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"DIGIFUND_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"DIGIFUND_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"DIGIFUND_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"DIGIFUND_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"DIGIFUND_REDIS_URL" required:"true"`
	Address      string        `envconfig:"DIGIFUND_REDIS_ADDR"`
	Password     string        `envconfig:"DIGIFUND_REDIS_PASSWORD"`
	DB           int           `envconfig:"DIGIFUND_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"DIGIFUND_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"DIGIFUND_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIGIFUND_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"DIGIFUND_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"DIGIFUND_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"DIGIFUND_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"DIGIFUND_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"DIGIFUND_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"DIGIFUND_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the server-side session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"DIGIFUND_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"DIGIFUND_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"DIGIFUND_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"DIGIFUND_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"DIGIFUND_ARGON_KEY_LEN" default:"32"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"DIGIFUND_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"DIGIFUND_AUTO_MIGRATE" default:"false"`
}

type InsightsConfig struct {
	AnomalyThreshold  float64 `envconfig:"DIGIFUND_INSIGHTS_ANOMALY_THRESHOLD" default:"2.0"`
	AnomalyWindowDays int     `envconfig:"DIGIFUND_INSIGHTS_ANOMALY_WINDOW_DAYS" default:"30"`
	SearchMaxResults  int     `envconfig:"DIGIFUND_INSIGHTS_SEARCH_MAX_RESULTS" default:"20"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
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
