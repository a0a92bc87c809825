package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	// EnvPrefix namespaces every environment variable the office app reads.
	EnvPrefix = "office"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Scholar       ScholarConfig
	Analytics     AnalyticsConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

// Load reads configuration from the environment. A missing required value is
// a startup failure, never a per-request one.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Scholar.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"OFFICE_APP_ENV" required:"true"`
	Port         string `envconfig:"OFFICE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"OFFICE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OFFICE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"OFFICE_DB_DSN"`

	Host     string `envconfig:"OFFICE_DB_HOST"`
	Port     int    `envconfig:"OFFICE_DB_PORT" default:"5432"`
	User     string `envconfig:"OFFICE_DB_USER"`
	Password string `envconfig:"OFFICE_DB_PASSWORD"`
	Name     string `envconfig:"OFFICE_DB_NAME"`
	SSLMode  string `envconfig:"OFFICE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"OFFICE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"OFFICE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"OFFICE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OFFICE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	for env, value := range map[string]string{
		"OFFICE_DB_HOST": db.Host,
		"OFFICE_DB_USER": db.User,
		"OFFICE_DB_NAME": db.Name,
	} {
		if value == "" {
			missing = append(missing, env)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("either OFFICE_DB_DSN or %s are required", strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}
	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"OFFICE_REDIS_URL"`
	Address      string        `envconfig:"OFFICE_REDIS_ADDR"`
	Password     string        `envconfig:"OFFICE_REDIS_PASSWORD"`
	DB           int           `envconfig:"OFFICE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OFFICE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OFFICE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OFFICE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OFFICE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"OFFICE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"OFFICE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"OFFICE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"OFFICE_JWT_EXPIRATION_MINUTES" default:"60"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"OFFICE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"OFFICE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"OFFICE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"OFFICE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"OFFICE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"OFFICE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit int           `envconfig:"OFFICE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit    int           `envconfig:"OFFICE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type ScholarConfig struct {
	// PetRatePerKg is the rand value credited to the Green Scholar fund per
	// kilogram of PET material in an approved collection.
	PetRatePerKg string `envconfig:"OFFICE_SCHOLAR_PET_RATE_PER_KG" default:"1.50"`
}

func (s ScholarConfig) validate() error {
	rate, err := decimal.NewFromString(s.PetRatePerKg)
	if err != nil {
		return fmt.Errorf("invalid OFFICE_SCHOLAR_PET_RATE_PER_KG %q: %w", s.PetRatePerKg, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("OFFICE_SCHOLAR_PET_RATE_PER_KG must not be negative")
	}
	return nil
}

// PetRate returns the parsed contribution rate. validate() runs at startup,
// so a parse failure here means Load was bypassed.
func (s ScholarConfig) PetRate() decimal.Decimal {
	rate, err := decimal.NewFromString(s.PetRatePerKg)
	if err != nil {
		return decimal.Zero
	}
	return rate
}

type AnalyticsConfig struct {
	QueryTimeout time.Duration `envconfig:"OFFICE_ANALYTICS_QUERY_TIMEOUT" default:"5s"`
}

type CronConfig struct {
	Interval             time.Duration `envconfig:"OFFICE_CRON_INTERVAL" default:"24h"`
	ArchiveRetentionDays int           `envconfig:"OFFICE_CRON_ARCHIVE_RETENTION_DAYS" default:"365"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"OFFICE_AUTO_MIGRATE" default:"false"`
}
