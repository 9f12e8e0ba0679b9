package config

import (
	"errors"
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	Env        string          `yaml:"env" env:"APP_ENV" env-default:"local"`
	ConfigPath string          `yaml:"-" env:"CONFIG_PATH" env-default:""`
	Server     ServerConfig    `yaml:"server"`
	DB         DBConfig        `yaml:"db"`
	Auth       AuthConfig      `yaml:"auth"`
	Storage    StorageConfig   `yaml:"storage"`
	Redis      RedisConfig     `yaml:"redis"`
	SMTP       SMTPConfig      `yaml:"smtp"`
	RateLimit  RateLimitConfig `yaml:"rateLimit"`
	Checkout   CheckoutConfig  `yaml:"checkout"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"SERVER_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"SERVER_WRITE_TIMEOUT" env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" env:"SERVER_IDLE_TIMEOUT" env-default:"1m"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"15s"`
	AllowedOrigins  []string      `yaml:"allowedOrigins" env:"ALLOWED_ORIGINS" env-default:"*"`
	// TrustProxy — брать IP клиента из X-Forwarded-For/X-Real-IP. Включать только за своим прокси.
	TrustProxy bool `yaml:"trustProxy" env:"TRUST_PROXY" env-default:"false"`
	// PublicURL — адрес фронтенда, используется в письмах и QR-кодах квитанций.
	PublicURL string `yaml:"publicURL" env:"PUBLIC_URL" env-default:"http://localhost:5173"`
	// TimeZone — зона, в которой считается дедлайн записи на событие.
	TimeZone string `yaml:"timeZone" env:"EVENT_TIME_ZONE" env-default:"America/New_York"`
}

type DBConfig struct {
	URL             string        `yaml:"url" env:"DATABASE_URL"`
	MaxOpenConns    int           `yaml:"maxOpenConns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"maxIdleConns" env:"DB_MAX_IDLE_CONNS" env-default:"25"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
}

type AuthConfig struct {
	JWTSecretKey string        `yaml:"jwtSecretKey" env:"JWT_SECRET_KEY"`
	TokenTTL     time.Duration `yaml:"tokenTTL" env:"JWT_TOKEN_TTL" env-default:"24h"`
	ResetTTL     time.Duration `yaml:"resetTTL" env:"PASSWORD_RESET_TTL" env-default:"1h"`
}

// StorageConfig — S3-совместимое хранилище аватаров. Пустой Bucket отключает загрузку.
type StorageConfig struct {
	Endpoint        string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
	Region          string `yaml:"region" env:"STORAGE_REGION" env-default:"auto"`
	AccessKeyID     string `yaml:"accessKeyID" env:"STORAGE_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secretAccessKey" env:"STORAGE_SECRET_ACCESS_KEY"`
	Bucket          string `yaml:"bucket" env:"STORAGE_BUCKET"`
	PublicURL       string `yaml:"publicURL" env:"STORAGE_PUBLIC_URL"`
}

func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKeyID != "" && s.SecretAccessKey != ""
}

// RedisConfig — пустой URL включает хранилище в памяти.
type RedisConfig struct {
	URL      string `yaml:"url" env:"REDIS_URL"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

// SMTPConfig — без Host письма только пишутся в лог.
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASS"`
	From     string `yaml:"from" env:"SMTP_FROM" env-default:"no-reply@sidegames.golf"`
	Support  string `yaml:"support" env:"SUPPORT_EMAIL" env-default:"support@sidegames.golf"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"1"`
	Burst int     `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"5"`
}

type CheckoutConfig struct {
	FeePercentBasisPoints int64 `yaml:"feePercentBasisPoints" env:"CHECKOUT_FEE_BP" env-default:"300"`
	FlatFeeCents          int64 `yaml:"flatFeeCents" env:"CHECKOUT_FLAT_FEE_CENTS" env-default:"60"`
}

// Load загружает конфигурацию: .env (если есть), yaml-файл из CONFIG_PATH (если задан),
// затем переменные окружения.
func Load() (*Config, error) {
	// Загружаем .env файл, если он есть. Ошибку не считаем фатальной.
	_ = godotenv.Load()

	var cfg Config
	path := os.Getenv("CONFIG_PATH")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("cannot read config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("cannot read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoad — как Load, но паникует при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) Validate() error {
	var errs []error
	if c.DB.URL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
	}
	if c.Auth.JWTSecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY environment variable is not set"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("JWT_TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL))
	}
	if c.Checkout.FeePercentBasisPoints < 0 || c.Checkout.FlatFeeCents < 0 {
		errs = append(errs, errors.New("checkout fees must not be negative"))
	}
	if _, err := time.LoadLocation(c.Server.TimeZone); err != nil {
		errs = append(errs, fmt.Errorf("EVENT_TIME_ZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location возвращает зону для расчёта дедлайнов записи.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Server.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}
