package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StoreDriverMemory   = "memory"
	StoreDriverFile     = "file"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

type HTTPConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

type StoreConfig struct {
	Driver    string
	Dir       string
	KeyPrefix string
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type EmailConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type InvoiceConfig struct {
	CompanyName  string
	AddressLine1 string
	AddressLine2 string
	TaxRate      float64
}

type Config struct {
	Environment string
	LogLevel    string
	HTTP        HTTPConfig
	Store       StoreConfig
	DB          DBConfig
	Redis       RedisConfig
	Email       EmailConfig
	Invoice     InvoiceConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTP: HTTPConfig{
			Host:           v.GetString("HTTP_HOST"),
			Port:           v.GetInt("HTTP_PORT"),
			AllowedOrigins: parseList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Store: StoreConfig{
			Driver:    strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
			Dir:       v.GetString("STORE_DIR"),
			KeyPrefix: v.GetString("STORE_KEY_PREFIX"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Email: EmailConfig{
			APIKey:  v.GetString("GEMINI_API_KEY"),
			Model:   v.GetString("GEMINI_MODEL"),
			BaseURL: v.GetString("GEMINI_BASE_URL"),
			Timeout: v.GetDuration("EMAIL_TIMEOUT"),
		},
		Invoice: InvoiceConfig{
			CompanyName:  v.GetString("INVOICE_COMPANY_NAME"),
			AddressLine1: v.GetString("INVOICE_ADDRESS_LINE1"),
			AddressLine2: v.GetString("INVOICE_ADDRESS_LINE2"),
			TaxRate:      v.GetFloat64("INVOICE_TAX_RATE"),
		},
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7090
	}
	if len(cfg.HTTP.AllowedOrigins) == 0 {
		cfg.HTTP.AllowedOrigins = []string{"*"}
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreDriverFile
	}
	if cfg.Store.Dir == "" {
		cfg.Store.Dir = "./data"
	}
	if cfg.Email.APIKey == "" {
		cfg.Email.APIKey = v.GetString("API_KEY")
	}
	if cfg.Email.Timeout == 0 {
		cfg.Email.Timeout = 20 * time.Second
	}
	if cfg.Invoice.CompanyName == "" {
		cfg.Invoice.CompanyName = "AMC Pro Inc."
	}
	if cfg.Invoice.AddressLine1 == "" {
		cfg.Invoice.AddressLine1 = "123 Tech Avenue"
	}
	if cfg.Invoice.AddressLine2 == "" {
		cfg.Invoice.AddressLine2 = "Silicon Valley, CA 94000"
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case StoreDriverMemory, StoreDriverFile:
	case StoreDriverPostgres:
		if cfg.DB.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres store")
		}
	case StoreDriverRedis:
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis store")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", cfg.Store.Driver)
	}
	if cfg.Invoice.TaxRate < 0 {
		return fmt.Errorf("INVOICE_TAX_RATE must not be negative")
	}
	return nil
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	items := strings.Split(raw, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			result = append(result, item)
		}
	}
	return result
}
