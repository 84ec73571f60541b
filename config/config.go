package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	// DevelopmentCRMBaseURL is used when no CRM URL is configured outside production.
	DevelopmentCRMBaseURL = "http://localhost:8000"
	// ProductionCRMBaseURL is the fallback CRM URL for every other environment.
	ProductionCRMBaseURL = "https://crm.pestpro.in"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	CRM           CRMConfig
	Email         EmailConfig
	Maps          MapsConfig
	Database      DatabaseConfig
	Business      BusinessConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

type CRMConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type EmailConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
	To   string
}

type MapsConfig struct {
	APIKey  string
	Country string
}

type DatabaseConfig struct {
	URL        string
	MaxConns   int32
	MinConns   int32
	CACertPath string
}

// BusinessConfig holds the fallback contact channels shown next to every
// submission result.
type BusinessConfig struct {
	Phone    string
	WhatsApp string
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	ExporterEndpoint string
	ExporterInsecure bool
	ServiceName      string
	ServiceVersion   string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://pestpro.in,https://www.pestpro.in")
	v.SetDefault("CRM_TIMEOUT_SECONDS", 10)
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAPS_COUNTRY", "in")
	v.SetDefault("DATABASE_MAX_CONNS", 5)
	v.SetDefault("DATABASE_MIN_CONNS", 1)
	v.SetDefault("BUSINESS_PHONE", "+919876500000")
	v.SetDefault("BUSINESS_WHATSAPP", "919876500000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "pestpro-api")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_EXPORTER_INSECURE", true)
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,goroutines")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	appEnv := v.GetString("APP_ENV")
	emailUser := v.GetString("EMAIL_USER")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         appEnv,
			AllowedOrigins: splitList(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		CRM: CRMConfig{
			BaseURL:        ResolveCRMBaseURL(v.GetString("NEXT_PUBLIC_CRM_API_URL"), appEnv),
			TimeoutSeconds: v.GetInt("CRM_TIMEOUT_SECONDS"),
		},
		Email: EmailConfig{
			Host: v.GetString("SMTP_HOST"),
			Port: v.GetInt("SMTP_PORT"),
			User: emailUser,
			Pass: v.GetString("EMAIL_PASS"),
			From: firstNonEmpty(v.GetString("EMAIL_FROM"), emailUser),
			To:   firstNonEmpty(v.GetString("EMAIL_TO"), emailUser),
		},
		Maps: MapsConfig{
			APIKey:  v.GetString("GOOGLE_MAPS_API_KEY"),
			Country: v.GetString("MAPS_COUNTRY"),
		},
		Database: DatabaseConfig{
			URL:        v.GetString("DATABASE_URL"),
			MaxConns:   v.GetInt32("DATABASE_MAX_CONNS"),
			MinConns:   v.GetInt32("DATABASE_MIN_CONNS"),
			CACertPath: v.GetString("DATABASE_CA_CERT"),
		},
		Business: BusinessConfig{
			Phone:    v.GetString("BUSINESS_PHONE"),
			WhatsApp: v.GetString("BUSINESS_WHATSAPP"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			ExporterEndpoint: v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ExporterInsecure: v.GetBool("O11Y_EXPORTER_INSECURE"),
			ServiceName:      v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceVersion:   v.GetString("O11Y_BE_SERVICE_VERSION"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ResolveCRMBaseURL picks the CRM base URL: an explicit value wins, then the
// local development server, then the production CRM. Trailing slashes are
// removed so callers can append paths.
func ResolveCRMBaseURL(explicit, appEnv string) string {
	if u := strings.TrimRight(strings.TrimSpace(explicit), "/"); u != "" {
		return u
	}
	if appEnv == "development" {
		return DevelopmentCRMBaseURL
	}
	return ProductionCRMBaseURL
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}
	if c.CRM.BaseURL == "" {
		return fmt.Errorf("CRM base URL could not be resolved")
	}
	if c.Email.Port <= 0 {
		return fmt.Errorf("SMTP_PORT must be positive")
	}
	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// EmailConfigured reports whether SMTP credentials are present. Missing
// credentials are a supported state: notifications are skipped.
func (c *Config) EmailConfigured() bool {
	return c.Email.User != "" && c.Email.Pass != ""
}

func splitList(s string) []string {
	out := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
