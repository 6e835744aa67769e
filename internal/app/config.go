package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yungbote/maiopinion/internal/platform/openai"
	"github.com/yungbote/maiopinion/internal/store"
)

type Config struct {
	LogMode     string `mapstructure:"LOG_MODE"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`
	UploadDir   string `mapstructure:"UPLOAD_DIR"`
	MaxUploadMB int    `mapstructure:"MAX_UPLOAD_MB"`

	StoreDriver   string `mapstructure:"STORE_DRIVER"`
	PatientDBPath string `mapstructure:"PATIENT_DB_PATH"`
	SQLitePath    string `mapstructure:"SQLITE_PATH"`
	PostgresDSN   string `mapstructure:"POSTGRES_DSN"`

	GitHubToken       string `mapstructure:"GITHUB_TOKEN"`
	GitHubModel       string `mapstructure:"GITHUB_MODEL"`
	AzureKey          string `mapstructure:"AZURE_OPENAI_KEY"`
	AzureEndpoint     string `mapstructure:"AZURE_OPENAI_ENDPOINT"`
	AzureAPIVersion   string `mapstructure:"AZURE_OPENAI_API_VERSION"`
	AzureDeployment   string `mapstructure:"AZURE_OPENAI_DEPLOYMENT"`
	OpenAIKey         string `mapstructure:"OPENAI_API_KEY"`
	OpenAIModel       string `mapstructure:"OPENAI_MODEL"`
	OpenAIBaseURL     string `mapstructure:"OPENAI_BASE_URL"`
	LLMTimeoutSeconds int    `mapstructure:"LLM_TIMEOUT_SECONDS"`

	SendGridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendGridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`
	SendGridBaseURL   string `mapstructure:"SENDGRID_BASE_URL"`
	SendGridSandbox   bool   `mapstructure:"SENDGRID_SANDBOX"`

	ReminderInterval time.Duration `mapstructure:"REMINDER_INTERVAL"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	ReminderLockTTL  time.Duration `mapstructure:"REMINDER_LOCK_TTL"`

	OtelEnabled     bool    `mapstructure:"OTEL_ENABLED"`
	OtelEndpoint    string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelInsecure    bool    `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OtelSampleRatio float64 `mapstructure:"OTEL_SAMPLER_RATIO"`
	OtelServiceName string  `mapstructure:"OTEL_SERVICE_NAME"`
}

var defaults = map[string]any{
	"LOG_MODE":                 "development",
	"HTTP_ADDR":                ":5000",
	"CORS_ORIGINS":             "http://localhost:3000,http://localhost:5173",
	"UPLOAD_DIR":               "",
	"MAX_UPLOAD_MB":            16,
	"STORE_DRIVER":             store.DriverCSV,
	"PATIENT_DB_PATH":          "patients_db.csv",
	"SQLITE_PATH":              "maiopinion.db",
	"GITHUB_MODEL":             openai.DefaultModel,
	"AZURE_OPENAI_API_VERSION": openai.DefaultAzureAPIVersion,
	"AZURE_OPENAI_DEPLOYMENT":  openai.DefaultModel,
	"OPENAI_MODEL":             openai.DefaultModel,
	"LLM_TIMEOUT_SECONDS":      30,
	"SENDGRID_FROM_NAME":       "MaiOpinion Healthcare Assistant",
	"REMINDER_INTERVAL":        "0s",
	"REMINDER_LOCK_TTL":        "5m",
	"OTEL_SAMPLER_RATIO":       0.1,
	"OTEL_SERVICE_NAME":        "maiopinion",
}

var envKeys = []string{
	"LOG_MODE", "HTTP_ADDR", "CORS_ORIGINS", "UPLOAD_DIR", "MAX_UPLOAD_MB",
	"STORE_DRIVER", "PATIENT_DB_PATH", "SQLITE_PATH", "POSTGRES_DSN",
	"GITHUB_TOKEN", "GITHUB_MODEL",
	"AZURE_OPENAI_KEY", "AZURE_OPENAI_ENDPOINT", "AZURE_OPENAI_API_VERSION", "AZURE_OPENAI_DEPLOYMENT",
	"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL", "LLM_TIMEOUT_SECONDS",
	"SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL", "SENDGRID_FROM_NAME", "SENDGRID_BASE_URL", "SENDGRID_SANDBOX",
	"REMINDER_INTERVAL", "REDIS_ADDR", "REDIS_PASSWORD", "REMINDER_LOCK_TTL",
	"OTEL_ENABLED", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_EXPORTER_OTLP_INSECURE", "OTEL_SAMPLER_RATIO", "OTEL_SERVICE_NAME",
}

// LoadConfig reads envFile (if present) and the environment. Environment
// values win over the file.
func LoadConfig(envFile string) (Config, error) {
	v := viper.New()
	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
	}
	v.AutomaticEnv()

	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	for _, k := range envKeys {
		_ = v.BindEnv(k)
	}

	if envFile != "" {
		// A missing file is fine.
		_ = v.ReadInConfig()
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.StoreDriver)) {
	case "", store.DriverCSV, store.DriverSQLite:
	case store.DriverPostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER is %q", store.DriverPostgres)
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be csv, sqlite or postgres, got %q", c.StoreDriver)
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB)
	}
	if c.ReminderInterval < 0 {
		return fmt.Errorf("REMINDER_INTERVAL must not be negative")
	}
	return nil
}

func (c Config) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func (c Config) ProviderEnv() openai.ProviderEnv {
	return openai.ProviderEnv{
		GitHubToken:     c.GitHubToken,
		GitHubModel:     c.GitHubModel,
		AzureKey:        c.AzureKey,
		AzureEndpoint:   c.AzureEndpoint,
		AzureAPIVersion: c.AzureAPIVersion,
		AzureDeployment: c.AzureDeployment,
		OpenAIKey:       c.OpenAIKey,
		OpenAIModel:     c.OpenAIModel,
		OpenAIBaseURL:   c.OpenAIBaseURL,
		Timeout:         time.Duration(c.LLMTimeoutSeconds) * time.Second,
	}
}

func (c Config) StoreOptions() store.Options {
	return store.Options{
		Driver:      c.StoreDriver,
		CSVPath:     c.PatientDBPath,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
	}
}
