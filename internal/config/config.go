package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	BaseURL           string            `mapstructure:"client_base_url"`
	TimeoutMillis     int64             `mapstructure:"client_timeout_ms"`
	Timeout           time.Duration     `mapstructure:"-"`
	Headers           map[string]string `mapstructure:"-"`
	Interceptors      []string          `mapstructure:"-"`
	BearerToken       string            `mapstructure:"client_bearer_token"`
	PublishersFile    string            `mapstructure:"publishers_file"`
	JournalType       string            `mapstructure:"journal_type"`
	JournalPath       string            `mapstructure:"journal_path"`
	JournalTTLSeconds int64             `mapstructure:"journal_ttl_seconds"`
	JournalCleanupSec int64             `mapstructure:"journal_cleanup_interval_seconds"`
	JournalTTL        time.Duration     `mapstructure:"-"`
	JournalCleanup    time.Duration     `mapstructure:"-"`

	TracingEndpoint   string  `mapstructure:"tracing_endpoint"`
	TracingInsecure   bool    `mapstructure:"tracing_insecure"`
	TracingSampleRate float64 `mapstructure:"tracing_sample_rate"`
}

// Load reads configuration from configs/.env, an optional YAML/JSON config file and
// environment variables. An empty path falls back to $FACADE_CONFIG.
func Load(path string) (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "samvad-httpfacade")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("client_base_url", "")
	v.SetDefault("client_timeout_ms", 10000)
	v.SetDefault("client_headers", "")
	v.SetDefault("client_interceptors", "")
	v.SetDefault("client_bearer_token", "")
	v.SetDefault("publishers_file", "")
	v.SetDefault("journal_type", "none")
	v.SetDefault("journal_path", "./data/journal.db")
	v.SetDefault("journal_ttl_seconds", int64((24*time.Hour)/time.Second))
	v.SetDefault("journal_cleanup_interval_seconds", int64(time.Hour/time.Second))
	v.SetDefault("tracing_endpoint", "")
	v.SetDefault("tracing_insecure", true)
	v.SetDefault("tracing_sample_rate", 1.0)

	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv("FACADE_CONFIG")
	}
	if path = strings.TrimSpace(path); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	headers, err := parseHeaders(v.Get("client_headers"))
	if err != nil {
		return nil, err
	}
	cfg.Headers = headers
	cfg.Interceptors = parseList(v.Get("client_interceptors"))

	if cfg.TimeoutMillis <= 0 {
		return nil, fmt.Errorf("invalid client_timeout_ms (must be positive milliseconds)")
	}
	cfg.Timeout = time.Duration(cfg.TimeoutMillis) * time.Millisecond

	if cfg.JournalTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid journal_ttl_seconds (must be positive seconds)")
	}
	if cfg.JournalCleanupSec <= 0 {
		return nil, fmt.Errorf("invalid journal_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.JournalTTL = time.Duration(cfg.JournalTTLSeconds) * time.Second
	cfg.JournalCleanup = time.Duration(cfg.JournalCleanupSec) * time.Second

	if cfg.TracingSampleRate < 0 || cfg.TracingSampleRate > 1 {
		return nil, fmt.Errorf("invalid tracing_sample_rate (must be within [0,1])")
	}

	return &cfg, nil
}

// parseHeaders accepts either a map (config file) or a "k=v,k2=v2" string (env).
func parseHeaders(raw any) (map[string]string, error) {
	out := map[string]string{}
	switch val := raw.(type) {
	case nil:
	case map[string]any:
		for k, v := range val {
			out[strings.TrimSpace(k)] = strings.TrimSpace(fmt.Sprint(v))
		}
	case map[string]string:
		for k, v := range val {
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	case string:
		for _, pair := range splitList(val) {
			k, v, ok := strings.Cut(pair, "=")
			if !ok || strings.TrimSpace(k) == "" {
				return nil, fmt.Errorf("invalid client_headers entry %q (expected key=value)", pair)
			}
			out[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	default:
		return nil, fmt.Errorf("invalid client_headers type %T", raw)
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

// parseList accepts a list (config file) or a comma separated string (env).
func parseList(raw any) []string {
	switch val := raw.(type) {
	case string:
		return splitList(val)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return splitList(strings.Join(val, ","))
	default:
		return nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
