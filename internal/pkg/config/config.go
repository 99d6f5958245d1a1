package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tjfontaine/gamefo-gateway/internal/domain"
)

const (
	// EnvPrefix namespaces gateway environment variables. Nested keys use a
	// double underscore, e.g. GAMEFO_UPSTREAM__API_KEY.
	EnvPrefix = "GAMEFO_"

	// LegacyAPIKeyEnv is the variable the web application has always used.
	LegacyAPIKeyEnv = "RAWG_API_KEY"

	DefaultConfigPath = "config.yaml"
	DefaultBaseURL    = "https://api.rawg.io/api"
)

// Error status policies for logical failures.
const (
	ErrorStatusMapped = "mapped"
	ErrorStatusOK     = "ok"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port           int           `koanf:"port" validate:"min=1,max=65535"`
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"min=0"`
	// ErrorStatus is "mapped" (400/502 for failures) or "ok" (always 200).
	ErrorStatus string `koanf:"error_status" validate:"oneof=mapped ok"`
	Metrics     bool   `koanf:"metrics"`
}

type UpstreamConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	APIKey  string `koanf:"api_key"`
	// Timeout bounds each outbound call. Zero leaves the HTTP client default.
	Timeout              time.Duration `koanf:"timeout" validate:"min=0"`
	BlockPrivateNetworks bool          `koanf:"block_private_networks"`
}

type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json text"`
}

type TelemetryConfig struct {
	Enabled     bool   `koanf:"enabled"`
	ServiceName string `koanf:"service_name"`
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

var validate = validator.New()

// Defaults returns the configuration used before any file or env layer.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: 30 * time.Second,
			ErrorStatus:    ErrorStatusMapped,
			Metrics:        true,
		},
		Upstream: UpstreamConfig{
			BaseURL:              DefaultBaseURL,
			BlockPrivateNetworks: true,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Telemetry: TelemetryConfig{
			ServiceName: "gamefo-gateway",
		},
	}
}

// Load reads config.yaml from the working directory if present.
func Load() (*Config, error) {
	return LoadFile(DefaultConfigPath)
}

// LoadFile layers defaults, the YAML file at path (optional) and GAMEFO_
// environment variables, then validates the result. A missing API key is
// reported as a *domain.ConfigurationError.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			// File not found is OK, we'll use env vars
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Upstream.APIKey = substituteEnvVars(cfg.Upstream.APIKey)
	if cfg.Upstream.APIKey == "" {
		cfg.Upstream.APIKey = os.Getenv(LegacyAPIKeyEnv)
	}
	cfg.Upstream.BaseURL = strings.TrimSuffix(cfg.Upstream.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field constraints and that the upstream secret is present.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if strings.TrimSpace(c.Upstream.APIKey) == "" {
		return &domain.ConfigurationError{
			Field:  "upstream.api_key",
			Reason: "not set (use " + EnvPrefix + "UPSTREAM__API_KEY or " + LegacyAPIKeyEnv + ")",
		}
	}
	return nil
}

// envTransform maps GAMEFO_UPSTREAM__API_KEY to upstream.api_key. Variables
// that are set but empty are skipped so they cannot blank out a file value.
func envTransform(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.ReplaceAll(key, "__", "."), value
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
