package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"hubtool/internal/domain"
)

// Defaults reproduce the original operational setup; every one can be
// overridden by environment variable or flag.
const (
	DefaultEndpoint      = "https://huggingface.co"
	DefaultModelID       = "mlx-community/Ministral-3-14B-Instruct-2512-4bit"
	DefaultRevision      = "main"
	DefaultLocalDir      = "~/.cache/mlx-models/ministral-3-14b"
	DefaultServerCommand = "mlx_lm.server"
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8080
)

type Config struct {
	Hub    HubConfig
	Server ServerConfig
	Logger LoggerConfig
}

type HubConfig struct {
	Endpoint string
	Token    string
	ModelID  string
	Revision string
	LocalDir string
	// InsecureSkipVerify disables TLS certificate verification for hub
	// requests. Default off; enabling it is an explicit operator choice.
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
}

type ServerConfig struct {
	Command string
	Host    string
	Port    int
}

type LoggerConfig struct {
	Level  string
	Format string
}

// flagKeys maps config keys to the CLI flags that may override them.
var flagKeys = map[string]string{
	"HUB_ENDPOINT":             "endpoint",
	"HUB_TOKEN":                "token",
	"HUB_MODEL_ID":             "model",
	"HUB_REVISION":             "revision",
	"HUB_LOCAL_DIR":            "local-dir",
	"HUB_INSECURE_SKIP_VERIFY": "insecure",
	"HUB_REQUEST_TIMEOUT":      "timeout",
	"SERVER_COMMAND":           "server-cmd",
	"SERVER_HOST":              "host",
	"SERVER_PORT":              "port",
}

// Load builds the configuration from defaults, environment variables, and
// any explicitly set flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("HUB_ENDPOINT", DefaultEndpoint)
	v.SetDefault("HUB_TOKEN", "")
	v.SetDefault("HUB_MODEL_ID", DefaultModelID)
	v.SetDefault("HUB_REVISION", DefaultRevision)
	v.SetDefault("HUB_LOCAL_DIR", DefaultLocalDir)
	v.SetDefault("HUB_INSECURE_SKIP_VERIFY", false)
	v.SetDefault("HUB_REQUEST_TIMEOUT", "0")
	v.SetDefault("SERVER_COMMAND", DefaultServerCommand)
	v.SetDefault("SERVER_HOST", DefaultHost)
	v.SetDefault("SERVER_PORT", DefaultPort)
	v.SetDefault("LOGGER_LEVEL", "info")
	v.SetDefault("LOGGER_FORMAT", "text")

	// Env
	v.AutomaticEnv()

	// Flags set by the operator win over everything.
	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
	}

	timeout, err := time.ParseDuration(v.GetString("HUB_REQUEST_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("parse HUB_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Hub: HubConfig{
			Endpoint:           v.GetString("HUB_ENDPOINT"),
			Token:              v.GetString("HUB_TOKEN"),
			ModelID:            v.GetString("HUB_MODEL_ID"),
			Revision:           v.GetString("HUB_REVISION"),
			LocalDir:           expandHome(v.GetString("HUB_LOCAL_DIR")),
			InsecureSkipVerify: v.GetBool("HUB_INSECURE_SKIP_VERIFY"),
			RequestTimeout:     timeout,
		},
		Server: ServerConfig{
			Command: v.GetString("SERVER_COMMAND"),
			Host:    v.GetString("SERVER_HOST"),
			Port:    v.GetInt("SERVER_PORT"),
		},
		Logger: LoggerConfig{
			Level:  v.GetString("LOGGER_LEVEL"),
			Format: v.GetString("LOGGER_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := domain.ParseArtifactRef(c.Hub.ModelID, c.Hub.Revision); err != nil {
		return err
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: %d", domain.ErrInvalidServerPort, c.Server.Port)
	}
	return nil
}

// expandHome resolves a leading "~" against the operator's home directory.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
