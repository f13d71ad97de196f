package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      AppConfig
	Log      LogConfig
	HTTP     HTTPConfig
	JWT      JWTConfig
	Branches map[string]BranchConfig
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Name string
	Env  string
	Port string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// HTTPConfig holds HTTP server configuration
type HTTPConfig struct {
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	IdleTimeout      time.Duration
	MaxHeaderBytes   int
	ShutdownTimeout  time.Duration
	CORSAllowOrigins []string
	CORSAllowMethods []string
	CORSAllowHeaders []string
}

// JWTConfig holds settings for the login token
type JWTConfig struct {
	Secret     string
	Issuer     string
	Expiration time.Duration
}

// BranchConfig holds the connection parameters for one branch database.
// Each branch runs its own SQL Server instance with its own database; the
// key under `branches.<key>` is the tenant identifier requests resolve to.
type BranchConfig struct {
	Name           string        `mapstructure:"name"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Database       string        `mapstructure:"database"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load loads configuration from TOML file and environment variables
// Priority (highest to lowest):
// 1. Environment variables with WWI_ prefix (e.g., WWI_BRANCHES_SANJOSE_PASSWORD)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./backend")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("WWI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:      v.GetDuration("http.read_timeout"),
			WriteTimeout:     v.GetDuration("http.write_timeout"),
			IdleTimeout:      v.GetDuration("http.idle_timeout"),
			MaxHeaderBytes:   v.GetInt("http.max_header_bytes"),
			ShutdownTimeout:  v.GetDuration("http.shutdown_timeout"),
			CORSAllowOrigins: v.GetStringSlice("http.cors_allow_origins"),
			CORSAllowMethods: v.GetStringSlice("http.cors_allow_methods"),
			CORSAllowHeaders: v.GetStringSlice("http.cors_allow_headers"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("jwt.secret"),
			Issuer:     v.GetString("jwt.issuer"),
			Expiration: v.GetDuration("jwt.expiration"),
		},
	}

	if err := v.UnmarshalKey("branches", &cfg.Branches); err != nil {
		return nil, fmt.Errorf("error parsing branches configuration: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DefaultBranches returns the built-in branch table used when no branches
// are configured: one entry per Wide World Importers branch database.
func DefaultBranches() map[string]BranchConfig {
	return map[string]BranchConfig{
		"sanjose": {
			Name:     "San José",
			Port:     1437,
			Database: "WWI_SanJose",
		},
		"limon": {
			Name:     "Limón",
			Port:     1435,
			Database: "WWI_Limon",
		},
		"corporativo": {
			Name:     "Corporativo",
			Port:     1436,
			Database: "WWI_Corporativo",
		},
	}
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "wwi-backend"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "5000"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 60 * time.Second
	}
	if cfg.HTTP.IdleTimeout == 0 {
		cfg.HTTP.IdleTimeout = 60 * time.Second
	}
	if cfg.HTTP.MaxHeaderBytes == 0 {
		cfg.HTTP.MaxHeaderBytes = 1 << 20 // 1MB
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 30 * time.Second
	}
	if len(cfg.HTTP.CORSAllowMethods) == 0 {
		cfg.HTTP.CORSAllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.HTTP.CORSAllowHeaders) == 0 {
		cfg.HTTP.CORSAllowHeaders = []string{"Content-Type", "Authorization", "X-Request-ID", "X-Sucursal"}
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "wwi-backend"
	}
	if cfg.JWT.Expiration == 0 {
		cfg.JWT.Expiration = 8 * time.Hour
	}

	if len(cfg.Branches) == 0 {
		cfg.Branches = DefaultBranches()
	}
	for key, b := range cfg.Branches {
		if b.Name == "" {
			b.Name = key
		}
		if b.Host == "" {
			b.Host = "localhost"
		}
		if b.Port == 0 {
			b.Port = 1433
		}
		if b.User == "" {
			b.User = "sa"
		}
		if b.MaxOpenConns == 0 {
			b.MaxOpenConns = 10
		}
		if b.IdleTimeout == 0 {
			b.IdleTimeout = 30 * time.Second
		}
		if b.ConnectTimeout == 0 {
			b.ConnectTimeout = 30 * time.Second
		}
		if b.RequestTimeout == 0 {
			b.RequestTimeout = 30 * time.Second
		}
		cfg.Branches[key] = b
	}
}

// validate performs validation on the configuration
func (c *Config) validate() error {
	for key, b := range c.Branches {
		if b.Database == "" {
			return fmt.Errorf("branches.%s.database is required", key)
		}
		if b.MaxOpenConns <= 0 {
			return fmt.Errorf("branches.%s.max_open_conns must be positive", key)
		}
		if b.MaxIdleConns < 0 {
			return fmt.Errorf("branches.%s.max_idle_conns cannot be negative", key)
		}
		if b.MaxIdleConns > b.MaxOpenConns {
			return fmt.Errorf("branches.%s.max_idle_conns (%d) cannot exceed max_open_conns (%d)",
				key, b.MaxIdleConns, b.MaxOpenConns)
		}
	}

	if c.App.Env == "production" {
		if c.JWT.Secret == "" {
			return fmt.Errorf("jwt.secret is required in production")
		}
		for key, b := range c.Branches {
			if b.Password == "" {
				return fmt.Errorf("branches.%s.password is required in production", key)
			}
		}
	}

	return nil
}
