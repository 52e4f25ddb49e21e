// Package config loads runtime settings for both services from the
// environment, optionally seeded from a dotenv file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Role selects the service whose defaults apply.
type Role string

const (
	RoleBackend  Role = "backend"
	RoleFrontend Role = "frontend"
)

// Defaults shared by the services.
const (
	DefaultBackendPort    = 3000
	DefaultFrontendPort   = 8080
	DefaultBackendURL     = "http://backend:3000/api/info"
	DefaultFrontendIDURL  = "http://frontend:8080/id"
	DefaultEnvFile        = ".env"
	UpstreamTimeout       = 3 * time.Second
	ReadHeaderTimeout     = 5 * time.Second
	DefaultShutdownWindow = 10 * time.Second
)

const (
	keyPort          = "port"
	keyBackendURL    = "backend_url"
	keyFrontendIDURL = "frontend_id_url"
	keyOTLPEndpoint  = "otlp_endpoint"
	keyShutdown      = "shutdown_timeout"
)

// Config holds the resolved settings for one process.
type Config struct {
	Role            Role
	Port            int
	BackendURL      string
	FrontendIDURL   string
	OTLPEndpoint    string
	UpstreamTimeout time.Duration
	ShutdownTimeout time.Duration
}

// Addr is the listen address; an empty host binds all interfaces.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// TracingEnabled reports whether spans should be exported.
func (c *Config) TracingEnabled() bool {
	return c.OTLPEndpoint != ""
}

// Load reads the environment for the given role. The file named by ENV_FILE
// (default .env) is loaded first when it exists; variables already present in
// the environment take precedence over it.
func Load(role Role) (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetDefault(keyPort, defaultPort(role))
	v.SetDefault(keyBackendURL, DefaultBackendURL)
	v.SetDefault(keyFrontendIDURL, DefaultFrontendIDURL)
	v.SetDefault(keyShutdown, DefaultShutdownWindow)
	bindings := map[string]string{
		keyPort:          "PORT",
		keyBackendURL:    "BACKEND_URL",
		keyFrontendIDURL: "FRONTEND_ID_URL",
		keyOTLPEndpoint:  "OTEL_EXPORTER_OTLP_ENDPOINT",
		keyShutdown:      "SHUTDOWN_TIMEOUT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	port, err := parsePort(v.GetString(keyPort))
	if err != nil {
		return nil, err
	}
	shutdown := v.GetDuration(keyShutdown)
	if shutdown <= 0 {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q", v.GetString(keyShutdown))
	}

	return &Config{
		Role:            role,
		Port:            port,
		BackendURL:      v.GetString(keyBackendURL),
		FrontendIDURL:   v.GetString(keyFrontendIDURL),
		OTLPEndpoint:    v.GetString(keyOTLPEndpoint),
		UpstreamTimeout: UpstreamTimeout,
		ShutdownTimeout: shutdown,
	}, nil
}

func defaultPort(role Role) int {
	if role == RoleBackend {
		return DefaultBackendPort
	}
	return DefaultFrontendPort
}

func parsePort(raw string) (int, error) {
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT %q: %w", raw, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid PORT %d: out of range", port)
	}
	return port, nil
}
