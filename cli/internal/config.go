package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devilmonastery/openproof/internal/client"
)

// ConfigEnvVar points at an alternative config file.
const ConfigEnvVar = "OPENPROOF_CONFIG"

// Context represents a named configuration context (like kubectl contexts)
type Context struct {
	Server struct {
		URL     string `yaml:"url"`
		WebURL  string `yaml:"web_url,omitempty"`
		Timeout string `yaml:"timeout,omitempty"`
	} `yaml:"server"`
	Rendering struct {
		Theme string `yaml:"theme"`
	} `yaml:"rendering"`
}

// Config represents the CLI configuration with multiple contexts
type Config struct {
	CurrentContext string              `yaml:"current-context"`
	Contexts       map[string]*Context `yaml:"contexts"`
}

// DefaultConfig returns the default configuration with "default" and "local" contexts
func DefaultConfig() *Config {
	defaultContext := &Context{}
	defaultContext.Server.URL = client.DefaultBaseURL
	defaultContext.Server.Timeout = client.DefaultTimeout.String()
	defaultContext.Rendering.Theme = "auto"

	localContext := &Context{}
	localContext.Server.URL = "http://localhost:8080"
	localContext.Server.Timeout = client.DefaultTimeout.String()
	localContext.Rendering.Theme = "auto"

	return &Config{
		CurrentContext: "default",
		Contexts: map[string]*Context{
			"default": defaultContext,
			"local":   localContext,
		},
	}
}

// GetCurrentContext returns the current active context
func (c *Config) GetCurrentContext() (*Context, error) {
	return c.GetContext(c.CurrentContext)
}

// GetContext returns the named context
func (c *Config) GetContext(name string) (*Context, error) {
	if name == "" {
		return nil, fmt.Errorf("no current context set")
	}

	ctx, ok := c.Contexts[name]
	if !ok {
		return nil, fmt.Errorf("context %q not found", name)
	}

	return ctx, nil
}

// SetCurrentContext sets the current active context
func (c *Config) SetCurrentContext(name string) error {
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	c.CurrentContext = name
	return nil
}

// AddContext adds or updates a context
func (c *Config) AddContext(name string, ctx *Context) {
	if c.Contexts == nil {
		c.Contexts = make(map[string]*Context)
	}
	c.Contexts[name] = ctx
}

// DeleteContext removes a context
func (c *Config) DeleteContext(name string) error {
	if name == c.CurrentContext {
		return fmt.Errorf("cannot delete current context %q", name)
	}
	if _, ok := c.Contexts[name]; !ok {
		return fmt.Errorf("context %q does not exist", name)
	}
	delete(c.Contexts, name)
	return nil
}

// GetConfigPath returns the path to the config file: $OPENPROOF_CONFIG, or
// ~/.openproof.yaml
func GetConfigPath() (string, error) {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".openproof.yaml"), nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// LoadConfig loads configuration from path, expanding environment
// variables. A missing file yields the defaults; nothing is written until a
// config command saves.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(expandEnvVars(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if len(config.Contexts) == 0 {
		return DefaultConfig(), nil
	}

	// Ensure we have a valid current context
	if config.CurrentContext == "" {
		config.CurrentContext = firstContextName(config.Contexts)
	}

	return &config, nil
}

// SaveConfig saves configuration to path
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// firstContextName picks a stable fallback when current-context is unset.
func firstContextName(contexts map[string]*Context) string {
	first := ""
	for name := range contexts {
		if first == "" || name < first {
			first = name
		}
	}
	return first
}

// BaseURL returns the registry origin for this context
func (ctx *Context) BaseURL() string {
	if ctx.Server.URL == "" {
		return client.DefaultBaseURL
	}
	return strings.TrimRight(ctx.Server.URL, "/")
}

// WebURL returns the origin document links are built on, defaulting to the
// registry origin
func (ctx *Context) WebURL() string {
	if ctx.Server.WebURL == "" {
		return ctx.BaseURL()
	}
	return strings.TrimRight(ctx.Server.WebURL, "/")
}

// RequestTimeout returns the per-request deadline for this context
func (ctx *Context) RequestTimeout() (time.Duration, error) {
	if ctx.Server.Timeout == "" {
		return client.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(ctx.Server.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid server timeout %q: %w", ctx.Server.Timeout, err)
	}
	return d, nil
}

// Theme returns the glamour style for this context
func (ctx *Context) Theme() string {
	if ctx.Rendering.Theme == "" {
		return "auto"
	}
	return ctx.Rendering.Theme
}
