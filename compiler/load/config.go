package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Persistence providers.
const (
	ProviderSQLite   = "sqlite"
	ProviderFirebase = "firebase"
)

// Config is the parsed application configuration file.
type Config struct {
	App         *App           `yaml:"app,omitempty" json:"app,omitempty"`
	Persistence Persistence    `yaml:"persistence,omitempty" json:"persistence,omitempty"`
	Auth        Auth           `yaml:"auth,omitempty" json:"auth,omitempty"`
	Dashboard   Dashboard      `yaml:"dashboard,omitempty" json:"dashboard,omitempty"`
	Theme       map[string]any `yaml:"theme,omitempty" json:"theme,omitempty"`
	Modules     []*Module      `yaml:"modules,omitempty" json:"modules,omitempty"`
}

// App holds the identity of the generated application.
type App struct {
	Name    string `yaml:"name" json:"name"`
	Package string `yaml:"package" json:"package"`
}

// Persistence configures the storage layer of the generated app.
type Persistence struct {
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`
}

// Auth configures authentication scaffolding.
type Auth struct {
	Enabled  bool   `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Provider string `yaml:"provider,omitempty" json:"provider,omitempty"`
}

// Dashboard configures the dashboard scaffolding.
type Dashboard struct {
	Enabled bool `yaml:"enabled,omitempty" json:"enabled,omitempty"`
}

// Provider returns the persistence provider, sqlite when none is set.
func (c *Config) Provider() string {
	if c.Persistence.Provider == "" {
		return ProviderSQLite
	}
	return c.Persistence.Provider
}

// AppName returns the application name, or "MyApp" when none is set.
func (c *Config) AppName() string {
	if c.App == nil || c.App.Name == "" {
		return "MyApp"
	}
	return c.App.Name
}

// Module returns the first module with the given name.
func (c *Config) Module(name string) (*Module, bool) {
	for _, m := range c.Modules {
		if m != nil && m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Load reads and parses the configuration file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses a YAML (or JSON) configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty configuration")
		}
		return nil, err
	}
	// Null entries in the modules and fields lists carry nothing to generate.
	modules := cfg.Modules[:0]
	for _, m := range cfg.Modules {
		if m == nil {
			continue
		}
		fields := m.Fields[:0]
		for _, f := range m.Fields {
			if f != nil {
				fields = append(fields, f)
			}
		}
		m.Fields = fields
		modules = append(modules, m)
	}
	cfg.Modules = modules
	return &cfg, nil
}
