package gen

import (
	"errors"
	"log/slog"
	"runtime"

	"github.com/avnt-sistemas/fac"
)

// Config holds the generator configuration.
type Config struct {
	// Target is the root directory of the generated app.
	Target string
	// Workers bounds the number of files emitted concurrently.
	Workers int
	// Header is written at the top of every generated Dart file.
	Header string
	// Features enabled on top of the default ones.
	Features []Feature
	// Storage overrides the storage driver selected by the app configuration.
	Storage *Storage
	// Force emits files even if the snapshot did not change.
	Force bool
	// Logger receives generation diagnostics.
	Logger *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// DefaultHeader is the header of generated Dart files.
const DefaultHeader = "// Code generated by fac. DO NOT EDIT."

// WithTarget sets the output directory.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return fac.NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fac.NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithHeader sets the file header comment.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithFeatureNames enables features by name, as given on the command line.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		for _, name := range names {
			f, err := FeatureByName(name)
			if err != nil {
				return err
			}
			c.Features = append(c.Features, f)
		}
		return nil
	}
}

// WithStorage sets the storage driver, overriding the persistence provider
// of the app configuration.
func WithStorage(storage *Storage) Option {
	return func(c *Config) error {
		if storage == nil {
			return fac.NewConfigError("Storage", nil, "storage cannot be nil")
		}
		c.Storage = storage
		return nil
	}
}

// WithForce makes the generator emit files even when nothing changed.
func WithForce(force bool) Option {
	return func(c *Config) error {
		c.Force = force
		return nil
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return fac.NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Workers: runtime.GOMAXPROCS(0),
		Header:  DefaultHeader,
		Logger:  slog.Default(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// FeatureEnabled reports if the given feature name is enabled, either
// explicitly or by default. It fails for unknown names.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	f, err := FeatureByName(name)
	if err != nil {
		return false, err
	}
	if f.Default {
		return true, nil
	}
	for _, e := range c.Features {
		if e.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
