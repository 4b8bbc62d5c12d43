package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/avnt-sistemas/fac/compiler/gen"
	"github.com/avnt-sistemas/fac/compiler/load"
	"github.com/avnt-sistemas/fac/dialect/sqlite"
)

// loadConfig loads and validates the app configuration. Warnings are logged,
// errors fail the load.
func loadConfig(o *options, log *slog.Logger) (*load.Config, error) {
	cfg, err := load.Load(o.config)
	if err != nil {
		return nil, err
	}
	r := cfg.Validate(o.strict)
	for _, w := range r.Warnings {
		log.Warn("configuration warning", "config", o.config, "warning", w)
	}
	if r.HasErrors() {
		return nil, fmt.Errorf("invalid configuration %s:\n%w", o.config, r.Err())
	}
	log.Debug("configuration loaded", "config", o.config, "modules", len(cfg.Modules), "provider", cfg.Provider())
	return cfg, nil
}

// graph loads the configuration and analyzes it.
func graph(o *options, log *slog.Logger, opts ...gen.Option) (*gen.Graph, error) {
	cfg, err := loadConfig(o, log)
	if err != nil {
		return nil, err
	}
	opts = append([]gen.Option{
		gen.WithWorkers(o.workers),
		gen.WithFeatureNames(o.features...),
		gen.WithForce(o.force),
		gen.WithLogger(log),
	}, opts...)
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(c, cfg)
}

// generate emits the app into the output directory.
func generate(ctx context.Context, o *options, log *slog.Logger, stdout io.Writer) error {
	g, err := graph(o, log, gen.WithTarget(o.outDir))
	if err != nil {
		return err
	}
	if o.verify {
		if !g.SupportsMigration() {
			log.Warn("storage has no SQL migration, skipping verification", "storage", g.Storage)
		} else if err := verify(ctx, g.Schema, log); err != nil {
			return err
		}
	}
	if err := gen.Generate(ctx, g); err != nil {
		return err
	}
	return g.Summary(stdout)
}

// printSchema writes the SQLite migration to stdout or to the -out file.
func printSchema(ctx context.Context, o *options, log *slog.Logger, stdout io.Writer) error {
	cfg, err := loadConfig(o, log)
	if err != nil {
		return err
	}
	s := gen.SynthesizeSchema(cfg.Modules)
	if o.verify {
		if err := verify(ctx, s, log); err != nil {
			return err
		}
	}
	if o.out == "" {
		_, err := io.WriteString(stdout, s.SQL())
		return err
	}
	if err := os.WriteFile(o.out, []byte(s.SQL()), 0o644); err != nil {
		return err
	}
	log.Info("schema written", "file", o.out, "tables", len(s.Tables), "junctions", len(s.Junctions), "indexes", len(s.Indexes))
	return nil
}

// printRelations writes the relationship summary.
func printRelations(_ context.Context, o *options, log *slog.Logger, stdout io.Writer) error {
	g, err := graph(o, log)
	if err != nil {
		return err
	}
	return g.Summary(stdout)
}

// verify runs the migration against an in-memory database and compares the
// result with the synthesized schema.
func verify(ctx context.Context, s *gen.Schema, log *slog.Logger) error {
	inspected, err := sqlite.Verify(ctx, s.SQL())
	if err != nil {
		return fmt.Errorf("verify migration: %w", err)
	}
	r := sqlite.Check(s, inspected)
	for _, w := range r.Warnings {
		log.Warn("migration check", "warning", w)
	}
	if r.HasErrors() {
		return fmt.Errorf("verify migration:\n%s", r)
	}
	log.Info("migration verified", "tables", len(inspected.Tables))
	return nil
}
