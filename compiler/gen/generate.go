package gen

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/avnt-sistemas/fac"
)

// Generate emits the app files of the graph into the configured target.
//
// The graph is fully analyzed by NewGraph before this point, so modules are
// emitted in parallel. When the snapshot feature is enabled and the analyzed
// configuration did not change since the last run, nothing is written unless
// the config forces it.
func Generate(ctx context.Context, g *Graph) error {
	if g == nil || g.Config == nil || g.Target == "" {
		return fac.NewConfigError("Target", nil, "missing target directory in config")
	}
	log := g.logger().With("run", uuid.New().String())
	start := time.Now()

	var snapshot []byte
	if enabled, _ := g.FeatureEnabled(FeatureSnapshot.Name); enabled {
		b, err := MarshalSnapshot(g.Snapshot())
		if err != nil {
			return fac.NewGenerationError("snapshot", SnapshotPath(g.Target), "encode", err)
		}
		if !g.Force && !snapshotChanged(g.Target, b) {
			log.Info("configuration unchanged, skipping generation", "target", g.Target)
			return nil
		}
		snapshot = b
	}
	if err := cleanup(g.Config); err != nil {
		return fac.NewGenerationError("cleanup", "", "", err)
	}

	w := NewTemplateWriter(g, g.Target).WithWorkers(g.Workers)
	if err := w.GenerateAll(ctx); err != nil {
		return err
	}
	if enabled, _ := g.FeatureEnabled(FeaturePubspec.Name); enabled {
		path := filepath.Join(g.Target, "pubspec.yaml")
		added, err := UpdatePubspec(path, g.AppName(), g.Requirements())
		if err != nil {
			return fac.NewGenerationError("pubspec", path, "", err)
		}
		if len(added) > 0 {
			log.Info("pubspec updated", "added", added)
		}
	}
	if snapshot != nil {
		if err := writeSnapshot(g.Target, snapshot); err != nil {
			return fac.NewGenerationError("snapshot", SnapshotPath(g.Target), "write", err)
		}
	}

	m := w.Metrics()
	log.Info("generation completed",
		"modules", len(g.Nodes),
		"order", g.Order.String(),
		"files", m.FilesGenerated,
		"unchanged", m.FilesUnchanged,
		"bytes", m.TotalBytes,
		"duration", time.Since(start),
	)
	return nil
}
