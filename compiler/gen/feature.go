package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

var (
	// FeatureSnapshot stores a snapshot of the analyzed configuration in the
	// target directory and skips emission when it did not change.
	FeatureSnapshot = Feature{
		Name:        "snapshot",
		Stage:       Experimental,
		Default:     false,
		Description: "Stores a snapshot of the analyzed configuration and skips generation when it is unchanged",
		cleanup: func(c *Config) error {
			return remove(filepath.Join(c.Target, snapshotDir), snapshotFile)
		},
	}

	// FeatureRelationQueries generates the relationship query helpers of
	// modules that reference or are referenced by other modules.
	FeatureRelationQueries = Feature{
		Name:        "relations",
		Stage:       Stable,
		Default:     true,
		Description: "Generates relationship query helpers for modules with relationships",
	}

	// FeatureRegistry generates lib/app/modules.dart, listing the modules in
	// dependency order.
	FeatureRegistry = Feature{
		Name:        "registry",
		Stage:       Beta,
		Default:     true,
		Description: "Generates a registry of the app modules in dependency order",
	}

	// FeaturePubspec adds the packages required by the app to pubspec.yaml.
	FeaturePubspec = Feature{
		Name:        "pubspec",
		Stage:       Beta,
		Default:     true,
		Description: "Adds the packages required by the enabled features to pubspec.yaml",
	}

	// AllFeatures holds a list of all feature-flags.
	AllFeatures = []Feature{
		FeatureSnapshot,
		FeatureRelationQueries,
		FeatureRegistry,
		FeaturePubspec,
	}
)

// FeatureStage describes the stage of the codegen feature.
type FeatureStage int

const (
	_ FeatureStage = iota

	// Experimental features are in development.
	Experimental

	// Alpha features are complete but their output may still change.
	Alpha

	// Beta features are not expected to change their output.
	Beta

	// Stable features are Beta features that were used for a while.
	Stable
)

// String implements fmt.Stringer.
func (s FeatureStage) String() string {
	switch s {
	case Experimental:
		return "experimental"
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("FeatureStage(%d)", int(s))
	}
}

// A Feature of the fac codegen.
type Feature struct {
	// Name of the feature.
	Name string

	// Stage of the feature.
	Stage FeatureStage

	// Default values indicates if this feature is enabled by default.
	Default bool

	// A Description of this feature.
	Description string

	// cleanup used to cleanup all changes when a feature-flag is removed.
	// e.g. delete files from previous codegen runs.
	cleanup func(*Config) error
}

// FeatureByName returns the feature with the given name.
func FeatureByName(name string) (Feature, error) {
	for _, f := range AllFeatures {
		if f.Name == name {
			return f, nil
		}
	}
	return Feature{}, fmt.Errorf("fac/gen: unknown feature %q", name)
}

// cleanup runs the cleanup of every feature that is not enabled.
func cleanup(c *Config) error {
	for _, f := range AllFeatures {
		if f.cleanup == nil {
			continue
		}
		if enabled, _ := c.FeatureEnabled(f.Name); enabled {
			continue
		}
		if err := f.cleanup(c); err != nil {
			return fmt.Errorf("cleanup %s: %w", f.Name, err)
		}
	}
	return nil
}

// remove file (if exists) and its dir if it's empty.
func remove(dir, file string) error {
	if err := os.Remove(filepath.Join(dir, file)); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	infos, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		return os.Remove(dir)
	}
	return nil
}
