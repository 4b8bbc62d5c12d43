package gen

import (
	"fmt"

	"github.com/avnt-sistemas/fac/compiler/load"
)

// A SchemaMode defines what type of schema feature a storage driver support.
type SchemaMode uint

const (
	// Unique defines field uniqueness support.
	Unique SchemaMode = 1 << iota

	// Indexes defines indexes support.
	Indexes

	// Cascade defines cascading operations (e.g. cascade deletion).
	Cascade

	// Migrate defines static schema and migration support (e.g. SQL-based).
	Migrate
)

// Support reports whether m support the given mode.
func (m SchemaMode) Support(mode SchemaMode) bool { return m&mode != 0 }

// Storage driver of the generated app.
type Storage struct {
	Name       string     // storage name, as in persistence.provider.
	Imports    []string   // Dart imports of generated relation queries.
	Packages   []string   // pub packages the driver needs.
	SchemaMode SchemaMode // schema mode support.
}

var drivers = []*Storage{
	{
		Name: load.ProviderSQLite,
		Imports: []string{
			"package:sqflite/sqflite.dart",
		},
		Packages:   []string{"sqflite", "path", "uuid", "path_provider"},
		SchemaMode: Unique | Indexes | Cascade | Migrate,
	},
	{
		Name: load.ProviderFirebase,
		Imports: []string{
			"package:cloud_firestore/cloud_firestore.dart",
		},
		Packages: []string{"firebase_core", "cloud_firestore", "firebase_storage"},
	},
}

// NewStorage returns the storage driver type from the given string.
// It fails if the provided string is not a valid option.
func NewStorage(s string) (*Storage, error) {
	for _, d := range drivers {
		if s == d.Name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("fac/gen: invalid storage driver %q", s)
}

// String implements the fmt.Stringer interface for template usage.
func (s *Storage) String() string { return s.Name }
