package load

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/avnt-sistemas/fac/schema/field"
)

// Module represents an entity of the app as it was declared in the
// configuration file.
type Module struct {
	Name       string   `yaml:"name" json:"name"`
	Fields     []*Field `yaml:"fields,omitempty" json:"fields,omitempty"`
	SoftDelete bool     `yaml:"soft_delete,omitempty" json:"soft_delete,omitempty"`
	Export     *Export  `yaml:"export,omitempty" json:"export,omitempty"`
}

// Field represents a module field as it was declared in the configuration file.
type Field struct {
	Name      string `yaml:"name" json:"name"`
	Type      string `yaml:"type" json:"type"`
	Required  bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Unique    bool   `yaml:"unique,omitempty" json:"unique,omitempty"`
	Reference string `yaml:"reference,omitempty" json:"reference,omitempty"`
	ItemType  string `yaml:"itemType,omitempty" json:"itemType,omitempty"`
}

// Export holds the export capabilities of a module. In the configuration
// file it is either a boolean (all formats) or a mapping of formats.
type Export struct {
	CSV  bool `yaml:"csv,omitempty" json:"csv,omitempty"`
	XLSX bool `yaml:"xlsx,omitempty" json:"xlsx,omitempty"`
	PDF  bool `yaml:"pdf,omitempty" json:"pdf,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler for Export.
func (e *Export) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var all bool
		if err := node.Decode(&all); err != nil {
			return err
		}
		*e = Export{CSV: all, XLSX: all, PDF: all}
		return nil
	case yaml.MappingNode:
		type plain Export
		var p plain
		if err := node.Decode(&p); err != nil {
			return err
		}
		*e = Export(p)
		return nil
	default:
		return fmt.Errorf("expected bool or mapping for export, got %v", node.Kind)
	}
}

// Any reports if at least one export format is enabled.
func (e *Export) Any() bool {
	return e != nil && (e.CSV || e.XLSX || e.PDF)
}

// HasExport reports if the module enables any export format.
func (m *Module) HasExport() bool { return m.Export.Any() }

// Assoc describes how a field associates its module with another module.
type Assoc uint8

// Field association kinds.
const (
	// AssocNone is a plain value field.
	AssocNone Assoc = iota
	// AssocReference is a scalar reference to one record of another module.
	AssocReference
	// AssocManyToMany is a list of references to records of another module.
	AssocManyToMany
)

// String implements fmt.Stringer.
func (a Assoc) String() string {
	switch a {
	case AssocReference:
		return "reference"
	case AssocManyToMany:
		return "many-to-many"
	default:
		return "none"
	}
}

// Class is the classification of a field.
type Class struct {
	// Type is the parsed field type.
	Type field.Type
	// Assoc is the association kind of the field.
	Assoc Assoc
	// Target is the referenced module for associations.
	Target string
}

// Classify returns the classification of the field. A field is a reference
// when its type is reference and it names a target module. A field is a
// many-to-many association when its type is a list, its item type is
// reference and it names a target module.
//
// Every component deciding whether a field points at another module goes
// through this method.
func (f *Field) Classify() Class {
	c := Class{Type: field.ParseType(f.Type)}
	switch {
	case f.Reference == "":
	case c.Type == field.TypeReference:
		c.Assoc, c.Target = AssocReference, f.Reference
	case c.Type == field.TypeList && field.ParseType(f.ItemType) == field.TypeReference:
		c.Assoc, c.Target = AssocManyToMany, f.Reference
	}
	return c
}
