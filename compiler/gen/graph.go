package gen

import (
	"fmt"
	"io"
	"strings"

	"github.com/avnt-sistemas/fac"
	"github.com/avnt-sistemas/fac/compiler/load"
	"github.com/avnt-sistemas/fac/schema/field"
)

// Graph holds the analyzed app: its modules in generation order, their
// relationships and the synthesized schema. It is built once per run and
// only read afterwards, so emitters can share it across goroutines.
type Graph struct {
	*Config
	// App is the loaded app configuration.
	App *load.Config
	// Nodes are the declared modules in generation order.
	Nodes []*Type
	// Relations maps each declared module to its relationships.
	Relations RelationMap
	// Order is the generation order.
	Order *Order
	// Schema is the synthesized SQLite schema, restricted to the schema
	// mode of the storage driver.
	Schema *Schema
	// Storage is the storage driver of the app.
	Storage *Storage
}

// Type is a module prepared for emission.
type Type struct {
	*Config
	// Storage is the storage driver of the app.
	Storage *Storage
	// Name is the module name.
	Name string
	// Module is the module as declared.
	Module *load.Module
	// Fields of the module, in declaration order.
	Fields []*Field
	// Relations of the module.
	Relations *Relations
	// Table is the table of the module.
	Table *Table
	// Junctions are the junction tables of the many-to-many fields of the module.
	Junctions []*JunctionTable
	// Imports are the Dart imports of the related entities.
	Imports []string
	// linked holds the direct edges whose target is declared.
	linked []*DirectEdge
}

// Field is a module field prepared for emission.
type Field struct {
	*load.Field
	Class load.Class
}

// NewGraph analyzes the modules of the app and returns its graph. The whole
// configuration is analyzed before returning: relationships, order and
// schema are complete when emission starts.
func NewGraph(c *Config, app *load.Config) (*Graph, error) {
	if c == nil {
		return nil, fac.NewConfigError("Config", nil, "missing generator config")
	}
	if app == nil {
		return nil, fac.NewConfigError("App", nil, "missing app configuration")
	}
	storage := c.Storage
	if storage == nil {
		s, err := NewStorage(app.Provider())
		if err != nil {
			return nil, fac.NewConfigError("persistence.provider", app.Provider(), err.Error())
		}
		storage = s
	}
	log := c.logger()
	for i, m := range app.Modules {
		if m == nil || m.Name == "" {
			log.Warn("module config missing name, skipping", "index", i)
		}
	}
	g := &Graph{
		Config:    c,
		App:       app,
		Relations: AnalyzeRelationships(app.Modules),
		Order:     DependencyOrder(app.Modules),
		Schema:    SynthesizeSchema(app.Modules).For(storage.SchemaMode),
		Storage:   storage,
	}
	if g.Order.Cyclic() {
		log.Warn("circular dependency detected, using declaration order", "module", g.Order.Cycle)
	}
	modules := make(map[string]*load.Module)
	for _, m := range declared(app.Modules) {
		modules[m.Name] = m
	}
	for _, name := range g.Order.Modules {
		m := modules[name]
		t := &Type{
			Config:    c,
			Storage:   storage,
			Name:      name,
			Module:    m,
			Relations: g.Relations.Of(name),
			Imports:   g.RelationshipImports(name),
		}
		t.Table, _ = g.Schema.Table(name)
		for _, e := range t.Relations.Direct {
			if _, ok := modules[e.Target]; ok {
				t.linked = append(t.linked, e)
			}
		}
		for _, j := range g.Schema.Junctions {
			if j.Module == name {
				t.Junctions = append(t.Junctions, j)
			}
		}
		for _, f := range m.Fields {
			if f.Name != "" {
				t.Fields = append(t.Fields, &Field{Field: f, Class: f.Classify()})
			}
		}
		g.Nodes = append(g.Nodes, t)
	}
	return g, nil
}

// RelationshipImports returns the Dart imports of the entities related to
// the given module: targets of its direct edges first, then sources of its
// reverse edges, each module once. Undeclared targets and the module itself
// are not imported.
func (g *Graph) RelationshipImports(module string) []string {
	var (
		imports []string
		seen    = make(map[string]bool)
	)
	add := func(name string) {
		if _, ok := g.Relations[name]; !ok || seen[name] || name == module {
			return
		}
		seen[name] = true
		s := snake(name)
		imports = append(imports, fmt.Sprintf("import '../../../%s/domain/entities/%s_entity.dart';", s, s))
	}
	r := g.Relations.Of(module)
	for _, e := range r.Direct {
		add(e.Target)
	}
	for _, e := range r.Reverse {
		add(e.Source)
	}
	return imports
}

// Summary writes a human readable summary of the relationships and the
// generation order.
func (g *Graph) Summary(w io.Writer) error {
	var b strings.Builder
	b.WriteString("\n=== RELATIONSHIP SUMMARY ===\n")
	for _, m := range declared(g.App.Modules) {
		r := g.Relations.Of(m.Name)
		if r.Empty() {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", m.Name)
		for _, e := range r.Direct {
			fmt.Fprintf(&b, "  → %s (via %s)\n", e.Target, e.Field)
		}
		for _, e := range r.Reverse {
			fmt.Fprintf(&b, "  ← %s (has many as %s)\n", e.Source, e.Label)
		}
	}
	fmt.Fprintf(&b, "\nDependency Order: %s\n", g.Order)
	b.WriteString(strings.Repeat("=", 30) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// Type returns the node of the given module.
func (g *Graph) Type(name string) (*Type, bool) {
	for _, t := range g.Nodes {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// SupportsMigration reports if the storage driver uses the SQL migration.
func (g *Graph) SupportsMigration() bool {
	return g.Storage.SchemaMode.Support(Migrate)
}

// AppName returns the application name.
func (g *Graph) AppName() string { return g.App.AppName() }

// Snake returns the snake_case name of the module, used for files and paths.
func (t *Type) Snake() string { return snake(t.Name) }

// Pascal returns the PascalCase name of the module, used for Dart classes.
func (t *Type) Pascal() string { return pascal(t.Name) }

// Camel returns the camelCase name of the module.
func (t *Type) Camel() string { return camel(t.Name) }

// Plural returns the plural label of the module.
func (t *Type) Plural() string { return plural(t.Pascal()) }

// Dir returns the feature directory of the module, relative to the target.
func (t *Type) Dir() string { return "lib/features/" + t.Snake() }

// SoftDelete reports if the module keeps deleted records.
func (t *Type) SoftDelete() bool { return t.Module.SoftDelete }

// HasRelations reports if the module has direct or reverse relationships.
func (t *Type) HasRelations() bool { return !t.Relations.Empty() }

// Linked returns the direct edges whose target module is declared.
func (t *Type) Linked() []*DirectEdge { return t.linked }

// HasQueries reports if the module gets relationship query helpers.
func (t *Type) HasQueries() bool {
	return len(t.linked) > 0 || len(t.Relations.Reverse) > 0 || len(t.Junctions) > 0
}

// Direct returns the direct edge of the given field, if any.
func (t *Type) Direct(field string) *DirectEdge {
	for _, e := range t.Relations.Direct {
		if e.Field == field {
			return e
		}
	}
	return nil
}

// Camel returns the camelCase property name of the field.
func (f *Field) Camel() string { return camel(f.Name) }

// DartType returns the Dart type of the field, nullable unless required.
func (f *Field) DartType() string {
	t := f.Class.Type.DartType()
	if f.Class.Type == field.TypeInvalid {
		return t
	}
	if !f.Required {
		t += "?"
	}
	return t
}

// IsBool reports if the field is stored as a 0/1 integer.
func (f *Field) IsBool() bool { return f.Class.Type == field.TypeBoolean }

// IsReal reports if the field is a floating point number.
func (f *Field) IsReal() bool { return f.Class.Type == field.TypeReal }

// IsTime reports if the field is stored as an ISO-8601 string.
func (f *Field) IsTime() bool { return f.Class.Type == field.TypeDateTime }

// IsList reports if the field is stored in its serialized form.
func (f *Field) IsList() bool { return f.Class.Type == field.TypeList }

// IsManyToMany reports if the field is backed by a junction table.
func (f *Field) IsManyToMany() bool { return f.Class.Assoc == load.AssocManyToMany }
