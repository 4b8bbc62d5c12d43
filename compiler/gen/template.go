package gen

import (
	"embed"
	"path"
	"text/template"
)

// TypeTemplate specifies a template that is executed for each module.
type TypeTemplate struct {
	Name   string             // template name.
	Format func(*Type) string // file name format, relative to the target.
	Cond   func(*Type) bool   // optional condition, the template is skipped when false.
}

// GraphTemplate specifies a template that is executed once on the graph.
type GraphTemplate struct {
	Name   string            // template name.
	Format string            // file name, relative to the target.
	Skip   func(*Graph) bool // optional skip condition.
}

var (
	// Templates holds the templates executed on each module.
	Templates = []TypeTemplate{
		{
			Name: "entity",
			Format: func(t *Type) string {
				return path.Join(t.Dir(), "domain", "entities", t.Snake()+"_entity.dart")
			},
		},
		{
			Name: "model",
			Format: func(t *Type) string {
				return path.Join(t.Dir(), "data", "models", t.Snake()+"_model.dart")
			},
		},
		{
			Name: "repository",
			Format: func(t *Type) string {
				return path.Join(t.Dir(), "domain", "repositories", "i_"+t.Snake()+"_repository.dart")
			},
		},
		{
			Name: "relations",
			Format: func(t *Type) string {
				return path.Join(t.Dir(), "data", "repositories", t.Snake()+"_relations.dart")
			},
			Cond: func(t *Type) bool {
				enabled, _ := t.FeatureEnabled(FeatureRelationQueries.Name)
				return enabled && t.HasQueries()
			},
		},
	}

	// GraphTemplates holds the templates executed once on the graph.
	GraphTemplates = []GraphTemplate{
		{
			Name:   "migration",
			Format: MigrationFile,
			Skip:   func(g *Graph) bool { return !g.SupportsMigration() },
		},
		{
			Name:   "modules",
			Format: "lib/app/modules.dart",
			Skip: func(g *Graph) bool {
				enabled, _ := g.FeatureEnabled(FeatureRegistry.Name)
				return !enabled
			},
		},
	}

	//go:embed template/*.tmpl
	templateDir embed.FS

	templates = MustParse(ParseTemplates())
)

// MigrationFile is the location of the SQL migration, relative to the target.
const MigrationFile = "assets/db/sqlite_migrations.sql"

// ParseTemplates parses the embedded templates with the codegen functions.
func ParseTemplates() (*template.Template, error) {
	return template.New("fac").Funcs(Funcs).ParseFS(templateDir, "template/*.tmpl")
}

// MustParse is a helper that wraps a call to a function returning
// (*template.Template, error) and panics if the error is non-nil.
func MustParse(t *template.Template, err error) *template.Template {
	if err != nil {
		panic(err)
	}
	return t
}
