package gen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avnt-sistemas/fac/compiler/load"
)

// Column is a column of a synthesized table.
type Column struct {
	Name       string
	Type       string
	PrimaryKey bool
	NotNull    bool
	Default    string
}

// SQL returns the column definition.
func (c *Column) SQL() string {
	var b strings.Builder
	b.WriteString(ident(c.Name))
	b.WriteByte(' ')
	b.WriteString(c.Type)
	switch {
	case c.PrimaryKey:
		b.WriteString(" PRIMARY KEY")
	case c.NotNull:
		b.WriteString(" NOT NULL")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	return b.String()
}

// Table is the table of a module.
type Table struct {
	Name    string
	Module  string
	Columns []*Column
}

// Column returns the column with the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// SQL returns the CREATE TABLE statement of the table.
func (t *Table) SQL() string {
	defs := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		defs[i] = c.SQL()
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", ident(t.Name), strings.Join(defs, ",\n  "))
}

// ForeignKey is a foreign key of a junction table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	// Cascade deletes the junction rows with the referenced record.
	Cascade bool
}

// SQL returns the foreign key constraint.
func (fk *ForeignKey) SQL() string {
	c := fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)", ident(fk.Column), ident(fk.RefTable), ident(fk.RefColumn))
	if fk.Cascade {
		c += " ON DELETE CASCADE"
	}
	return c
}

// JunctionTable is the table backing a many-to-many field.
type JunctionTable struct {
	Name string
	// Module and Field identify the many-to-many field, Target the module
	// it points at.
	Module, Field, Target string
	Columns               []*Column
	PrimaryKey            []string
	ForeignKeys           []*ForeignKey
}

// SQL returns the CREATE TABLE statement of the junction table.
func (j *JunctionTable) SQL() string {
	defs := make([]string, 0, len(j.Columns)+1+len(j.ForeignKeys))
	for _, c := range j.Columns {
		defs = append(defs, c.SQL())
	}
	pk := make([]string, len(j.PrimaryKey))
	for i, c := range j.PrimaryKey {
		pk[i] = ident(c)
	}
	defs = append(defs, "PRIMARY KEY ("+strings.Join(pk, ", ")+")")
	for _, fk := range j.ForeignKeys {
		defs = append(defs, fk.SQL())
	}
	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", ident(j.Name), strings.Join(defs, ",\n  "))
}

// Index is a unique index on a module field.
type Index struct {
	Name   string
	Table  string
	Column string
}

// SQL returns the CREATE UNIQUE INDEX statement.
func (i *Index) SQL() string {
	return fmt.Sprintf("CREATE UNIQUE INDEX %s ON %s(%s);", ident(i.Name), ident(i.Table), ident(i.Column))
}

// Schema is the relational schema synthesized from the modules.
type Schema struct {
	Tables    []*Table
	Junctions []*JunctionTable
	Indexes   []*Index
}

// Table returns the table of the given module.
func (s *Schema) Table(module string) (*Table, bool) {
	for _, t := range s.Tables {
		if t.Module == module {
			return t, true
		}
	}
	return nil, false
}

// Statements returns all statements in execution order: tables, junction
// tables and indexes.
func (s *Schema) Statements() []string {
	stmts := make([]string, 0, len(s.Tables)+len(s.Junctions)+len(s.Indexes))
	for _, t := range s.Tables {
		stmts = append(stmts, t.SQL())
	}
	for _, j := range s.Junctions {
		stmts = append(stmts, j.SQL())
	}
	for _, i := range s.Indexes {
		stmts = append(stmts, i.SQL())
	}
	return stmts
}

// Section headers of the migration script.
const (
	tablesHeader    = "-- Table creation"
	junctionsHeader = "-- Junction tables for many-to-many relationships"
	indexesHeader   = "-- Index creation"
)

// SQL returns the migration script. Junction and index sections are only
// present when they have statements.
func (s *Schema) SQL() string {
	var b strings.Builder
	b.WriteString(tablesHeader + "\n")
	for _, t := range s.Tables {
		b.WriteString(t.SQL() + "\n\n")
	}
	if len(s.Junctions) > 0 {
		b.WriteString(junctionsHeader + "\n")
		for _, j := range s.Junctions {
			b.WriteString(j.SQL() + "\n\n")
		}
	}
	if len(s.Indexes) > 0 {
		b.WriteString(indexesHeader + "\n")
		for _, i := range s.Indexes {
			b.WriteString(i.SQL() + "\n\n")
		}
	}
	return b.String()
}

// Generated columns of every table.
const (
	columnID        = "id"
	columnCreatedAt = "createdAt"
	columnUpdatedAt = "updatedAt"
	columnDeleted   = "deleted"
)

// SynthesizeSchema derives the SQLite schema of the modules: one table per
// declared module, one junction table per many-to-many field and one unique
// index per unique field. It never fails. Unknown field types are stored as
// TEXT, fields without a name or clashing with another column are skipped.
func SynthesizeSchema(modules []*load.Module) *Schema {
	s := &Schema{}
	decl := declared(modules)
	stored := make(map[*load.Field]bool)
	indexed := make(map[string]bool)
	for _, m := range decl {
		t := table(m, stored)
		s.Tables = append(s.Tables, t)
		for _, f := range m.Fields {
			if !f.Unique || !stored[f] {
				continue
			}
			name := "idx_" + t.Name + "_" + f.Name
			if indexed[name] {
				continue
			}
			indexed[name] = true
			s.Indexes = append(s.Indexes, &Index{
				Name:   name,
				Table:  t.Name,
				Column: f.Name,
			})
		}
	}
	names := make(map[string]bool)
	for _, t := range s.Tables {
		names[t.Name] = true
	}
	for _, m := range decl {
		for _, f := range m.Fields {
			if !stored[f] || f.Classify().Assoc != load.AssocManyToMany {
				continue
			}
			j := junction(m, f)
			if names[j.Name] {
				base := j.Name + "_" + snake(f.Name)
				j.Name = base
				for i := 2; names[j.Name]; i++ {
					j.Name = base + strconv.Itoa(i)
				}
			}
			names[j.Name] = true
			s.Junctions = append(s.Junctions, j)
		}
	}
	return s
}

// For returns the schema restricted to what a storage with the given mode
// supports. Unique indexes need both Unique and Indexes, and foreign keys
// only cascade with Cascade. s is not modified.
func (s *Schema) For(mode SchemaMode) *Schema {
	r := &Schema{Tables: s.Tables}
	if mode.Support(Unique) && mode.Support(Indexes) {
		r.Indexes = s.Indexes
	}
	for _, j := range s.Junctions {
		c := *j
		c.ForeignKeys = make([]*ForeignKey, len(j.ForeignKeys))
		for i, fk := range j.ForeignKeys {
			k := *fk
			k.Cascade = fk.Cascade && mode.Support(Cascade)
			c.ForeignKeys[i] = &k
		}
		r.Junctions = append(r.Junctions, &c)
	}
	return r
}

// table returns the table of m and records its stored fields.
func table(m *load.Module, stored map[*load.Field]bool) *Table {
	t := &Table{
		Name:    strings.ToLower(m.Name),
		Module:  m.Name,
		Columns: []*Column{{Name: columnID, Type: "TEXT", PrimaryKey: true}},
	}
	// SQLite column names are case-insensitive.
	taken := map[string]bool{columnID: true, "createdat": true, "updatedat": true}
	if m.SoftDelete {
		taken[columnDeleted] = true
	}
	for _, f := range m.Fields {
		if f.Name == "" || taken[strings.ToLower(f.Name)] {
			continue
		}
		taken[strings.ToLower(f.Name)] = true
		stored[f] = true
		t.Columns = append(t.Columns, &Column{
			Name:    f.Name,
			Type:    f.Classify().Type.SQLType(),
			NotNull: f.Required,
		})
	}
	t.Columns = append(t.Columns,
		&Column{Name: columnCreatedAt, Type: "TEXT", NotNull: true},
		&Column{Name: columnUpdatedAt, Type: "TEXT", NotNull: true},
	)
	if m.SoftDelete {
		t.Columns = append(t.Columns, &Column{Name: columnDeleted, Type: "INTEGER", Default: "0"})
	}
	return t
}

// junction returns the junction table of the many-to-many field f of m.
func junction(m *load.Module, f *load.Field) *JunctionTable {
	owner, target := strings.ToLower(m.Name), strings.ToLower(f.Reference)
	ownerCol, targetCol := owner+"_id", target+"_id"
	if ownerCol == targetCol {
		targetCol = "related_" + targetCol
	}
	return &JunctionTable{
		Name:   owner + "_" + target,
		Module: m.Name,
		Field:  f.Name,
		Target: f.Reference,
		Columns: []*Column{
			{Name: ownerCol, Type: "TEXT", NotNull: true},
			{Name: targetCol, Type: "TEXT", NotNull: true},
			{Name: columnCreatedAt, Type: "TEXT", NotNull: true},
		},
		PrimaryKey: []string{ownerCol, targetCol},
		ForeignKeys: []*ForeignKey{
			{Column: ownerCol, RefTable: owner, RefColumn: columnID, Cascade: true},
			{Column: targetCol, RefTable: target, RefColumn: columnID, Cascade: true},
		},
	}
}

// reserved holds the SQLite keywords that generated names may collide with.
var reserved = map[string]struct{}{
	"abort": {}, "action": {}, "add": {}, "after": {}, "all": {}, "alter": {},
	"analyze": {}, "and": {}, "as": {}, "asc": {}, "attach": {}, "before": {},
	"begin": {}, "between": {}, "by": {}, "cascade": {}, "case": {}, "cast": {},
	"check": {}, "collate": {}, "column": {}, "commit": {}, "conflict": {},
	"constraint": {}, "create": {}, "cross": {}, "current": {}, "default": {},
	"delete": {}, "desc": {}, "distinct": {}, "drop": {}, "each": {}, "else": {},
	"end": {}, "escape": {}, "except": {}, "exists": {}, "explain": {}, "filter": {},
	"for": {}, "foreign": {}, "from": {}, "full": {}, "group": {}, "having": {},
	"if": {}, "in": {}, "index": {}, "inner": {}, "insert": {}, "intersect": {},
	"into": {}, "is": {}, "join": {}, "key": {}, "left": {}, "like": {}, "limit": {},
	"match": {}, "natural": {}, "not": {}, "null": {}, "of": {}, "offset": {},
	"on": {}, "or": {}, "order": {}, "outer": {}, "plan": {}, "pragma": {},
	"primary": {}, "query": {}, "references": {}, "regexp": {}, "reindex": {},
	"release": {}, "rename": {}, "replace": {}, "restrict": {}, "right": {},
	"rollback": {}, "row": {}, "select": {}, "set": {}, "table": {}, "temp": {},
	"then": {}, "to": {}, "transaction": {}, "trigger": {}, "union": {},
	"unique": {}, "update": {}, "using": {}, "vacuum": {}, "values": {},
	"view": {}, "when": {}, "where": {}, "window": {}, "with": {},
}

// ident returns s as an SQL identifier, double-quoted when it is a keyword
// or not a plain identifier.
func ident(s string) string {
	if _, ok := reserved[strings.ToLower(s)]; ok || !plainIdent(s) {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}

func plainIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case '0' <= r && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}
