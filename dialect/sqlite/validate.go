package sqlite

import (
	"errors"
	"fmt"
	"strings"

	"ariga.io/atlas/sql/schema"

	"github.com/avnt-sistemas/fac/compiler/gen"
)

// ValidationError is a difference between the synthesized schema and the
// schema found in the database.
type ValidationError struct {
	Table   string
	Column  string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s.%s: %s", e.Table, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Table, e.Message)
}

// ValidationResult holds the results of a schema check.
type ValidationResult struct {
	Errors   []*ValidationError
	Warnings []*ValidationError
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err returns the validation errors joined, or nil.
func (r *ValidationResult) Err() error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errors.Join(errs...)
}

// String returns a human-readable summary of the validation result.
func (r *ValidationResult) String() string {
	var sb strings.Builder
	if len(r.Errors) > 0 {
		sb.WriteString("Errors:\n")
		for _, e := range r.Errors {
			sb.WriteString("  - ")
			sb.WriteString(e.Error())
			sb.WriteString("\n")
		}
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, w := range r.Warnings {
			sb.WriteString("  - ")
			sb.WriteString(w.Error())
			sb.WriteString("\n")
		}
	}
	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}
	return sb.String()
}

func (r *ValidationResult) errorf(table, column, format string, args ...any) {
	r.Errors = append(r.Errors, &ValidationError{Table: table, Column: column, Message: fmt.Sprintf(format, args...)})
}

// Check compares the synthesized schema with an inspected one. Missing
// tables, columns, keys and indexes are errors. Tables present only in the
// database are warnings.
func Check(want *gen.Schema, got *schema.Schema) *ValidationResult {
	r := &ValidationResult{}
	expected := make(map[string]bool)
	for _, t := range want.Tables {
		expected[t.Name] = true
		if tbl := checkTable(r, got, t.Name, t.Columns); tbl != nil {
			checkPrimaryKey(r, tbl, []string{"id"})
		}
	}
	for _, j := range want.Junctions {
		expected[j.Name] = true
		tbl := checkTable(r, got, j.Name, j.Columns)
		if tbl == nil {
			continue
		}
		checkPrimaryKey(r, tbl, j.PrimaryKey)
		for _, fk := range j.ForeignKeys {
			checkForeignKey(r, tbl, fk)
		}
	}
	for _, i := range want.Indexes {
		tbl, ok := got.Table(i.Table)
		if !ok {
			continue
		}
		idx, ok := tbl.Index(i.Name)
		switch {
		case !ok:
			r.errorf(i.Table, i.Column, "missing index %q", i.Name)
		case !idx.Unique:
			r.errorf(i.Table, i.Column, "index %q is not unique", i.Name)
		case len(idx.Parts) != 1 || idx.Parts[0].C == nil || idx.Parts[0].C.Name != i.Column:
			r.errorf(i.Table, i.Column, "index %q does not cover the column", i.Name)
		}
	}
	for _, t := range got.Tables {
		if !expected[t.Name] {
			r.Warnings = append(r.Warnings, &ValidationError{Table: t.Name, Message: "table is not part of the schema"})
		}
	}
	return r
}

func checkTable(r *ValidationResult, got *schema.Schema, name string, columns []*gen.Column) *schema.Table {
	tbl, ok := got.Table(name)
	if !ok {
		r.errorf(name, "", "missing table")
		return nil
	}
	for _, c := range columns {
		col, ok := tbl.Column(c.Name)
		if !ok {
			r.errorf(name, c.Name, "missing column")
			continue
		}
		if col.Type != nil && !strings.EqualFold(col.Type.Raw, c.Type) {
			r.errorf(name, c.Name, "column type is %s, expected %s", col.Type.Raw, c.Type)
		}
		if !c.PrimaryKey && col.Type != nil && col.Type.Null == c.NotNull {
			r.errorf(name, c.Name, "column nullability differs, expected NOT NULL %t", c.NotNull)
		}
	}
	return tbl
}

func checkPrimaryKey(r *ValidationResult, tbl *schema.Table, columns []string) {
	if tbl.PrimaryKey == nil {
		r.errorf(tbl.Name, "", "missing primary key")
		return
	}
	parts := make([]string, 0, len(tbl.PrimaryKey.Parts))
	for _, p := range tbl.PrimaryKey.Parts {
		if p.C != nil {
			parts = append(parts, p.C.Name)
		}
	}
	if strings.Join(parts, ",") != strings.Join(columns, ",") {
		r.errorf(tbl.Name, "", "primary key is (%s), expected (%s)", strings.Join(parts, ", "), strings.Join(columns, ", "))
	}
}

func checkForeignKey(r *ValidationResult, tbl *schema.Table, want *gen.ForeignKey) {
	for _, fk := range tbl.ForeignKeys {
		if len(fk.Columns) != 1 || fk.Columns[0].Name != want.Column {
			continue
		}
		if fk.RefTable == nil || fk.RefTable.Name != want.RefTable {
			r.errorf(tbl.Name, want.Column, "foreign key does not reference %s", want.RefTable)
		}
		if want.Cascade && fk.OnDelete != schema.Cascade {
			r.errorf(tbl.Name, want.Column, "foreign key does not cascade on delete")
		}
		return
	}
	r.errorf(tbl.Name, want.Column, "missing foreign key to %s", want.RefTable)
}
