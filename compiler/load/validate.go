package load

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/avnt-sistemas/fac"
	"github.com/avnt-sistemas/fac/schema/field"
)

// packageRe matches reverse-domain application identifiers (e.g. com.example.app).
var packageRe = regexp.MustCompile(`^[a-z][a-z0-9_]*(\.[a-z0-9_]+)+$`)

// ValidationResult holds the results of a configuration validation.
// Errors prevent generation. Warnings describe parts of the configuration
// that generation tolerates but that the author should review.
type ValidationResult struct {
	Errors   []error
	Warnings []error
}

// HasErrors returns true if there are any validation errors.
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any validation warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// Err returns the validation errors joined, or nil if there are none.
func (r *ValidationResult) Err() error {
	return errors.Join(r.Errors...)
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

// Validate checks the configuration. Missing application identity and an
// unknown persistence provider are errors. Module problems are warnings,
// since generation skips or degrades the affected modules. In strict mode,
// references to undeclared modules are reported as errors.
func (c *Config) Validate(strict bool) *ValidationResult {
	r := &ValidationResult{}
	switch {
	case c.App == nil:
		r.Errors = append(r.Errors, fac.NewConfigError("app", nil, "section not found"))
	default:
		if c.App.Name == "" {
			r.Errors = append(r.Errors, fac.NewConfigError("app.name", nil, "field is required"))
		}
		switch pkg := c.App.Package; {
		case pkg == "":
			r.Errors = append(r.Errors, fac.NewConfigError("app.package", nil, "field is required"))
		case !packageRe.MatchString(pkg):
			r.Errors = append(r.Errors, fac.NewConfigError("app.package", pkg, "invalid package identifier"))
		}
	}
	if p := c.Provider(); p != ProviderSQLite && p != ProviderFirebase {
		r.Errors = append(r.Errors, fac.NewConfigError("persistence.provider", p, "unsupported provider; use sqlite or firebase"))
	}
	declared := make(map[string]bool, len(c.Modules))
	for i, m := range c.Modules {
		switch {
		case m == nil || m.Name == "":
			r.Warnings = append(r.Warnings, fac.NewModuleError("", i, "", "missing name, module is skipped", nil))
			continue
		case declared[m.Name]:
			r.Warnings = append(r.Warnings, fac.NewModuleError(m.Name, i, "", "duplicate module name", nil))
		}
		declared[m.Name] = true
	}
	for i, m := range c.Modules {
		if m == nil || m.Name == "" {
			continue
		}
		columns := generatedColumns(m)
		for _, f := range m.Fields {
			if f == nil {
				continue
			}
			cl := f.Classify()
			switch col := strings.ToLower(f.Name); {
			case f.Name == "":
				r.Warnings = append(r.Warnings, fac.NewModuleError(m.Name, i, "", "field without name", nil))
			case columns[col]:
				r.Warnings = append(r.Warnings, fac.NewModuleError(m.Name, i, f.Name, "field clashes with another column and is not stored", nil))
			default:
				columns[col] = true
			}
			switch {
			case f.Name == "":
			case cl.Type == field.TypeInvalid:
				r.Warnings = append(r.Warnings, fac.NewModuleError(m.Name, i, f.Name, fmt.Sprintf("unknown type %q, stored as TEXT", f.Type), nil))
			case cl.Type == field.TypeReference && f.Reference == "":
				r.Warnings = append(r.Warnings, fac.NewModuleError(m.Name, i, f.Name, "reference field without target", nil))
			}
			if cl.Assoc == AssocNone || declared[cl.Target] {
				continue
			}
			err := fac.NewReferenceError(m.Name, f.Name, cl.Target)
			if strict {
				r.Errors = append(r.Errors, err)
			} else {
				r.Warnings = append(r.Warnings, err)
			}
		}
	}
	return r
}

// generatedColumns returns the lowercased names of the columns every table
// of m gets.
func generatedColumns(m *Module) map[string]bool {
	columns := map[string]bool{"id": true, "createdat": true, "updatedat": true}
	if m.SoftDelete {
		columns["deleted"] = true
	}
	return columns
}
