package gen

import (
	"slices"
	"strconv"
	"strings"

	"github.com/avnt-sistemas/fac/compiler/load"
)

// DirectEdge is a reference from the owning module to another module.
type DirectEdge struct {
	// Target is the referenced module name. It may name a module that is
	// not declared in the configuration.
	Target string
	// Field is the referencing field name, as declared.
	Field string
	// Name is the field name with a trailing "Id" stripped.
	Name string
	// Pascal and Camel are the display forms of Name.
	Pascal, Camel string
	Required      bool
}

// Property returns the name of the entity property holding the referenced
// record. Fields without an "Id" suffix get a "Ref" suffix, since the field
// itself already uses the plain name.
func (e *DirectEdge) Property() string {
	if e.Name == e.Field {
		return e.Camel + "Ref"
	}
	return e.Camel
}

// ReverseEdge mirrors a DirectEdge on its target module.
type ReverseEdge struct {
	// Source is the module holding the reference.
	Source string
	// Field is the referencing field name on Source, as declared.
	Field string
	// Label is unique among the reverse edges of a module.
	//
	//	Order.customerId -> Customer  =>  orderListAsCustomer
	Label string
	// Pascal and Camel are the display forms of Label.
	Pascal, Camel string
	Required      bool
}

// Relations holds the relationships of one module.
type Relations struct {
	Direct  []*DirectEdge
	Reverse []*ReverseEdge
}

// Empty reports if the module has no relationships at all.
func (r *Relations) Empty() bool {
	return r == nil || len(r.Direct) == 0 && len(r.Reverse) == 0
}

// RelationMap maps a module name to its relationships.
type RelationMap map[string]*Relations

// Of returns the relationships of the given module, or empty relations if
// the module is unknown.
func (m RelationMap) Of(name string) *Relations {
	if r, ok := m[name]; ok {
		return r
	}
	return &Relations{}
}

// AnalyzeRelationships computes the direct and reverse relationships of every
// declared module. Every declared module gets an entry, even without
// relationships. Direct edges are collected for all modules before reverse
// edges are derived, and references to undeclared modules keep their direct
// edge without producing a reverse one.
func AnalyzeRelationships(modules []*load.Module) RelationMap {
	decl := declared(modules)
	rels := make(RelationMap, len(decl))
	for _, m := range decl {
		r := &Relations{Direct: []*DirectEdge{}, Reverse: []*ReverseEdge{}}
		for _, f := range m.Fields {
			c := f.Classify()
			if c.Assoc != load.AssocReference {
				continue
			}
			name := stripID(f.Name)
			r.Direct = append(r.Direct, &DirectEdge{
				Target:   c.Target,
				Field:    f.Name,
				Name:     name,
				Pascal:   pascal(name),
				Camel:    camel(name),
				Required: f.Required,
			})
		}
		rels[m.Name] = r
	}
	labels := make(map[string]map[string]bool, len(decl))
	for _, m := range decl {
		for _, e := range rels[m.Name].Direct {
			target, ok := rels[e.Target]
			if !ok {
				continue
			}
			if labels[e.Target] == nil {
				labels[e.Target] = make(map[string]bool)
			}
			label := reverseLabel(m.Name, e, labels[e.Target])
			labels[e.Target][label] = true
			target.Reverse = append(target.Reverse, &ReverseEdge{
				Source:   m.Name,
				Field:    e.Field,
				Label:    label,
				Pascal:   pascal(label),
				Camel:    camel(label),
				Required: e.Required,
			})
		}
	}
	return rels
}

// reverseLabel returns the label of the reverse edge of e. Two fields whose
// names only differ by the "Id" suffix fall back to the raw field name, and
// anything still taken gets a numeric suffix.
func reverseLabel(source string, e *DirectEdge, taken map[string]bool) string {
	prefix := strings.ToLower(source) + "ListAs"
	label := prefix + pascal(e.Name)
	if !taken[label] {
		return label
	}
	if raw := prefix + pascal(e.Field); !taken[raw] {
		return raw
	}
	for i := 2; ; i++ {
		if l := label + strconv.Itoa(i); !taken[l] {
			return l
		}
	}
}

// declared returns the modules that take part in generation: named modules in
// declaration order, keeping the first declaration of duplicated names.
// Modules holding nil fields are returned as copies without them.
func declared(modules []*load.Module) []*load.Module {
	seen := make(map[string]bool, len(modules))
	decl := make([]*load.Module, 0, len(modules))
	for _, m := range modules {
		if m == nil || m.Name == "" || seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		decl = append(decl, withoutNilFields(m))
	}
	return decl
}

func withoutNilFields(m *load.Module) *load.Module {
	if !slices.Contains(m.Fields, nil) {
		return m
	}
	c := *m
	c.Fields = slices.DeleteFunc(slices.Clone(m.Fields), func(f *load.Field) bool { return f == nil })
	return &c
}
