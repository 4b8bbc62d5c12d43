package gen

import (
	"strings"

	"github.com/avnt-sistemas/fac/compiler/load"
)

// Order is the generation order of the modules.
type Order struct {
	// Modules holds the module names. A module appears after all the
	// modules it references, unless the graph has a cycle, in which case
	// Modules is the declaration order.
	Modules []string
	// Cycle names a module of the first cycle found, if any.
	Cycle string
}

// Cyclic reports if the order fell back to the declaration order.
func (o *Order) Cyclic() bool { return o.Cycle != "" }

// String returns the order as "A → B → C".
func (o *Order) String() string { return strings.Join(o.Modules, " → ") }

// visit states of the topological sort.
const (
	unvisited = iota
	visiting
	visited
)

// frame is a node being visited and the position of its next successor.
type frame struct {
	node string
	next int
}

// DependencyOrder returns the order in which modules are generated, such
// that every module comes after the modules it references.
//
// The graph is built from the reference fields of the declared modules.
// References to undeclared modules are not part of the graph. If a cycle is
// found (a self reference included), the topological result is dropped and
// the declaration order is returned with the Cycle field set.
func DependencyOrder(modules []*load.Module) *Order {
	decl := declared(modules)
	names := make([]string, 0, len(decl))
	succ := make(map[string][]string, len(decl))
	for _, m := range decl {
		names = append(names, m.Name)
		succ[m.Name] = nil
	}
	for _, m := range decl {
		for _, f := range m.Fields {
			c := f.Classify()
			if _, ok := succ[c.Target]; ok && c.Assoc == load.AssocReference {
				succ[m.Name] = append(succ[m.Name], c.Target)
			}
		}
	}
	var (
		order = make([]string, 0, len(names))
		state = make(map[string]int, len(names))
		stack []frame
	)
	for _, root := range names {
		if state[root] != unvisited {
			continue
		}
		state[root] = visiting
		stack = append(stack[:0], frame{node: root})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(succ[top.node]) {
				s := succ[top.node][top.next]
				top.next++
				switch state[s] {
				case visiting:
					return &Order{Modules: names, Cycle: s}
				case unvisited:
					state[s] = visiting
					stack = append(stack, frame{node: s})
				}
				continue
			}
			state[top.node] = visited
			order = append(order, top.node)
			stack = stack[:len(stack)-1]
		}
	}
	return &Order{Modules: order}
}
