package gen

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnt-sistemas/fac"
	"github.com/avnt-sistemas/fac/compiler/load"
)

const shopYAML = `
app:
  name: Shop
  package: com.example.shop
auth:
  enabled: true
  provider: email
dashboard:
  enabled: true
modules:
  - name: Customer
    soft_delete: true
    export: true
    fields:
      - name: name
        type: text
        required: true
      - name: email
        type: text
        unique: true
  - name: Order
    export:
      csv: true
    fields:
      - name: customerId
        type: reference
        reference: Customer
        required: true
      - name: total
        type: real
      - name: placedAt
        type: datetime
      - name: tags
        type: list
        itemType: reference
        reference: Tag
  - name: Tag
    fields:
      - name: label
        type: text
        unique: true
`

// parse parses the given app configuration.
func parse(t *testing.T, data string) *load.Config {
	t.Helper()
	app, err := load.Parse([]byte(data))
	require.NoError(t, err)
	return app
}

// testConfig returns a generator config writing to a temporary directory.
func testConfig(t *testing.T, opts ...Option) *Config {
	t.Helper()
	opts = append([]Option{WithTarget(t.TempDir()), WithLogger(slog.New(slog.DiscardHandler))}, opts...)
	c, err := NewConfig(opts...)
	require.NoError(t, err)
	return c
}

func shopGraph(t *testing.T, opts ...Option) *Graph {
	t.Helper()
	g, err := NewGraph(testConfig(t, opts...), parse(t, shopYAML))
	require.NoError(t, err)
	return g
}

func TestNewGraph(t *testing.T) {
	t.Run("nodes in dependency order", func(t *testing.T) {
		g := shopGraph(t)

		assert.Equal(t, []string{"Customer", "Order", "Tag"}, g.Order.Modules)
		require.Len(t, g.Nodes, 3)
		for i, name := range g.Order.Modules {
			assert.Equal(t, name, g.Nodes[i].Name)
		}
		assert.Equal(t, "sqlite", g.Storage.Name)
		assert.True(t, g.SupportsMigration())
		assert.Equal(t, "Shop", g.AppName())
	})

	t.Run("types", func(t *testing.T) {
		g := shopGraph(t)

		order, ok := g.Type("Order")
		require.True(t, ok)
		assert.Equal(t, "order", order.Snake())
		assert.Equal(t, "Order", order.Pascal())
		assert.Equal(t, "order", order.Camel())
		assert.Equal(t, "Orders", order.Plural())
		assert.Equal(t, "lib/features/order", order.Dir())
		assert.Equal(t, "order", order.Table.Name)
		assert.Len(t, order.Junctions, 1)
		require.Len(t, order.Linked(), 1)
		assert.True(t, order.HasRelations())
		assert.True(t, order.HasQueries())
		assert.False(t, order.SoftDelete())
		require.NotNil(t, order.Direct("customerId"))
		assert.Nil(t, order.Direct("total"))

		require.Len(t, order.Fields, 4)
		dart := make([]string, len(order.Fields))
		for i, f := range order.Fields {
			dart[i] = f.DartType()
		}
		assert.Equal(t, []string{"String", "double?", "DateTime?", "List<dynamic>?"}, dart)
		assert.True(t, order.Fields[1].IsReal())
		assert.True(t, order.Fields[2].IsTime())
		assert.True(t, order.Fields[3].IsList())
		assert.True(t, order.Fields[3].IsManyToMany())

		customer, _ := g.Type("Customer")
		assert.True(t, customer.SoftDelete())
		assert.True(t, customer.HasQueries())

		tag, _ := g.Type("Tag")
		assert.False(t, tag.HasRelations())
		assert.False(t, tag.HasQueries())
		_, ok = g.Type("Unknown")
		assert.False(t, ok)
	})

	t.Run("undeclared reference is not linked", func(t *testing.T) {
		g, err := NewGraph(testConfig(t), parse(t, `
app: {name: A, package: com.example.a}
modules:
  - name: Item
    fields:
      - {name: ownerId, type: reference, reference: Owner}
      - {name: weight, type: uuid}
`))
		require.NoError(t, err)

		item, _ := g.Type("Item")
		assert.Len(t, item.Relations.Direct, 1)
		assert.Empty(t, item.Linked())
		assert.False(t, item.HasQueries())
		assert.Equal(t, "dynamic", item.Fields[1].DartType())
	})

	t.Run("cycle", func(t *testing.T) {
		var logs strings.Builder
		c := testConfig(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		g, err := NewGraph(c, parse(t, `
app: {name: A, package: com.example.a}
modules:
  - name: A
    fields: [{name: bId, type: reference, reference: B}]
  - name: B
    fields: [{name: aId, type: reference, reference: A}]
`))
		require.NoError(t, err)

		assert.True(t, g.Order.Cyclic())
		assert.Equal(t, []string{"A", "B"}, g.Order.Modules)
		assert.Len(t, g.Nodes, 2)
		assert.Contains(t, logs.String(), "circular dependency detected")
	})

	t.Run("unnamed module is logged", func(t *testing.T) {
		var logs strings.Builder
		c := testConfig(t, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
		g, err := NewGraph(c, &load.Config{Modules: []*load.Module{{}, {Name: "Tag"}}})
		require.NoError(t, err)

		assert.Len(t, g.Nodes, 1)
		assert.Contains(t, logs.String(), "module config missing name")
	})

	t.Run("firebase provider", func(t *testing.T) {
		g, err := NewGraph(testConfig(t), parse(t, `
app: {name: A, package: com.example.a}
persistence: {provider: firebase}
modules: [{name: Tag}]
`))
		require.NoError(t, err)
		assert.Equal(t, "firebase", g.Storage.Name)
		assert.False(t, g.SupportsMigration())
	})

	t.Run("schema follows the storage schema mode", func(t *testing.T) {
		g := shopGraph(t)
		require.NotEmpty(t, g.Schema.Indexes)
		require.NotEmpty(t, g.Schema.Junctions)
		assert.True(t, g.Schema.Junctions[0].ForeignKeys[0].Cascade)

		firebase, err := NewStorage("firebase")
		require.NoError(t, err)
		g = shopGraph(t, WithStorage(firebase))
		assert.Empty(t, g.Schema.Indexes)
		require.NotEmpty(t, g.Schema.Junctions)
		assert.False(t, g.Schema.Junctions[0].ForeignKeys[0].Cascade)
	})

	t.Run("storage option overrides provider", func(t *testing.T) {
		firebase, err := NewStorage("firebase")
		require.NoError(t, err)
		g := shopGraph(t, WithStorage(firebase))
		assert.Same(t, firebase, g.Storage)
		assert.Same(t, firebase, g.Nodes[0].Storage)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := NewGraph(nil, &load.Config{})
		assert.True(t, fac.IsConfigError(err))

		_, err = NewGraph(testConfig(t), nil)
		assert.True(t, fac.IsConfigError(err))

		_, err = NewGraph(testConfig(t), parse(t, `
app: {name: A, package: com.example.a}
persistence: {provider: realm}
`))
		require.Error(t, err)
		assert.True(t, fac.IsConfigError(err))
		assert.Contains(t, err.Error(), "realm")
	})
}

func TestGraph_RelationshipImports(t *testing.T) {
	g, err := NewGraph(testConfig(t), parse(t, `
app: {name: A, package: com.example.a}
modules:
  - name: Customer
  - name: OrderItem
    fields:
      - {name: customerId, type: reference, reference: Customer}
      - {name: billingId, type: reference, reference: Customer}
      - {name: parentId, type: reference, reference: OrderItem}
      - {name: ownerId, type: reference, reference: Owner}
`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"import '../../../customer/domain/entities/customer_entity.dart';",
	}, g.RelationshipImports("OrderItem"))
	assert.Equal(t, []string{
		"import '../../../order_item/domain/entities/order_item_entity.dart';",
	}, g.RelationshipImports("Customer"))
	assert.Empty(t, g.RelationshipImports("Unknown"))
}

func TestGraph_Summary(t *testing.T) {
	g := shopGraph(t)

	var b strings.Builder
	require.NoError(t, g.Summary(&b))
	assert.Equal(t, `
=== RELATIONSHIP SUMMARY ===

Customer:
  ← Order (has many as orderListAsCustomer)

Order:
  → Customer (via customerId)

Dependency Order: Customer → Order → Tag
==============================
`, b.String())
}

func TestGraph_Requirements(t *testing.T) {
	t.Run("shop", func(t *testing.T) {
		r := shopGraph(t).Requirements()

		assert.IsNonDecreasing(t, r.Dependencies)
		for _, pkg := range []string{"provider", "sqflite", "uuid", "flutter_secure_storage", "fl_chart", "csv", "excel", "pdf", "open_file"} {
			assert.Contains(t, r.Dependencies, pkg)
		}
		assert.NotContains(t, r.Dependencies, "firebase_auth")
		assert.NotContains(t, r.Dependencies, "cloud_firestore")
		assert.Contains(t, r.DevDependencies, "flutter_lints")
	})

	t.Run("firebase auth", func(t *testing.T) {
		g, err := NewGraph(testConfig(t), parse(t, `
app: {name: A, package: com.example.a}
persistence: {provider: firebase}
auth: {enabled: true}
modules: [{name: Tag}]
`))
		require.NoError(t, err)
		r := g.Requirements()

		assert.Contains(t, r.Dependencies, "firebase_auth")
		assert.Contains(t, r.Dependencies, "cloud_firestore")
		assert.NotContains(t, r.Dependencies, "sqflite")
		assert.NotContains(t, r.Dependencies, "open_file")
		n := 0
		for _, pkg := range r.Dependencies {
			if pkg == "firebase_core" {
				n++
			}
		}
		assert.Equal(t, 1, n)
	})
}
