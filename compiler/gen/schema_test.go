package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avnt-sistemas/fac/compiler/load"
)

// columns returns the column names of the table.
func columns(t *Table) []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

func TestSynthesizeSchema(t *testing.T) {
	t.Run("unique field and soft delete", func(t *testing.T) {
		email := text("email")
		email.Unique = true
		m := module("Customer", email)
		m.SoftDelete = true
		s := SynthesizeSchema([]*load.Module{m})

		require.Len(t, s.Tables, 1)
		tbl := s.Tables[0]
		assert.Equal(t, "customer", tbl.Name)
		assert.Equal(t, "Customer", tbl.Module)
		assert.Equal(t, []string{"id", "email", "createdAt", "updatedAt", "deleted"}, columns(tbl))
		require.Len(t, s.Indexes, 1)
		assert.Equal(t, "idx_customer_email", s.Indexes[0].Name)
		assert.Equal(t, "CREATE UNIQUE INDEX idx_customer_email ON customer(email);", s.Indexes[0].SQL())

		deleted, ok := tbl.Column("deleted")
		require.True(t, ok)
		assert.Equal(t, "deleted INTEGER DEFAULT 0", deleted.SQL())
	})

	t.Run("column types", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{module("Item",
			&load.Field{Name: "name", Type: "text", Required: true},
			&load.Field{Name: "qty", Type: "integer"},
			&load.Field{Name: "price", Type: "real"},
			&load.Field{Name: "active", Type: "boolean"},
			&load.Field{Name: "seenAt", Type: "datetime"},
			&load.Field{Name: "notes", Type: "list"},
			&load.Field{Name: "code", Type: "uuid"},
		)})

		assert.Equal(t, `CREATE TABLE item (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  qty INTEGER,
  price REAL,
  active INTEGER,
  seenAt TEXT,
  notes TEXT,
  code TEXT,
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL
);`, s.Tables[0].SQL())
	})

	t.Run("reference column keeps the field name", func(t *testing.T) {
		customer := ref("customerId", "Customer")
		customer.Required = true
		s := SynthesizeSchema([]*load.Module{
			module("Customer"),
			module("Order", customer),
		})

		tbl, ok := s.Table("Order")
		require.True(t, ok)
		assert.Equal(t, "order", tbl.Name)
		c, ok := tbl.Column("customerId")
		require.True(t, ok)
		assert.Equal(t, "TEXT", c.Type)
		assert.True(t, c.NotNull)
		_, ok = tbl.Column("customer")
		assert.False(t, ok)

		rels := AnalyzeRelationships([]*load.Module{module("Customer"), module("Order", customer)})
		assert.Equal(t, "customer", rels["Order"].Direct[0].Name)
		assert.Contains(t, tbl.SQL(), `CREATE TABLE "order" (`)
	})

	t.Run("junction table", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{
			module("Post", &load.Field{Name: "title", Type: "text", Required: true}, m2m("tags", "Tag")),
			module("Tag"),
		})

		require.Len(t, s.Junctions, 1)
		j := s.Junctions[0]
		assert.Equal(t, "post_tag", j.Name)
		assert.Equal(t, "Post", j.Module)
		assert.Equal(t, "tags", j.Field)
		assert.Equal(t, "Tag", j.Target)
		assert.Equal(t, []string{"post_id", "tag_id"}, j.PrimaryKey)
		require.Len(t, j.ForeignKeys, 2)
		assert.Equal(t, "FOREIGN KEY (post_id) REFERENCES post(id) ON DELETE CASCADE", j.ForeignKeys[0].SQL())
		assert.Equal(t, "FOREIGN KEY (tag_id) REFERENCES tag(id) ON DELETE CASCADE", j.ForeignKeys[1].SQL())
		assert.Equal(t, `CREATE TABLE post_tag (
  post_id TEXT NOT NULL,
  tag_id TEXT NOT NULL,
  createdAt TEXT NOT NULL,
  PRIMARY KEY (post_id, tag_id),
  FOREIGN KEY (post_id) REFERENCES post(id) ON DELETE CASCADE,
  FOREIGN KEY (tag_id) REFERENCES tag(id) ON DELETE CASCADE
);`, j.SQL())

		post, _ := s.Table("Post")
		_, ok := post.Column("tags")
		assert.True(t, ok)
	})

	t.Run("self many-to-many", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{module("Person", m2m("friends", "Person"))})

		require.Len(t, s.Junctions, 1)
		j := s.Junctions[0]
		assert.Equal(t, "person_person", j.Name)
		assert.Equal(t, []string{"person_id", "related_person_id"}, j.PrimaryKey)
		assert.Equal(t, "person", j.ForeignKeys[1].RefTable)
	})

	t.Run("junction name collision", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{
			module("Post", m2m("tags", "Tag"), m2m("featuredTags", "Tag")),
			module("Tag"),
		})

		require.Len(t, s.Junctions, 2)
		assert.Equal(t, "post_tag", s.Junctions[0].Name)
		assert.Equal(t, "post_tag_featured_tags", s.Junctions[1].Name)
	})

	t.Run("suffixed junction names stay unique", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{
			module("Post", m2m("tags", "Tag"), m2m("fooBar", "Tag"), m2m("foo_bar", "Tag")),
			module("Tag"),
		})

		require.Len(t, s.Junctions, 3)
		assert.Equal(t, "post_tag", s.Junctions[0].Name)
		assert.Equal(t, "post_tag_foo_bar", s.Junctions[1].Name)
		assert.Equal(t, "post_tag_foo_bar2", s.Junctions[2].Name)
	})

	t.Run("no junction for skipped fields", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{
			module("Post", m2m("tags", "Tag"), m2m("tags", "Tag"), m2m("Tags", "Tag"), m2m("", "Tag")),
			module("Tag"),
		})

		require.Len(t, s.Junctions, 1)
		assert.Equal(t, "tags", s.Junctions[0].Field)
	})

	t.Run("nil fields are skipped", func(t *testing.T) {
		m := module("Post", nil, text("title"), nil, m2m("tags", "Tag"))
		var s *Schema
		require.NotPanics(t, func() { s = SynthesizeSchema([]*load.Module{m, module("Tag")}) })

		assert.Equal(t, []string{"id", "title", "tags", "createdAt", "updatedAt"}, columns(s.Tables[0]))
		require.Len(t, s.Junctions, 1)
		assert.Len(t, m.Fields, 4)
		assert.NotPanics(t, func() {
			AnalyzeRelationships([]*load.Module{m})
			DependencyOrder([]*load.Module{m})
		})
	})

	t.Run("clashing and unnamed fields are skipped", func(t *testing.T) {
		m := module("Note",
			text("id"),
			text("title"),
			text("Title"),
			text("CreatedAt"),
			text("deleted"),
			&load.Field{Type: "text"},
		)
		m.SoftDelete = true
		s := SynthesizeSchema([]*load.Module{m})

		assert.Equal(t, []string{"id", "title", "createdAt", "updatedAt", "deleted"}, columns(s.Tables[0]))
	})

	t.Run("deleted is a plain field without soft delete", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{module("Note", text("deleted"))})
		assert.Equal(t, []string{"id", "deleted", "createdAt", "updatedAt"}, columns(s.Tables[0]))
	})

	t.Run("no index on skipped columns", func(t *testing.T) {
		id := text("id")
		id.Unique = true
		unnamed := &load.Field{Type: "text", Unique: true}
		a, b := text("code"), text("code")
		a.Unique, b.Unique = true, true
		s := SynthesizeSchema([]*load.Module{module("Item", id, unnamed, a, b)})

		require.Len(t, s.Indexes, 1)
		assert.Equal(t, "idx_item_code", s.Indexes[0].Name)
	})

	t.Run("unnamed and duplicate modules", func(t *testing.T) {
		s := SynthesizeSchema([]*load.Module{nil, module(""), module("A", text("x")), module("A", text("y"))})

		require.Len(t, s.Tables, 1)
		assert.Equal(t, []string{"id", "x", "createdAt", "updatedAt"}, columns(s.Tables[0]))
	})

	t.Run("idempotent", func(t *testing.T) {
		modules := []*load.Module{
			module("Post", m2m("tags", "Tag")),
			module("Tag", text("label")),
		}
		assert.Equal(t, SynthesizeSchema(modules).SQL(), SynthesizeSchema(modules).SQL())
	})
}

func TestSchema_For(t *testing.T) {
	email := text("email")
	email.Unique = true
	s := SynthesizeSchema([]*load.Module{
		module("Post", email, m2m("tags", "Tag")),
		module("Tag"),
	})

	full := s.For(Unique | Indexes | Cascade | Migrate)
	assert.Equal(t, s.SQL(), full.SQL())

	bare := s.For(0)
	assert.Same(t, s.Tables[0], bare.Tables[0])
	assert.Empty(t, bare.Indexes)
	require.Len(t, bare.Junctions, 1)
	assert.Equal(t, "FOREIGN KEY (post_id) REFERENCES post(id)", bare.Junctions[0].ForeignKeys[0].SQL())
	assert.True(t, s.Junctions[0].ForeignKeys[0].Cascade)

	assert.Empty(t, s.For(Unique|Cascade).Indexes)
	assert.Len(t, s.For(Unique|Indexes).Indexes, 1)
}

func TestSchema_SQL(t *testing.T) {
	label := text("label")
	label.Unique = true
	s := SynthesizeSchema([]*load.Module{
		module("Post", &load.Field{Name: "title", Type: "text", Required: true}, m2m("tags", "Tag")),
		module("Tag", label),
	})

	assert.Equal(t, `-- Table creation
CREATE TABLE post (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  tags TEXT,
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL
);

CREATE TABLE tag (
  id TEXT PRIMARY KEY,
  label TEXT,
  createdAt TEXT NOT NULL,
  updatedAt TEXT NOT NULL
);

-- Junction tables for many-to-many relationships
CREATE TABLE post_tag (
  post_id TEXT NOT NULL,
  tag_id TEXT NOT NULL,
  createdAt TEXT NOT NULL,
  PRIMARY KEY (post_id, tag_id),
  FOREIGN KEY (post_id) REFERENCES post(id) ON DELETE CASCADE,
  FOREIGN KEY (tag_id) REFERENCES tag(id) ON DELETE CASCADE
);

-- Index creation
CREATE UNIQUE INDEX idx_tag_label ON tag(label);

`, s.SQL())
	assert.Len(t, s.Statements(), 4)
}

func TestSchema_SQLWithoutOptionalSections(t *testing.T) {
	s := SynthesizeSchema([]*load.Module{module("Tag")})

	sql := s.SQL()
	assert.Contains(t, sql, "-- Table creation\n")
	assert.NotContains(t, sql, "-- Junction tables")
	assert.NotContains(t, sql, "-- Index creation")
}
