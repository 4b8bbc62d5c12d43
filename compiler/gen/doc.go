// Package gen analyzes the modules of an app configuration and generates
// the Flutter sources and the SQLite migration of the app.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	app.yaml
//	    ↓
//	load.Config (modules, fields)
//	    ↓
//	AnalyzeRelationships   DependencyOrder   SynthesizeSchema
//	    ↓
//	Graph (nodes in dependency order)
//	    ↓
//	TemplateWriter (parallel emission)
//	    ↓
//	lib/features/<module>/..., assets/db/sqlite_migrations.sql
//
// The three analysis passes are pure functions of the module list. They
// share a single field classification, load.Field.Classify, so the
// relationships and the schema agree on which fields point at other
// modules.
//
// # Key Types
//
//   - Graph: The analyzed app, built once before any file is written
//   - Type: A module with its fields, relationships, table and junctions
//   - RelationMap: Direct and reverse relationships per module
//   - Order: The generation order, or the declaration order on cycles
//   - Schema: Tables, junction tables and unique indexes
//   - Config: Generator configuration, built from functional options
//
// # Relationships
//
// A reference field creates a direct edge on its module and a reverse edge
// on the referenced module:
//
//	Order.customerId -> Customer
//
//	Order:    → Customer (via customerId), displayed as "customer"
//	Customer: ← Order (has many as orderListAsCustomer)
//
// References to modules that are not declared keep their direct edge but
// get no reverse edge.
//
// # Schema
//
// Every module gets a table with an application assigned TEXT id, one column
// per field, createdAt/updatedAt and, for soft deleted modules, a deleted
// flag. Reference columns keep the declared field name. List fields of
// references get a junction table with cascading foreign keys:
//
//	CREATE TABLE post_tag (
//	  post_id TEXT NOT NULL,
//	  tag_id TEXT NOT NULL,
//	  createdAt TEXT NOT NULL,
//	  PRIMARY KEY (post_id, tag_id),
//	  FOREIGN KEY (post_id) REFERENCES post(id) ON DELETE CASCADE,
//	  FOREIGN KEY (tag_id) REFERENCES tag(id) ON DELETE CASCADE
//	);
//
// # Usage
//
//	cfg, err := load.Load("app.yaml")
//	if err != nil {
//		return err
//	}
//	g, err := gen.NewGraph(gen.MustNewConfig(gen.WithTarget("out")), cfg)
//	if err != nil {
//		return err
//	}
//	return gen.Generate(ctx, g)
package gen
