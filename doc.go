// Package fac generates Flutter application source trees from a YAML
// description of the app and its modules.
//
// The interesting work happens in compiler/gen, which analyzes the module
// relationships, computes a generation order and synthesizes the SQLite
// schema before any file is emitted:
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
//
// Errors returned by the loader and the generator wrap the sentinel errors
// declared in this package and can be matched with errors.Is.
package fac
