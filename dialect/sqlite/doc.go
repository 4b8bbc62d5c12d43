// Package sqlite applies and verifies generated SQLite migrations.
//
// The generated app runs its migration on the device. This package runs the
// same script against an in-memory SQLite database with foreign keys
// enforced, so a broken migration is caught at generation time:
//
//	s := gen.SynthesizeSchema(cfg.Modules)
//	inspected, err := sqlite.Verify(ctx, s.SQL())
//	if err != nil {
//		return err
//	}
//	if r := sqlite.Check(s, inspected); r.HasErrors() {
//		return r.Err()
//	}
//
// Inspection is done with Atlas, which reads the schema back from the
// database catalog rather than from the script.
package sqlite
