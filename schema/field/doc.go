// Package field defines the closed vocabulary of module field types.
//
// Configuration files spell types either with the canonical names or with
// the Dart names older configurations used:
//
//	text       String
//	integer    int
//	real       double
//	boolean    bool
//	datetime   DateTime
//	list       List, List<String>, ...
//	reference
//
// Each type knows its SQLite column type and its Dart type:
//
//	field.ParseType("DateTime").SQLType()  // TEXT
//	field.ParseType("bool").DartType()     // bool
//
// Unknown spellings parse to TypeInvalid, which is stored as TEXT.
package field
