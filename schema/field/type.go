package field

import "strings"

// A Type represents a field type of a module.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeText
	TypeInteger
	TypeReal
	TypeBoolean
	TypeDateTime
	TypeList
	TypeReference
	endTypes
)

var (
	typeNames = [...]string{
		TypeInvalid:   "invalid",
		TypeText:      "text",
		TypeInteger:   "integer",
		TypeReal:      "real",
		TypeBoolean:   "boolean",
		TypeDateTime:  "datetime",
		TypeList:      "list",
		TypeReference: "reference",
	}
	// Dart type of each field type, as used in generated entities.
	dartTypes = [...]string{
		TypeInvalid:   "dynamic",
		TypeText:      "String",
		TypeInteger:   "int",
		TypeReal:      "double",
		TypeBoolean:   "bool",
		TypeDateTime:  "DateTime",
		TypeList:      "List<dynamic>",
		TypeReference: "String",
	}
	// aliases maps the lowercased spellings accepted in configuration files
	// to their field type. The Dart spellings are kept for older configs.
	aliases = map[string]Type{
		"text":      TypeText,
		"string":    TypeText,
		"integer":   TypeInteger,
		"int":       TypeInteger,
		"real":      TypeReal,
		"double":    TypeReal,
		"float":     TypeReal,
		"boolean":   TypeBoolean,
		"bool":      TypeBoolean,
		"datetime":  TypeDateTime,
		"date":      TypeDateTime,
		"list":      TypeList,
		"reference": TypeReference,
		"ref":       TypeReference,
	}
)

// ParseType returns the field type for the given configuration spelling.
// Generic list spellings such as "List<String>" are lists. Unknown names
// return TypeInvalid.
func ParseType(s string) Type {
	name := strings.ToLower(strings.TrimSpace(s))
	if t, ok := aliases[name]; ok {
		return t
	}
	if strings.HasPrefix(name, "list<") && strings.HasSuffix(name, ">") {
		return TypeList
	}
	return TypeInvalid
}

// String returns the canonical name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return typeNames[TypeInvalid]
}

// Valid reports if the given type is a known type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// SQLType returns the SQLite column type of the field type. Booleans are
// stored as 0/1 integers, datetimes as ISO-8601 text and lists in their
// serialized form. Unknown types fall back to TEXT.
func (t Type) SQLType() string {
	switch t {
	case TypeInteger, TypeBoolean:
		return "INTEGER"
	case TypeReal:
		return "REAL"
	case TypeText, TypeDateTime, TypeList, TypeReference:
		return "TEXT"
	default:
		return "TEXT"
	}
}

// DartType returns the Dart type used for the field in generated code.
func (t Type) DartType() string {
	if t < endTypes {
		return dartTypes[t]
	}
	return dartTypes[TypeInvalid]
}
