package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avnt-sistemas/fac/schema/field"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want field.Type
	}{
		{"text", field.TypeText},
		{"String", field.TypeText},
		{"integer", field.TypeInteger},
		{"int", field.TypeInteger},
		{"real", field.TypeReal},
		{"double", field.TypeReal},
		{"boolean", field.TypeBoolean},
		{"bool", field.TypeBoolean},
		{"datetime", field.TypeDateTime},
		{"DateTime", field.TypeDateTime},
		{"list", field.TypeList},
		{"List", field.TypeList},
		{"List<String>", field.TypeList},
		{"reference", field.TypeReference},
		{" reference ", field.TypeReference},
		{"uuid", field.TypeInvalid},
		{"", field.TypeInvalid},
		{"List<", field.TypeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, field.ParseType(tt.in))
		})
	}
}

func TestType_SQLType(t *testing.T) {
	tests := []struct {
		typ  field.Type
		want string
	}{
		{field.TypeText, "TEXT"},
		{field.TypeInteger, "INTEGER"},
		{field.TypeReal, "REAL"},
		{field.TypeBoolean, "INTEGER"},
		{field.TypeDateTime, "TEXT"},
		{field.TypeList, "TEXT"},
		{field.TypeReference, "TEXT"},
		{field.TypeInvalid, "TEXT"},
		{field.Type(200), "TEXT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.SQLType(), tt.typ.String())
	}
}

func TestType_Methods(t *testing.T) {
	tests := []struct {
		typ   field.Type
		valid bool
		str   string
		dart  string
	}{
		{field.TypeText, true, "text", "String"},
		{field.TypeInteger, true, "integer", "int"},
		{field.TypeReal, true, "real", "double"},
		{field.TypeBoolean, true, "boolean", "bool"},
		{field.TypeDateTime, true, "datetime", "DateTime"},
		{field.TypeList, true, "list", "List<dynamic>"},
		{field.TypeReference, true, "reference", "String"},
		{field.TypeInvalid, false, "invalid", "dynamic"},
		{field.Type(99), false, "invalid", "dynamic"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.typ.Valid())
			assert.Equal(t, tt.str, tt.typ.String())
			assert.Equal(t, tt.dart, tt.typ.DartType())
		})
	}
}
