package gen

import (
	"regexp"
	"strings"
	"text/template"
	"unicode"

	"github.com/go-openapi/inflect"
	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// Funcs are the predefined template functions used by the codegen.
	Funcs = template.FuncMap{
		"lower":   strings.ToLower,
		"upper":   strings.ToUpper,
		"snake":   snake,
		"camel":   camel,
		"pascal":  pascal,
		"kebab":   kebab,
		"plural":  plural,
		"title":   title,
		"stripID": stripID,
		"ident":   ident,
		"join":    strings.Join,
		"quote":   quote,
		"dartLit": dartLit,
	}

	titleCaser  = cases.Title(language.English)
	nonIdentRe  = regexp.MustCompile(`[^a-zA-Z0-9\s_\-]`)
	underscores = regexp.MustCompile(`_+`)
)

// snake converts the given name to snake_case. Characters that cannot appear
// in an identifier are dropped, and names starting with a digit are prefixed
// with "app_" so the result is usable as a Dart file or package name.
//
//	OrderItem => order_item
//	customerId => customer_id
//	XMLParser => xml_parser
func snake(s string) string {
	s = nonIdentRe.ReplaceAllString(s, "")
	s = strcase.ToSnake(s)
	s = underscores.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if s != "" && unicode.IsDigit(rune(s[0])) {
		s = "app_" + s
	}
	return s
}

// pascal converts the given name to PascalCase.
//
//	order_item => OrderItem
//	customerId => CustomerId
func pascal(s string) string {
	return strcase.ToCamel(snake(s))
}

// camel converts the given name to camelCase.
//
//	order_item => orderItem
//	CustomerId => customerId
func camel(s string) string {
	return strcase.ToLowerCamel(snake(s))
}

// kebab converts the given name to kebab-case.
func kebab(s string) string {
	return strings.ReplaceAll(snake(s), "_", "-")
}

// plural returns the English plural form of the given word.
func plural(s string) string {
	return inflect.Pluralize(s)
}

// title returns a human readable label for the given name.
//
//	placedAt => Placed At
func title(s string) string {
	return titleCaser.String(strings.ReplaceAll(snake(s), "_", " "))
}

// stripID removes a trailing literal "Id" from a field name, so that a field
// named customerId presents as customer. A name that is exactly "Id" is kept.
func stripID(s string) string {
	if base, ok := strings.CutSuffix(s, "Id"); ok && base != "" {
		return base
	}
	return s
}

// quote wraps s in single quotes for Dart string literals.
func quote(s string) string {
	return "'" + dartLit(s) + "'"
}

// dartLit escapes s for use inside a single-quoted Dart string literal.
func dartLit(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`)
	return r.Replace(s)
}
