// Package naming derives the case variants of a file's base name.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Words splits s on every rune that is neither a letter nor a digit. Case changes inside a
// word are not boundaries, so "upperThing" is one word.
func Words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Camel returns "myModule" for "my-module".
func Camel(s string) string {
	words := Words(s)
	var b strings.Builder
	for i, w := range words {
		if i == 0 {
			b.WriteString(lowerFirst(w))
			continue
		}
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// Capitalize returns "MyModule" for "my-module".
func Capitalize(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(upperFirst(w))
	}
	return b.String()
}

// Upper returns "MY_MODULE" for "my-module".
func Upper(s string) string {
	return strings.ToUpper(strings.Join(Words(s), "_"))
}

// Snake returns "my_module" for "my-module".
func Snake(s string) string {
	return strings.ToLower(strings.Join(Words(s), "_"))
}

// Variants are the module name forms exposed to templates.
type Variants struct {
	Raw        string
	Camel      string
	Capitalize string
	Upper      string
	Snake      string
}

func Of(name string) Variants {
	return Variants{
		Raw:        name,
		Camel:      Camel(name),
		Capitalize: Capitalize(name),
		Upper:      Upper(name),
		Snake:      Snake(name),
	}
}

func upperFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToUpper(r)) + w[size:]
}

func lowerFirst(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if size == 0 {
		return w
	}
	return string(unicode.ToLower(r)) + w[size:]
}
