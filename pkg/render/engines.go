package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/olimci/dtpl/pkg/naming"
)

var tokenPattern = regexp.MustCompile(`\$([a-zA-Z][\-\w]*)|\$\{([a-zA-Z][\-\w\.]*)\}`)

// Substitution replaces $name and ${dotted.path} tokens. Unresolved tokens are kept verbatim.
type Substitution struct{}

func (Substitution) Render(_ string, content string, data map[string]any) (string, error) {
	return Substitute(content, data), nil
}

func Substitute(content string, data map[string]any) string {
	return tokenPattern.ReplaceAllStringFunc(content, func(raw string) string {
		m := tokenPattern.FindStringSubmatch(raw)
		key := m[1]
		if key == "" {
			key = m[2]
		}
		v, ok := Lookup(data, key)
		if !ok {
			return raw
		}
		return Format(v)
	})
}

// Lookup resolves key as an exact key first, then as a dot path through nested maps.
func Lookup(data map[string]any, key string) (any, bool) {
	if v, ok := data[key]; ok {
		return v, true
	}
	if !strings.Contains(key, ".") {
		return nil, false
	}

	var cur any = data
	for _, part := range strings.Split(key, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Format renders a data value as substitution text.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// GoTemplate renders with text/template and the naming helpers.
type GoTemplate struct{}

var funcs = template.FuncMap{
	"camel":      naming.Camel,
	"capitalize": naming.Capitalize,
	"upper":      naming.Upper,
	"snake":      naming.Snake,
	"lookup": func(data map[string]any, key string) any {
		v, _ := Lookup(data, key)
		return v
	},
}

func (GoTemplate) Render(name, content string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(content)
	if err != nil {
		return "", fmt.Errorf("parsing: %w", err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing: %w", err)
	}
	return b.String(), nil
}

// PassThrough reserves a suffix for an engine registered later. It returns content unchanged.
type PassThrough struct{}

func (PassThrough) Render(_ string, content string, _ map[string]any) (string, error) {
	return content, nil
}
