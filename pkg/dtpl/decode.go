package dtpl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// decodeConfigFile decodes a declarative config file into a raw map. It also returns the
// declaration order of templates given as a keyed table, when the format keeps it.
func decodeConfigFile(filename string, b []byte) (map[string]any, []string, error) {
	raw := make(map[string]any)

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(b)).Decode(&raw)
		if err != nil {
			return nil, nil, err
		}
		var order []string
		for _, key := range md.Keys() {
			if len(key) == 2 && key[0] == "templates" {
				order = append(order, key[1])
			}
		}
		return raw, order, nil
	case ".yaml", ".yml":
		var doc yaml.Node
		dec := yaml.NewDecoder(bytes.NewReader(b))
		if err := dec.Decode(&doc); err != nil {
			if err == io.EOF {
				return raw, nil, nil
			}
			return nil, nil, err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return nil, nil, fmt.Errorf("unexpected extra YAML document")
			}
			return nil, nil, err
		}
		if err := doc.Decode(&raw); err != nil {
			return nil, nil, err
		}
		return raw, yamlTemplateOrder(&doc), nil
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return nil, nil, fmt.Errorf("unexpected extra content after JSON document")
			}
			return nil, nil, err
		}
		return raw, nil, nil
	default:
		return nil, nil, fmt.Errorf("unsupported config file type %q (supported: .toml, .yaml, .yml, .json, .cue)", ext)
	}
}

func yamlTemplateOrder(doc *yaml.Node) []string {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "templates" {
			continue
		}
		tpl := root.Content[i+1]
		if tpl.Kind != yaml.MappingNode {
			return nil
		}
		order := make([]string, 0, len(tpl.Content)/2)
		for j := 0; j+1 < len(tpl.Content); j += 2 {
			order = append(order, tpl.Content[j].Value)
		}
		return order
	}
	return nil
}

// orderedKeys returns the keys of m following order first, then any remaining keys sorted.
func orderedKeys(m map[string]any, order []string) []string {
	out := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))
	for _, k := range order {
		if _, ok := m[k]; ok && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	rest := make([]string, 0)
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}
