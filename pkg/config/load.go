package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const EnvPrefix = "DTPL_"

// SettingsFiles lists the user settings locations, in probe order.
func SettingsFiles() []string {
	dir := filepath.Join(xdg.ConfigHome, "dtpl")
	return []string{
		filepath.Join(dir, "settings.toml"),
		filepath.Join(dir, "settings.yaml"),
		filepath.Join(dir, "settings.yml"),
	}
}

// Load layers the defaults, the first user settings file found, the explicit file at path
// (if non-empty) and DTPL_* environment variables, in that order.
func Load(path string) (*Configuration, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, p := range SettingsFiles() {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := loadFile(k, p); err != nil {
			return nil, err
		}
		break
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	cfg := new(Configuration)
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(k *koanf.Koanf, path string) error {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	default:
		return fmt.Errorf("unsupported settings file type %q (supported: .toml, .yaml, .yml)", filepath.Ext(path))
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return fmt.Errorf("failed to load settings from %s: %w", path, err)
	}
	return nil
}

func defaultMap() map[string]any {
	d := DefaultConfiguration()
	return map[string]any{
		"debug":          d.Debug,
		"folder":         d.FolderName,
		"timeout":        d.CommandTimeout.String(),
		"history":        d.HistorySize,
		"debounce":       d.Debounce.String(),
		"eol":            d.EOL,
		"glob.matchbase": d.Glob.MatchBase,
		"glob.dot":       d.Glob.Dot,
		"glob.nocase":    d.Glob.NoCase,
		"ext.dtpl":       d.Extensions.Dtpl,
		"ext.tmpl":       d.Extensions.Tmpl,
		"ext.njk":        d.Extensions.Njk,
	}
}
