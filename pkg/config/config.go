package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/olimci/dtpl/pkg/version"
)

var ErrInvalid = errors.New("invalid configuration")

// Configuration is the snapshot of host settings the engine reads at call time.
type Configuration struct {
	Debug bool `koanf:"debug"`

	// Requires is the oldest dtpl release the settings are written for.
	Requires string `koanf:"requires"`

	// FolderName is the name of configuration folders searched for templates.
	FolderName string `koanf:"folder"`

	// CommandTimeout is how long a command stays replayable after its last successful run.
	// Zero disables expiry.
	CommandTimeout time.Duration `koanf:"timeout"`

	HistorySize int           `koanf:"history"`
	Debounce    time.Duration `koanf:"debounce"`
	EOL         string        `koanf:"eol"`

	Glob       GlobOptions `koanf:"glob"`
	Extensions Extensions  `koanf:"ext"`
}

type GlobOptions struct {
	MatchBase bool `koanf:"matchbase"`
	Dot       bool `koanf:"dot"`
	NoCase    bool `koanf:"nocase"`
}

// Extensions are the template file suffixes selecting a render engine.
type Extensions struct {
	Dtpl string `koanf:"dtpl"`
	Tmpl string `koanf:"tmpl"`
	Njk  string `koanf:"njk"`
}

// All returns the configured suffixes in lookup order.
func (e Extensions) All() []string {
	return []string{e.Dtpl, e.Tmpl, e.Njk}
}

// DefaultConfiguration constructs a Configuration with default values.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		FolderName:     ".dtpl",
		CommandTimeout: 60 * time.Second,
		HistorySize:    1,
		Debounce:       400 * time.Millisecond,
		EOL:            defaultEOL(),
		Glob: GlobOptions{
			MatchBase: true,
			Dot:       true,
		},
		Extensions: Extensions{
			Dtpl: ".dtpl",
			Tmpl: ".tmpl",
			Njk:  ".njk",
		},
	}
}

// Validate normalises empty values and rejects unusable ones.
func (c *Configuration) Validate() error {
	def := DefaultConfiguration()

	if c.Requires != "" {
		if err := version.Check(c.Requires); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	}

	c.FolderName = strings.TrimSpace(c.FolderName)
	if c.FolderName == "" {
		c.FolderName = def.FolderName
	}
	if strings.ContainsAny(c.FolderName, `/\`) {
		return fmt.Errorf("%w: folder name %q must not contain a path separator", ErrInvalid, c.FolderName)
	}

	if c.CommandTimeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative (got %s)", ErrInvalid, c.CommandTimeout)
	}
	if c.HistorySize <= 0 {
		c.HistorySize = def.HistorySize
	}
	if c.Debounce <= 0 {
		c.Debounce = def.Debounce
	}
	if c.EOL == "" {
		c.EOL = def.EOL
	}

	ext := []*string{&c.Extensions.Dtpl, &c.Extensions.Tmpl, &c.Extensions.Njk}
	defExt := def.Extensions.All()
	seen := make(map[string]bool, len(ext))
	for i, e := range ext {
		*e = strings.TrimSpace(*e)
		if *e == "" {
			*e = defExt[i]
		}
		if !strings.HasPrefix(*e, ".") {
			*e = "." + *e
		}
		if seen[*e] {
			return fmt.Errorf("%w: duplicate template extension %q", ErrInvalid, *e)
		}
		seen[*e] = true
	}

	return nil
}

// Clone returns an independent copy.
func (c *Configuration) Clone() *Configuration {
	out := *c
	return &out
}

func defaultEOL() string {
	if runtime.GOOS == "windows" {
		return "\r\n"
	}
	return "\n"
}
