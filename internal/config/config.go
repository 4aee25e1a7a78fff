// Package config loads rpager settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kk-code-lab/rpager/internal/logging"
	"github.com/kk-code-lab/rpager/internal/source"
	"github.com/kk-code-lab/rpager/internal/textutil"
	"github.com/kk-code-lab/rpager/internal/ui/input"
	"github.com/kk-code-lab/rpager/internal/ui/pager"
)

// EnvPath names the environment variable that overrides the config location.
const EnvPath = "RPAGER_CONFIG"

const (
	defaultQueueCapacity = 4096
	maxFPS               = 240
	maxTabWidth          = 16
)

type Config struct {
	FPS           int  `toml:"fps"`
	BatchLines    int  `toml:"batch_lines"`
	QueueCapacity int  `toml:"queue_capacity"`
	ReservedRows  int  `toml:"reserved_rows"`
	TabWidth      int  `toml:"tab_width"`
	SmartCase     bool `toml:"smart_case"`

	Syntax Syntax `toml:"syntax"`
	Log    Log    `toml:"log"`
	// Keys maps key specs such as "C-d" or "pgdn" to behavior names.
	Keys map[string]string `toml:"keys"`

	// Unknown lists keys in the file that matched no setting.
	Unknown []string `toml:"-"`
}

type Syntax struct {
	// Language is a lexer name, "auto" to detect, or empty to disable.
	Language string `toml:"language"`
	Style    string `toml:"style"`
}

type Log struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	opts := pager.DefaultOptions()
	return Config{
		FPS:           pager.DefaultFPS,
		BatchLines:    opts.BatchLines,
		QueueCapacity: defaultQueueCapacity,
		ReservedRows:  opts.ReservedRows,
		TabWidth:      textutil.DefaultTabWidth,
		Syntax:        Syntax{Style: source.DefaultStyle},
		Log:           Log{Level: "info"},
	}
}

// DefaultPath is $RPAGER_CONFIG, or rpager/config.toml under the user
// config directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "rpager", "config.toml")
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("parse %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadOptional is Load, except that a missing file yields the defaults.
func LoadOptional(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.FPS < 1 || c.FPS > maxFPS {
		errs = append(errs, fmt.Errorf("fps must be between 1 and %d, got %d", maxFPS, c.FPS))
	}
	if c.BatchLines < 1 {
		errs = append(errs, fmt.Errorf("batch_lines must be positive, got %d", c.BatchLines))
	}
	if c.QueueCapacity < 1 {
		errs = append(errs, fmt.Errorf("queue_capacity must be positive, got %d", c.QueueCapacity))
	}
	if c.ReservedRows < 0 {
		errs = append(errs, fmt.Errorf("reserved_rows must not be negative, got %d", c.ReservedRows))
	}
	if c.TabWidth < 1 || c.TabWidth > maxTabWidth {
		errs = append(errs, fmt.Errorf("tab_width must be between 1 and %d, got %d", maxTabWidth, c.TabWidth))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.KeyMap(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// TickRate is the interval between viewport ticks.
func (c Config) TickRate() time.Duration {
	return time.Second / time.Duration(max(c.FPS, 1))
}

// KeyMap applies the [keys] overrides to the default bindings.
func (c Config) KeyMap() (input.KeyMap, error) {
	m := input.DefaultKeyMap()
	specs := make([]string, 0, len(c.Keys))
	for spec := range c.Keys {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	for _, spec := range specs {
		if err := m.Bind(spec, c.Keys[spec]); err != nil {
			return nil, fmt.Errorf("keys.%s: %w", spec, err)
		}
	}
	return m, nil
}
