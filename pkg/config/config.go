// Package config loads engine settings from TOML or YAML files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/odvcencio/strand/pkg/diff"
	"github.com/odvcencio/strand/pkg/match"
	"github.com/odvcencio/strand/pkg/merge"
	"github.com/odvcencio/strand/pkg/patch"
)

// DefaultStoreDir is the object store directory used when none is set.
const DefaultStoreDir = ".strand"

// Config holds the tunables of the diff, match and patch engines plus the
// merge policy and object store location.
type Config struct {
	Diff  DiffConfig  `toml:"diff" yaml:"diff"`
	Match MatchConfig `toml:"match" yaml:"match"`
	Patch PatchConfig `toml:"patch" yaml:"patch"`
	Merge MergeConfig `toml:"merge" yaml:"merge"`
	Store StoreConfig `toml:"store" yaml:"store"`
}

type DiffConfig struct {
	// Timeout is a Go duration string; "0" disables the deadline.
	Timeout  string `toml:"timeout" yaml:"timeout"`
	EditCost int    `toml:"edit_cost" yaml:"edit_cost"`
}

type MatchConfig struct {
	Threshold float64 `toml:"threshold" yaml:"threshold"`
	Distance  int     `toml:"distance" yaml:"distance"`
	MaxBits   int     `toml:"max_bits" yaml:"max_bits"`
}

type PatchConfig struct {
	Margin          int     `toml:"margin" yaml:"margin"`
	DeleteThreshold float64 `toml:"delete_threshold" yaml:"delete_threshold"`
}

type MergeConfig struct {
	Policy string `toml:"policy" yaml:"policy"`
}

type StoreConfig struct {
	Dir string `toml:"dir" yaml:"dir"`
}

// Default returns the classic engine settings.
func Default() *Config {
	d := diff.DefaultOptions()
	m := match.DefaultOptions()
	p := patch.DefaultOptions()
	return &Config{
		Diff:  DiffConfig{Timeout: d.Timeout.String(), EditCost: d.EditCost},
		Match: MatchConfig{Threshold: m.Threshold, Distance: m.Distance, MaxBits: m.MaxBits},
		Patch: PatchConfig{Margin: p.Margin, DeleteThreshold: p.DeleteThreshold},
		Merge: MergeConfig{Policy: merge.RaiseConflict.String()},
		Store: StoreConfig{Dir: DefaultStoreDir},
	}
}

// Load reads a config file, choosing the format by extension (.toml, .yaml,
// .yml). Settings absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg, err := Parse(data, strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data in the given format ("toml", "yaml" or "yml") over
// the defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(format) {
	case "toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse toml: unknown key %q", undecoded[0].String())
		}
	case "yaml", "yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	if d, err := time.ParseDuration(c.Diff.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("diff.timeout: %w", err))
	} else if d < 0 {
		errs = append(errs, fmt.Errorf("diff.timeout: must not be negative, got %s", d))
	}
	if c.Diff.EditCost < 0 {
		errs = append(errs, fmt.Errorf("diff.edit_cost: must not be negative, got %d", c.Diff.EditCost))
	}
	if c.Match.Threshold < 0 || c.Match.Threshold > 1 {
		errs = append(errs, fmt.Errorf("match.threshold: must be in [0,1], got %g", c.Match.Threshold))
	}
	if c.Match.Distance < 0 {
		errs = append(errs, fmt.Errorf("match.distance: must not be negative, got %d", c.Match.Distance))
	}
	if c.Match.MaxBits <= 0 || c.Match.MaxBits > match.MaxPatternBits {
		errs = append(errs, fmt.Errorf("match.max_bits: must be in (0,%d], got %d", match.MaxPatternBits, c.Match.MaxBits))
	}
	if c.Patch.Margin < 0 {
		errs = append(errs, fmt.Errorf("patch.margin: must not be negative, got %d", c.Patch.Margin))
	} else if 2*c.Patch.Margin >= c.Match.MaxBits {
		errs = append(errs, fmt.Errorf("patch.margin: context on both sides must fit under match.max_bits (%d), got %d", c.Match.MaxBits, c.Patch.Margin))
	}
	if c.Patch.DeleteThreshold < 0 || c.Patch.DeleteThreshold > 1 {
		errs = append(errs, fmt.Errorf("patch.delete_threshold: must be in [0,1], got %g", c.Patch.DeleteThreshold))
	}
	if _, err := merge.ParsePolicy(c.Merge.Policy); err != nil {
		errs = append(errs, fmt.Errorf("merge.policy: %w", err))
	}
	if strings.TrimSpace(c.Store.Dir) == "" {
		errs = append(errs, errors.New("store.dir: must not be empty"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// DiffOptions converts the diff section. An unparsable timeout, which
// Validate rejects, falls back to the default.
func (c *Config) DiffOptions() diff.Options {
	timeout, err := time.ParseDuration(c.Diff.Timeout)
	if err != nil {
		timeout = diff.DefaultOptions().Timeout
	}
	return diff.Options{Timeout: timeout, EditCost: c.Diff.EditCost}
}

// MatchOptions converts the match section.
func (c *Config) MatchOptions() match.Options {
	return match.Options{
		Threshold: c.Match.Threshold,
		Distance:  c.Match.Distance,
		MaxBits:   c.Match.MaxBits,
	}
}

// PatchOptions converts the patch section along with the diff and match
// settings it embeds.
func (c *Config) PatchOptions() patch.Options {
	return patch.Options{
		Margin:          c.Patch.Margin,
		DeleteThreshold: c.Patch.DeleteThreshold,
		Diff:            c.DiffOptions(),
		Match:           c.MatchOptions(),
	}
}

// Policy returns the configured merge policy, RaiseConflict if unparsable.
func (c *Config) Policy() merge.Policy {
	p, err := merge.ParsePolicy(c.Merge.Policy)
	if err != nil {
		return merge.RaiseConflict
	}
	return p
}

// Encode writes cfg as TOML.
func Encode(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}
