package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/odvcencio/strand/pkg/diff"
	"github.com/odvcencio/strand/pkg/match"
	"github.com/odvcencio/strand/pkg/merge"
	"github.com/odvcencio/strand/pkg/patch"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultMatchesEngineDefaults(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate(Default()): %v", err)
	}
	if got, want := cfg.DiffOptions(), diff.DefaultOptions(); got != want {
		t.Errorf("DiffOptions: got %+v, want %+v", got, want)
	}
	if got, want := cfg.MatchOptions(), match.DefaultOptions(); got != want {
		t.Errorf("MatchOptions: got %+v, want %+v", got, want)
	}
	if got, want := cfg.PatchOptions(), patch.DefaultOptions(); got != want {
		t.Errorf("PatchOptions: got %+v, want %+v", got, want)
	}
	if cfg.Policy() != merge.RaiseConflict {
		t.Errorf("Policy: got %v, want raise", cfg.Policy())
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeConfig(t, "strand.toml", `
[diff]
timeout = "250ms"

[match]
threshold = 0.3
max_bits = 64

[merge]
policy = "left"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.DiffOptions().Timeout; got != 250*time.Millisecond {
		t.Errorf("timeout: got %v, want 250ms", got)
	}
	if cfg.Diff.EditCost != 4 {
		t.Errorf("edit cost default lost: got %d", cfg.Diff.EditCost)
	}
	if cfg.Match.Threshold != 0.3 || cfg.Match.MaxBits != 64 || cfg.Match.Distance != 1000 {
		t.Errorf("match: got %+v", cfg.Match)
	}
	if cfg.Policy() != merge.TakeLeft {
		t.Errorf("policy: got %v, want left", cfg.Policy())
	}
	if cfg.Store.Dir != DefaultStoreDir {
		t.Errorf("store dir: got %q, want %q", cfg.Store.Dir, DefaultStoreDir)
	}
}

func TestLoadYAML(t *testing.T) {
	for _, ext := range []string{"yaml", "yml"} {
		t.Run(ext, func(t *testing.T) {
			path := writeConfig(t, "strand."+ext, `
patch:
  margin: 8
  delete_threshold: 0.25
store:
  dir: /tmp/objects
`)
			cfg, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			opts := cfg.PatchOptions()
			if opts.Margin != 8 || opts.DeleteThreshold != 0.25 {
				t.Errorf("patch options: got %+v", opts)
			}
			if opts.Match != match.DefaultOptions() {
				t.Errorf("embedded match options: got %+v", opts.Match)
			}
			if cfg.Store.Dir != "/tmp/objects" {
				t.Errorf("store dir: got %q", cfg.Store.Dir)
			}
		})
	}
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	cfg, err := Parse(nil, "yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MatchOptions() != match.DefaultOptions() {
		t.Errorf("empty yaml: got %+v", cfg.Match)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{"unknown toml key", "c.toml", "[diff]\nspeed = 3\n", "unknown key"},
		{"unknown yaml key", "c.yaml", "diff:\n  speed: 3\n", "speed"},
		{"bad toml", "c.toml", "[diff\n", "parse toml"},
		{"unsupported format", "c.json", "{}", "unsupported config format"},
		{"threshold range", "c.toml", "[match]\nthreshold = 1.5\n", "match.threshold"},
		{"max bits range", "c.toml", "[match]\nmax_bits = 65\n", "match.max_bits"},
		{"margin too wide", "c.toml", "[patch]\nmargin = 16\n", "patch.margin"},
		{"margin over max bits", "c.yaml", "match:\n  max_bits: 4\npatch:\n  margin: 4\n", "patch.margin"},
		{"negative timeout", "c.toml", "[diff]\ntimeout = \"-1s\"\n", "diff.timeout"},
		{"bad timeout", "c.toml", "[diff]\ntimeout = \"soon\"\n", "diff.timeout"},
		{"bad policy", "c.yaml", "merge:\n  policy: coin-flip\n", "merge.policy"},
		{"empty store", "c.yaml", "store:\n  dir: \"\"\n", "store.dir"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.body))
			if err == nil {
				t.Fatal("Load: got nil error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load: got %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Match.Distance = -1
	cfg.Patch.Margin = -1
	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate: got nil error")
	}
	for _, want := range []string{"match.distance", "patch.margin"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate: %v missing %q", err, want)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load: got %v, want fs.ErrNotExist", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Match.Threshold = 0.75
	cfg.Merge.Policy = "cheaper"

	var buf bytes.Buffer
	if err := Encode(&buf, cfg); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Parse(buf.Bytes(), "toml")
	if err != nil {
		t.Fatalf("Parse(encoded): %v\n%s", err, buf.String())
	}
	if *got != *cfg {
		t.Errorf("round trip: got %+v, want %+v", got, cfg)
	}
}
