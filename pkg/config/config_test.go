package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deepgen/famtree/pkg/cache"
	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/viewport"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.LayoutOptions() != layout.DefaultOptions() {
		t.Errorf("layout = %+v", cfg.LayoutOptions())
	}
	if *cfg.Controller() != *viewport.NewController() {
		t.Errorf("controller = %+v", cfg.Controller())
	}
	if cfg.Cache.TTL.Duration != cache.DefaultTTL || cfg.Server.Addr != DefaultAddr {
		t.Errorf("cache/server = %+v / %+v", cfg.Cache, cfg.Server)
	}
	opts := cfg.PipelineOptions()
	if opts.Mode != layout.Ancestors || opts.Generations != 4 {
		t.Errorf("pipeline options = %+v", opts)
	}
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
[tree]
mode = "descendants"
generations = 6

[layout]
node_width = 180
h_gap = 0

[viewport]
zoom_max = 4.0

[cache]
backend = "none"
ttl = "36h"

[source]
mongo_uri = "mongodb://db:27017"
session_id = "abc"

[server]
addr = ":9000"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Tree.Mode != "descendants" || cfg.Tree.Generations != 6 {
		t.Errorf("tree = %+v", cfg.Tree)
	}
	if cfg.Layout.NodeWidth != 180 || cfg.Layout.HGap != 0 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.NodeHeight != layout.DefaultNodeHeight {
		t.Errorf("unset keys should keep defaults, node_height = %v", cfg.Layout.NodeHeight)
	}
	if cfg.Viewport.ZoomMax != 4.0 || cfg.Controller().ZoomMax != 4.0 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("ttl = %v", cfg.Cache.TTL)
	}
	mo := cfg.MongoOptions()
	if mo.URI != "mongodb://db:27017" || mo.SessionID != "abc" || mo.Collection != "people" {
		t.Errorf("mongo = %+v", mo)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		code    fterrors.Code
	}{
		{"syntax", "[tree\nmode = 1", fterrors.ErrCodeInvalidInput},
		{"unknown key", "[tree]\ndepth = 3\n", fterrors.ErrCodeInvalidInput},
		{"bad mode", "[tree]\nmode = \"sideways\"\n", fterrors.ErrCodeInvalidMode},
		{"bad generations", "[tree]\ngenerations = 0\n", fterrors.ErrCodeInvalidGenerations},
		{"bad backend", "[cache]\nbackend = \"memcached\"\n", fterrors.ErrCodeInvalidInput},
		{"redis without addr", "[cache]\nbackend = \"redis\"\n", fterrors.ErrCodeInvalidInput},
		{"bad ttl", "[cache]\nttl = \"soon\"\n", fterrors.ErrCodeInvalidInput},
		{"inverted zoom", "[viewport]\nzoom_min = 3.0\nzoom_max = 1.0\n", fterrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if !fterrors.Is(err, tt.code) {
				t.Errorf("Load() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !fterrors.Is(err, fterrors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing file: %v", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("missing default file should not fail: %v", err)
	}
	if cfg != Default() {
		t.Error("missing default file should yield defaults")
	}
}

func TestDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	path, err := DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "famtree", "config.toml"); path != want {
		t.Errorf("DefaultPath() = %q, want %q", path, want)
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	cfg := Default()
	cfg.Cache.Backend = CacheNone
	c, err := cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(*cache.NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	cfg.Cache.Backend = CacheFile
	cfg.Cache.Dir = t.TempDir()
	c, err = cfg.OpenCache(ctx)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok || fc.Dir() != cfg.Cache.Dir {
		t.Errorf("file backend = %T", c)
	}
}
