// Package config loads famtree's TOML configuration.
//
// Configuration is layered: [Default] provides every value, a TOML file
// overrides what it names, and command-line flags override the file. Unknown
// keys are rejected so typos do not silently fall back to defaults.
//
// # File Location
//
// The default file is $XDG_CONFIG_HOME/famtree/config.toml (see
// [DefaultPath]). A missing default file is not an error; a missing file
// given explicitly is.
//
// # Example
//
//	[tree]
//	mode = "descendants"
//	generations = 5
//
//	[layout]
//	node_width = 200
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/deepgen/famtree/pkg/cache"
	fterrors "github.com/deepgen/famtree/pkg/errors"
	"github.com/deepgen/famtree/pkg/layout"
	"github.com/deepgen/famtree/pkg/pipeline"
	"github.com/deepgen/famtree/pkg/source"
	"github.com/deepgen/famtree/pkg/viewport"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// DefaultAddr is the HTTP listen address.
const DefaultAddr = "127.0.0.1:8080"

// Config is the complete configuration.
type Config struct {
	Tree     TreeConfig     `toml:"tree"`
	Layout   LayoutConfig   `toml:"layout"`
	Viewport ViewportConfig `toml:"viewport"`
	Cache    CacheConfig    `toml:"cache"`
	Source   SourceConfig   `toml:"source"`
	Server   ServerConfig   `toml:"server"`
}

// TreeConfig selects the initial tree.
type TreeConfig struct {
	Mode        string `toml:"mode"`
	Generations int    `toml:"generations"`
}

// LayoutConfig is the node geometry.
type LayoutConfig struct {
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	HGap       float64 `toml:"h_gap"`
	VGap       float64 `toml:"v_gap"`
}

// ViewportConfig holds the pan/zoom constants.
type ViewportConfig struct {
	Padding       float64 `toml:"padding"`
	FitMin        float64 `toml:"fit_min"`
	FitMax        float64 `toml:"fit_max"`
	ZoomMin       float64 `toml:"zoom_min"`
	ZoomMax       float64 `toml:"zoom_max"`
	ZoomFactor    float64 `toml:"zoom_factor"`
	DragThreshold float64 `toml:"drag_threshold"`
}

// CacheConfig selects the artifact cache.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	RedisDB   int      `toml:"redis_db"`
	TTL       Duration `toml:"ttl"`
}

// SourceConfig points at a MongoDB person store. It is used when no person
// file is given.
type SourceConfig struct {
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	SessionID  string `toml:"session_id"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a Go duration string ("24h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Tree: TreeConfig{
			Mode:        string(pipeline.DefaultMode),
			Generations: pipeline.DefaultGenerations,
		},
		Layout: LayoutConfig{
			NodeWidth:  layout.DefaultNodeWidth,
			NodeHeight: layout.DefaultNodeHeight,
			HGap:       layout.DefaultHGap,
			VGap:       layout.DefaultVGap,
		},
		Viewport: ViewportConfig{
			Padding:       viewport.DefaultPadding,
			FitMin:        viewport.DefaultFitMin,
			FitMax:        viewport.DefaultFitMax,
			ZoomMin:       viewport.DefaultZoomMin,
			ZoomMax:       viewport.DefaultZoomMax,
			ZoomFactor:    viewport.DefaultZoomFactor,
			DragThreshold: viewport.DefaultDragThreshold,
		},
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     Duration{cache.DefaultTTL},
		},
		Source: SourceConfig{
			Database:   source.DefaultMongoDatabase,
			Collection: source.DefaultMongoCollection,
		},
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/famtree/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("get config dir: %w", err)
	}
	return filepath.Join(dir, "famtree", "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path loads the
// default file if it exists.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		return Default(), nil
	case errors.Is(err, fs.ErrNotExist):
		return cfg, fterrors.Wrap(fterrors.ErrCodeFileNotFound, err, "config file not found: %s", path)
	case err != nil:
		return cfg, fterrors.Wrap(fterrors.ErrCodeInvalidInput, err, "parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fterrors.New(fterrors.ErrCodeInvalidInput,
			"unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fterrors.Wrap(fterrors.GetCode(err), err, "%s", path)
	}
	return cfg, nil
}

// Validate checks values that have no sensible fallback.
func (c Config) Validate() error {
	if _, err := layout.ParseMode(c.Tree.Mode); err != nil {
		return err
	}
	if err := fterrors.ValidateGenerations(c.Tree.Generations); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fterrors.New(fterrors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
		}
	default:
		return fterrors.New(fterrors.ErrCodeInvalidInput,
			"unknown cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Viewport.FitMin > c.Viewport.FitMax || c.Viewport.ZoomMin > c.Viewport.ZoomMax {
		return fterrors.New(fterrors.ErrCodeInvalidInput, "viewport minimum scale exceeds maximum")
	}
	return nil
}

// LayoutOptions returns the node geometry.
func (c Config) LayoutOptions() layout.Options {
	return layout.Options{
		NodeWidth:  c.Layout.NodeWidth,
		NodeHeight: c.Layout.NodeHeight,
		HGap:       c.Layout.HGap,
		VGap:       c.Layout.VGap,
	}
}

// Controller returns a viewport controller with the configured constants.
func (c Config) Controller() *viewport.Controller {
	ctrl := &viewport.Controller{
		FitMin:        c.Viewport.FitMin,
		FitMax:        c.Viewport.FitMax,
		ZoomMin:       c.Viewport.ZoomMin,
		ZoomMax:       c.Viewport.ZoomMax,
		ZoomFactor:    c.Viewport.ZoomFactor,
		Padding:       c.Viewport.Padding,
		DragThreshold: c.Viewport.DragThreshold,
	}
	ctrl.SetDefaults()
	return ctrl
}

// PipelineOptions returns pipeline options for the configured tree.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Mode:        layout.Mode(c.Tree.Mode),
		Generations: c.Tree.Generations,
		Layout:      c.LayoutOptions(),
	}
}

// OpenCache opens the configured cache backend.
func (c Config) OpenCache(ctx context.Context) (cache.Cache, error) {
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{Addr: c.Cache.RedisAddr, DB: c.Cache.RedisDB})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir := c.Cache.Dir
	if dir == "" {
		d, err := cache.DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// MongoOptions returns the Mongo source options.
func (c Config) MongoOptions() source.MongoOptions {
	return source.MongoOptions{
		URI:        c.Source.MongoURI,
		Database:   c.Source.Database,
		Collection: c.Source.Collection,
		SessionID:  c.Source.SessionID,
	}
}
