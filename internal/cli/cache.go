package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepgen/famtree/pkg/cache"
	"github.com/deepgen/famtree/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached render",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runCacheClear(cmd.Context(), cfg)
		},
	}
}

func (c *CLI) runCacheClear(ctx context.Context, cfg config.Config) error {
	if cfg.Cache.Backend == config.CacheNone {
		printInfo(c.out, "Caching is disabled")
		return nil
	}

	opened, err := cfg.OpenCache(ctx)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer opened.Close()

	var count int
	switch ch := opened.(type) {
	case *cache.FileCache:
		count, err = ch.Clear()
		if err == nil {
			defer printDetail(c.out, "Directory: %s", ch.Dir())
		}
	case *cache.RedisCache:
		count, err = ch.Clear(ctx)
		if err == nil {
			defer printDetail(c.out, "Redis: %s", cfg.Cache.RedisAddr)
		}
	default:
		return fmt.Errorf("cache backend %q cannot be cleared", cfg.Cache.Backend)
	}
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}

	if count == 0 {
		printInfo(c.out, "Cache is empty")
		return nil
	}
	printSuccess(c.out, "Cleared %d cached entries", count)
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}

// cacheDir is the configured file cache directory, or the per-user default.
func cacheDir(cfg config.Config) (string, error) {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}
