package main

import (
	"fmt"

	"github.com/spf13/cobra"

	cachepkg "github.com/pario-ai/sgpt/pkg/cache/sqlite"
	"github.com/pario-ai/sgpt/pkg/config"
)

func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	open := func() (*config.Config, *cachepkg.Cache, error) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return nil, nil, err
		}
		c, err := cachepkg.New(cfg.CachePath, cfg.CacheLength)
		if err != nil {
			return nil, nil, err
		}
		return cfg, c, nil
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			stats, err := c.Stats()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Path:     %s\nEntries:  %d\nCapacity: %d\n", c.Path(), stats.Entries, stats.Capacity)
			return nil
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, c, err := open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()
			defer flushMetrics(cfg)

			if err := c.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All cache entries cleared.")
			return nil
		},
	}

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}
