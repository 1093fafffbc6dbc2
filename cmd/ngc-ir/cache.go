package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ngc-ir/packages/compiler-cli/src/driver"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the compilation cache",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean [path]",
	Short: "Remove every cached compilation result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClean,
}

func init() {
	cacheCmd.AddCommand(cacheCleanCmd)
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, projectPath(args))
	if err != nil {
		return err
	}
	dir := cfg.CacheDir()
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(cmd.OutOrStdout(), "cache directory not found")
			return nil
		}
		return fmt.Errorf("failed to stat %q: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%q is not a directory", dir)
	}
	cache, err := driver.OpenDiskCache(dir)
	if err != nil {
		return err
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to clean %q: %w", dir, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", displayPath(cfg.Root, dir))
	return nil
}
