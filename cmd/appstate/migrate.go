package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fystack/appstate/pkg/common/config"
	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/fystack/appstate/pkg/common/stringutils"
	"github.com/fystack/appstate/pkg/kvstore"
	"github.com/goccy/go-yaml"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBold   = "\033[1m"
)

// MigrationTarget describes the destination backend in its own YAML file,
// shaped like store.backend plus the directory used by file/badger targets.
type MigrationTarget struct {
	Directory string               `yaml:"directory"`
	Backend   config.BackendConfig `yaml:"backend"`
}

type MigrateCmd struct {
	To     string   `help:"YAML file describing the destination backend." required:"" type:"existingfile"`
	Prefix []string `help:"Only copy keys with these prefixes."`
	Verify bool     `help:"Read every key back after writing it."`
	DryRun bool     `help:"Print the keys that would be copied without writing." name:"dry-run"`
}

func (c *MigrateCmd) Run(g *Globals) error {
	cfg := setup(g)

	target, err := loadTarget(c.To)
	if err != nil {
		return err
	}

	src, err := kvstore.NewFromConfig(cfg.Store.Backend, cfg.Store.Directory)
	if err != nil {
		return fmt.Errorf("open source store: %w", err)
	}
	defer src.Close()

	dst, err := kvstore.NewFromConfig(target.Backend, target.Directory)
	if err != nil {
		return fmt.Errorf("open destination store: %w", err)
	}
	defer dst.Close()

	logger.Info("Migrating store", "from", src.GetName(), "to", dst.GetName(), "dry_run", c.DryRun)

	start := time.Now()
	stats, err := kvstore.Migrate(src, dst, kvstore.MigrateOptions{
		Prefixes: c.Prefix,
		Verify:   c.Verify,
		DryRun:   c.DryRun,
		OnKey: func(key string, done, total int) {
			fmt.Printf("  %s (%d/%d)\n", key, done, total)
		},
	})
	if err != nil {
		return err
	}

	printSummary(stats, time.Since(start), c.DryRun)
	return nil
}

func loadTarget(path string) (*MigrationTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading target file %q: %w", path, err)
	}

	var target MigrationTarget
	if err := yaml.Unmarshal(data, &target); err != nil {
		return nil, fmt.Errorf("parsing target YAML: %w", err)
	}
	if err := config.ApplyBackendDefaults(&target.Backend); err != nil {
		return nil, err
	}
	target.Directory = stringutils.ExpandTildePath(target.Directory)
	target.Backend.Badger.Directory = stringutils.ExpandTildePath(target.Backend.Badger.Directory)
	return &target, nil
}

func printSummary(stats kvstore.MigrateStats, duration time.Duration, dryRun bool) {
	fmt.Println()
	fmt.Printf("%s%sMigration summary:%s\n", colorBold, colorGreen, colorReset)
	if dryRun {
		fmt.Printf("  Would migrate: %s%d%s keys\n", colorYellow, stats.Total, colorReset)
	} else {
		fmt.Printf("  Total keys: %s%d%s\n", colorYellow, stats.Total, colorReset)
		fmt.Printf("  Copied: %s%d%s\n", colorGreen, stats.Copied, colorReset)
	}
	fmt.Printf("  Duration: %s%s%s\n", colorYellow, duration.Round(time.Millisecond), colorReset)
	if stats.Total == 0 {
		fmt.Printf("  %sNo keys matched%s\n", colorYellow, colorReset)
	}
}
