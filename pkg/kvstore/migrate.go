package kvstore

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
)

type MigrateOptions struct {
	// Only keys starting with one of these prefixes are copied; empty
	// means every key.
	Prefixes []string
	// Read every key back from dst after writing it.
	Verify bool
	// Report what would be copied without writing.
	DryRun bool
	// Called after each key is copied (or would be, in dry-run mode).
	OnKey func(key string, done, total int)
}

type MigrateStats struct {
	Total  int
	Copied int
	Keys   []string
}

// Migrate copies committed entries from src to dst, overwriting existing
// keys in dst. It stops at the first failure.
func Migrate(src, dst Backend, opts MigrateOptions) (MigrateStats, error) {
	var stats MigrateStats

	keys, err := src.Keys()
	if err != nil {
		return stats, fmt.Errorf("listing source keys: %w", err)
	}
	keys = slices.DeleteFunc(keys, func(k string) bool {
		return !matchesPrefix(k, opts.Prefixes)
	})
	slices.Sort(keys)

	stats.Total = len(keys)
	stats.Keys = keys
	if opts.DryRun {
		if opts.OnKey != nil {
			for i, k := range keys {
				opts.OnKey(k, i+1, len(keys))
			}
		}
		return stats, nil
	}

	for i, key := range keys {
		value, err := src.Read(key)
		if err != nil {
			return stats, fmt.Errorf("reading key %q: %w", key, err)
		}
		if err := dst.Write(key, value); err != nil {
			return stats, fmt.Errorf("writing key %q: %w", key, err)
		}
		stats.Copied++

		if opts.Verify {
			got, err := dst.Read(key)
			if err != nil {
				return stats, fmt.Errorf("verifying key %q: %w", key, err)
			}
			if !bytes.Equal(got, value) {
				return stats, fmt.Errorf("verification failed for key %q: expected %q, got %q", key, value, got)
			}
		}

		if opts.OnKey != nil {
			opts.OnKey(key, i+1, len(keys))
		}
	}
	return stats, nil
}

func matchesPrefix(key string, prefixes []string) bool {
	if len(prefixes) == 0 {
		return true
	}
	for _, p := range prefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}
