package kvstore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedFileStore(t *testing.T, data map[string]string) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	for k, v := range data {
		require.NoError(t, store.Write(k, []byte(v)))
	}
	return store
}

func TestMigrate_FileToBadger(t *testing.T) {
	src := seedFileStore(t, map[string]string{
		"theme":        `"dark"`,
		"window-state": `{"width":800}`,
		"window-zoom":  `1.25`,
	})
	dst := newTestBadgerStore(t, "settings")
	defer dst.Close()

	var progress []string
	stats, err := Migrate(src, dst, MigrateOptions{
		Verify: true,
		OnKey:  func(key string, _, _ int) { progress = append(progress, key) },
	})
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Copied)
	assert.Equal(t, []string{"theme", "window-state", "window-zoom"}, progress)

	got, err := dst.Read("window-state")
	require.NoError(t, err)
	assert.Equal(t, `{"width":800}`, string(got))
}

func TestMigrate_PrefixesAndDryRun(t *testing.T) {
	src := seedFileStore(t, map[string]string{
		"theme":        `"dark"`,
		"window-state": `{}`,
		"window-zoom":  `1`,
	})
	dst := seedFileStore(t, nil)

	stats, err := Migrate(src, dst, MigrateOptions{Prefixes: []string{"window-"}, DryRun: true})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 0, stats.Copied)
	assert.Equal(t, []string{"window-state", "window-zoom"}, stats.Keys)

	keys, err := dst.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys, "dry run must not write")
}

type brokenBackend struct {
	Backend
}

func (b brokenBackend) Write(string, []byte) error {
	return errors.New("read-only")
}

func TestMigrate_StopsOnWriteError(t *testing.T) {
	src := seedFileStore(t, map[string]string{"a": `1`, "b": `2`})
	dst := brokenBackend{Backend: seedFileStore(t, nil)}

	stats, err := Migrate(src, dst, MigrateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `writing key "a"`)
	assert.Equal(t, 0, stats.Copied)
}
