package kvstore

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBadgerStore(t *testing.T, prefix string) *BadgerStore {
	t.Helper()
	tempDir, err := os.MkdirTemp("", "badger_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := NewBadgerStore(tempDir, prefix)
	if err != nil {
		t.Fatalf("Failed to create BadgerStore: %v", err)
	}
	return store
}

func TestBadgerStore_BasicOperations(t *testing.T) {
	store := newTestBadgerStore(t, "")
	defer store.Close()

	key := "test_key"
	value := []byte(`"test_value"`)

	require.NoError(t, store.Write(key, value))

	retrieved, err := store.Read(key)
	require.NoError(t, err)
	assert.Equal(t, value, retrieved)
}

func TestBadgerStore_ReadNonExistentKey(t *testing.T) {
	store := newTestBadgerStore(t, "")
	defer store.Close()

	_, err := store.Read("non_existent_key")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestBadgerStore_EmptyKey(t *testing.T) {
	store := newTestBadgerStore(t, "")
	defer store.Close()

	assert.ErrorIs(t, store.Write("", []byte(`1`)), ErrKeyEmpty)
	_, err := store.Read("")
	assert.ErrorIs(t, err, ErrKeyEmpty)
}

func TestBadgerStore_KeysWithPrefix(t *testing.T) {
	store := newTestBadgerStore(t, "settings")
	defer store.Close()

	testData := map[string][]byte{
		"key1": []byte(`1`),
		"key2": []byte(`"two"`),
		"key3": []byte(`{"three":3}`),
	}
	for key, value := range testData {
		require.NoError(t, store.Write(key, value))
	}

	keys, err := store.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"key1", "key2", "key3"}, keys)

	for key, expected := range testData {
		retrieved, err := store.Read(key)
		require.NoError(t, err)
		assert.Equal(t, expected, retrieved)
	}
}

func TestBadgerStore_InvalidPath(t *testing.T) {
	file, err := os.CreateTemp("", "badger_file")
	require.NoError(t, err)
	file.Close()
	defer os.Remove(file.Name())

	_, err = NewBadgerStore(file.Name(), "")
	assert.Error(t, err, "a regular file cannot hold a badger database")
}

func TestBadgerStore_Close(t *testing.T) {
	store := newTestBadgerStore(t, "")

	require.NoError(t, store.Close())

	// Using the store after closing should fail, not panic
	assert.Error(t, store.Write("key", []byte(`"value"`)))
}
