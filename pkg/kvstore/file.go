package kvstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/fystack/appstate/pkg/common/enum"
	"github.com/fystack/appstate/pkg/common/logger"
)

const (
	tempPrefix = ".appstate-"
	tempSuffix = ".tmp"

	dirPerm  = 0o755
	filePerm = 0o644
)

// FileStore keeps one file per key directly inside dir. The file name is the
// key and the file contents are the value bytes.
type FileStore struct {
	dir string
}

// NewFileStore creates dir (and any missing parents) if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("store directory is empty")
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

func (f *FileStore) GetName() string {
	return string(enum.BackendTypeFile)
}

// Dir returns the store root.
func (f *FileStore) Dir() string {
	return f.dir
}

// ValidateFileKey reports whether key can be used as a single file name
// inside the store root. Names shaped like in-flight temp files are
// reserved so Keys and Watch never hide a stored entry.
func ValidateFileKey(key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\`) || strings.ContainsRune(key, 0) || isTempName(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func (f *FileStore) path(key string) (string, error) {
	if err := ValidateFileKey(key); err != nil {
		return "", err
	}
	return filepath.Join(f.dir, key), nil
}

func (f *FileStore) Read(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return nil, err
	}
	return data, nil
}

// Write stages data in a temp file next to the target and renames it into
// place, so readers see either the old or the new contents.
func (f *FileStore) Write(key string, data []byte) (err error) {
	p, err := f.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(f.dir, tempPrefix+"*"+tempSuffix)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err = os.Chmod(tmp.Name(), filePerm); err != nil {
		return fmt.Errorf("chmod %s: %w", key, err)
	}
	if err = os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("commit %s: %w", key, err)
	}
	return nil
}

func isTempName(name string) bool {
	return strings.HasPrefix(name, tempPrefix) && strings.HasSuffix(name, tempSuffix)
}

func (f *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || isTempName(e.Name()) {
			continue
		}
		keys = append(keys, e.Name())
	}
	return keys, nil
}

// Watch calls onChange with the key of every entry created or rewritten in
// the store root, by this process or any other. It runs until ctx is
// cancelled.
func (f *FileStore) Watch(ctx context.Context, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(f.dir); err != nil {
		return err
	}

	logger.Debug("kvstore: watching store directory", "dir", f.dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Atomic writes land as a rename, which shows up as Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Base(event.Name)
			if isTempName(name) {
				continue
			}
			onChange(name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("kvstore: watcher error", "dir", f.dir, "err", err)
		}
	}
}

// Close is a no-op; the file store holds no open handles.
func (f *FileStore) Close() error {
	return nil
}
