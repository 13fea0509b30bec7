package kvstore

import (
	"errors"
)

var (
	ErrKeyNotFound = errors.New("key not found")
	ErrKeyEmpty    = errors.New("key is empty")
	ErrInvalidKey  = errors.New("invalid key")
)

// Backend holds the committed state of a store: one opaque byte value per
// key. Implementations must be safe for concurrent use.
type Backend interface {
	GetName() string
	// Read returns the committed bytes for key, or an error wrapping
	// ErrKeyNotFound when nothing was ever written under it.
	Read(key string) ([]byte, error)
	// Write replaces the committed bytes for key.
	Write(key string, data []byte) error
	// Keys lists every committed key.
	Keys() ([]string, error)
	Close() error
}

func checkKey(k string) error {
	if k == "" {
		return ErrKeyEmpty
	}
	return nil
}
