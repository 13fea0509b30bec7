package kvstore

// Adapted from https://github.com/philippgille/gokv/consul for raw byte
// values and key listing.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fystack/appstate/pkg/common/enum"
	"github.com/fystack/appstate/pkg/common/logger"
	"github.com/fystack/appstate/pkg/retry"
	"github.com/hashicorp/consul/api"
)

// ConsulStore implements Backend on a Consul KV folder.
type ConsulStore struct {
	c      *api.KV
	folder string
}

// Options are the options for the Consul client.
type Options struct {
	// URI scheme for the Consul server.
	// Optional ("http" by default).
	Scheme string
	// Address of the Consul server, including port number.
	// Optional ("127.0.0.1:8500" by default).
	Address string
	// Directory under which to store the key-value pairs.
	// The Consul UI calls this "folder".
	// Optional (none by default).
	Folder string

	// Client token
	Token    string
	HttpAuth *api.HttpBasicAuth

	// How long to keep retrying the initial connectivity check.
	// Optional (10s by default).
	ConnectTimeout time.Duration
}

// DefaultConsulOptions is an Options object with default values.
var DefaultConsulOptions = Options{
	Scheme:         "http",
	Address:        "127.0.0.1:8500",
	ConnectTimeout: 10 * time.Second,
}

// NewConsulStore creates a Consul-backed store and verifies the server is
// reachable.
func NewConsulStore(options Options) (*ConsulStore, error) {
	if options.Scheme == "" {
		options.Scheme = DefaultConsulOptions.Scheme
	}
	if options.Address == "" {
		options.Address = DefaultConsulOptions.Address
	}
	if options.ConnectTimeout <= 0 {
		options.ConnectTimeout = DefaultConsulOptions.ConnectTimeout
	}

	config := api.DefaultConfig()
	config.Scheme = options.Scheme
	config.Address = options.Address
	config.WaitTime = 10 * time.Second
	if options.Token != "" {
		config.Token = options.Token
	}
	if options.HttpAuth != nil && options.HttpAuth.Username != "" {
		config.HttpAuth = options.HttpAuth
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, err
	}

	// Ping the Consul server to verify connectivity
	err = retry.Exponential(context.Background(), func() error {
		_, err := client.Status().Leader()
		return err
	}, retry.ExponentialConfig{
		InitialInterval: 200 * time.Millisecond,
		MaxElapsedTime:  options.ConnectTimeout,
		OnRetry: func(err error, next time.Duration) {
			logger.Warn("Consul not reachable, retrying", "address", options.Address, "err", err, "next", next)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Consul: %w", err)
	}

	return &ConsulStore{
		c:      client.KV(),
		folder: strings.Trim(options.Folder, "/"),
	}, nil
}

func (c *ConsulStore) GetName() string {
	return string(enum.BackendTypeConsul)
}

func (c *ConsulStore) fullKey(k string) (string, error) {
	if err := checkKey(k); err != nil {
		return "", err
	}
	if c.folder != "" {
		return c.folder + "/" + k, nil
	}
	return k, nil
}

func (c *ConsulStore) Read(key string) ([]byte, error) {
	k, err := c.fullKey(key)
	if err != nil {
		return nil, err
	}
	kvPair, _, err := c.c.Get(k, nil)
	if err != nil {
		return nil, err
	}
	if kvPair == nil {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return kvPair.Value, nil
}

func (c *ConsulStore) Write(key string, data []byte) error {
	k, err := c.fullKey(key)
	if err != nil {
		return err
	}
	_, err = c.c.Put(&api.KVPair{Key: k, Value: data}, nil)
	return err
}

func (c *ConsulStore) Keys() ([]string, error) {
	prefix := ""
	if c.folder != "" {
		prefix = c.folder + "/"
	}
	keys, _, err := c.c.Keys(prefix, "", nil)
	if err != nil {
		return nil, err
	}
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.TrimPrefix(k, prefix)
		// folder placeholders end with "/"
		if k == "" || strings.HasSuffix(k, "/") {
			continue
		}
		result = append(result, k)
	}
	return result, nil
}

// Close closes the client.
// In the Consul implementation this doesn't have any effect.
func (c *ConsulStore) Close() error {
	return nil
}
