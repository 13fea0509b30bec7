package kvstore

import (
	"fmt"

	"github.com/fystack/appstate/pkg/common/config"
	"github.com/fystack/appstate/pkg/common/enum"
	"github.com/fystack/appstate/pkg/infra"
	"github.com/hashicorp/consul/api"
)

// NewFromConfig constructs a Backend from configuration. baseDir is the
// store directory; the file backend uses it directly and Badger falls back
// to it when no directory of its own is configured.
func NewFromConfig(cfg config.BackendConfig, baseDir string) (Backend, error) {
	switch cfg.Type {
	case enum.BackendTypeFile, "":
		return NewFileStore(baseDir)
	case enum.BackendTypeBadger:
		dir := cfg.Badger.Directory
		if dir == "" {
			dir = baseDir
		}
		return NewBadgerStore(dir, cfg.Badger.Prefix)
	case enum.BackendTypeConsul:
		return NewConsulStore(Options{
			Scheme:  cfg.Consul.Scheme,
			Address: cfg.Consul.Address,
			Folder:  cfg.Consul.Folder,
			Token:   cfg.Consul.Token,
			HttpAuth: &api.HttpBasicAuth{
				Username: cfg.Consul.HttpAuth.Username,
				Password: cfg.Consul.HttpAuth.Password,
			},
		})
	case enum.BackendTypeRedis:
		client, err := infra.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, cfg.Redis.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
