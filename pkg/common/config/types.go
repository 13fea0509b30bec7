package config

import (
	"time"

	"github.com/fystack/appstate/pkg/common/enum"
)

type Config struct {
	Environment string         `yaml:"environment" env:"ENV"                    validate:"required,oneof=production development"`
	Store       StoreConfig    `yaml:"store"       envPrefix:"STORE_"           validate:"required"`
	Database    DatabaseConfig `yaml:"database"    envPrefix:"DATABASE_"`
	Nats        NatsConfig     `yaml:"nats"        envPrefix:"NATS_"`
	Logging     LoggingConfig  `yaml:"logging"     envPrefix:"LOG_"`
}

type StoreConfig struct {
	Directory string        `yaml:"directory" env:"DIR"      validate:"required"`
	Debounce  time.Duration `yaml:"debounce"  env:"DEBOUNCE"`
	Backend   BackendConfig `yaml:"backend"   envPrefix:"BACKEND_"`
}

type BackendConfig struct {
	Type   enum.BackendType `yaml:"type"   env:"TYPE" validate:"required,oneof=file badger consul redis"`
	Badger BadgerConfig     `yaml:"badger"`
	Consul ConsulConfig     `yaml:"consul"`
	Redis  RedisConfig      `yaml:"redis"  envPrefix:"REDIS_"`
}

type BadgerConfig struct {
	Directory string `yaml:"directory"`
	Prefix    string `yaml:"prefix"`
}

type ConsulConfig struct {
	Scheme   string         `yaml:"scheme"`
	Address  string         `yaml:"address"`
	Folder   string         `yaml:"folder"`
	Token    string         `yaml:"token"`
	HttpAuth HttpAuthConfig `yaml:"http_auth"`
}

type HttpAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}
