package config

type DatabaseConfig struct {
	URL string `yaml:"url" env:"URL"`
}

type RedisConfig struct {
	URL      string `yaml:"url"      env:"URL"`
	Password string `yaml:"password" env:"PASSWORD"`
	Prefix   string `yaml:"prefix"`
}

type NatsConfig struct {
	URL           string        `yaml:"url"            env:"URL"            validate:"omitempty,url"`
	SubjectPrefix string        `yaml:"subject_prefix" env:"SUBJECT_PREFIX"`
	Username      string        `yaml:"username"`
	Password      string        `yaml:"password"`
	TLS           NatsTLSConfig `yaml:"tls"`
}

type NatsTLSConfig struct {
	ClientCert string `yaml:"client_cert"`
	ClientKey  string `yaml:"client_key"`
	CACert     string `yaml:"ca_cert"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
}
