package config

type Config interface {
	EnvConfig
	CommerceConfig
}

type EnvConfig interface {
	GetAppName() string
	GetStateFile() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Commerce
}

func New() Config {
	return mainConfig{}
}
