package config

import "time"

type Config interface {
	EnvConfig
	ClientConfig
}

type EnvConfig interface {
	GetAppName() string
	GetBaseURL() string
	GetEnv() string
}

type ClientConfig interface {
	GetHTTPTimeout() time.Duration
	GetSessionFile() string
	GetSessionSecret() string
}

type mainConfig struct {
	EnvVars
	ClientVars
}

func New() Config {
	loadDotEnv()
	return mainConfig{}
}
