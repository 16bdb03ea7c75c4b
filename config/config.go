package config

import (
	_ "embed"
)

// tool config
//
//go:embed default.config.yml
var DefaultConfigYml string

// chain environments (base + river contract locations)
//
//go:embed environments.yml
var EnvironmentsYml string
