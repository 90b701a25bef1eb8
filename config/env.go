package config

import (
	"botleague/pkg/types"
	"botleague/pkg/utils"

	"strings"

	"github.com/joho/godotenv"
)

var Env = Environment{}

type Environment struct {
	EnvName    types.EnvName
	ConfigMode types.YamlMode
}

func init() {
	godotenv.Load()
	Env = loadEnvironment()
}

func loadEnvironment() Environment {
	var env Environment
	switch name := strings.ToLower(utils.LoadEnvWithDefault("ENVIRONMENT", "")); name {
	case "prod", "production":
		env.EnvName = types.EnvProd
	case "dev", "staging":
		env.EnvName = types.EnvDev
	default:
		env.EnvName = types.EnvLocal
	}
	switch strings.ToUpper(utils.LoadEnvWithDefault("CONFIG_SOURCE", "")) {
	case string(types.YamlModeS3):
		env.ConfigMode = types.YamlModeS3
	default:
		env.ConfigMode = types.YamlModeLocal
	}
	return env
}
