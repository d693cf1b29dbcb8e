package config

const (
	EnvPrefix = "PANELOPS"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
