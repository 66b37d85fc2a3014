package constants

import (
	appConfig "fileshare-api/internal/config"

	"github.com/kerimovok/go-pkg-utils/config"
	"github.com/kerimovok/go-pkg-utils/validator"
)

// Env returns the value of variable, falling back to the default declared
// in EnvValidationRules
func Env(variable string) string {
	for _, rule := range EnvValidationRules {
		if rule.Variable == variable {
			return config.GetEnvOrDefault(variable, rule.Default)
		}
	}
	return config.GetEnv(variable)
}

// DefaultDBDriver is used when DB_DRIVER is not set
const DefaultDBDriver = "postgres"

func usingSQLite() bool {
	return config.GetEnvOrDefault("DB_DRIVER", DefaultDBDriver) == "sqlite"
}

var EnvValidationRules = []validator.ValidationRule{
	// Server validation
	{
		Variable: "PORT",
		Default:  "3003",
		Rule:     config.IsValidPort,
		Message:  "server port is required and must be a valid port number",
	},
	{
		Variable: "GO_ENV",
		Default:  "development",
		Rule:     func(v string) bool { return v == "development" || v == "production" },
		Message:  "GO_ENV must be either 'development' or 'production'",
	},
	{
		Variable: "STORAGE_CONFIG",
		Default:  appConfig.DefaultConfigPath,
		Rule:     func(v string) bool { return v != "" },
		Message:  "storage config path is required",
	},

	// Database validation
	{
		Variable: "DB_DRIVER",
		Default:  DefaultDBDriver,
		Rule:     func(v string) bool { return v == "postgres" || v == "sqlite" },
		Message:  "DB_DRIVER must be either 'postgres' or 'sqlite'",
	},
	{
		Variable: "DB_HOST",
		Rule:     func(v string) bool { return v != "" || usingSQLite() },
		Message:  "database host is required",
	},
	{
		Variable: "DB_PORT",
		Default:  "5432",
		Rule:     config.IsValidPort,
		Message:  "database port is required and must be a valid port number",
	},
	{
		Variable: "DB_USER",
		Rule:     func(v string) bool { return v != "" || usingSQLite() },
		Message:  "database user is required",
	},
	{
		Variable: "DB_NAME",
		Default:  "fileshare",
		Rule:     func(v string) bool { return v != "" },
		Message:  "database name is required",
	},
	{
		Variable: "DB_PATH",
		Default:  "data/fileshare.db",
		Rule:     func(v string) bool { return v != "" },
		Message:  "sqlite database path is required",
	},
}
