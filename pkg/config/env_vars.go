package config

// EnvPrefix is handed to envconfig; every field carries its full variable name.
const EnvPrefix = "REACTMEALS"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

const (
	MealsSourceRemote   = "remote"
	MealsSourceDatabase = "database"
)

const (
	EnvAppEnv         = "REACTMEALS_APP_ENV"
	EnvDBDSN          = "REACTMEALS_DB_DSN"
	EnvDBDriver       = "REACTMEALS_DB_DRIVER"
	EnvMealsSource    = "REACTMEALS_MEALS_SOURCE"
	EnvMealsRemoteURL = "REACTMEALS_MEALS_REMOTE_URL"
	EnvRedisURL       = "REACTMEALS_REDIS_URL"
)
