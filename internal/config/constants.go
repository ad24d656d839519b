package config

import "time"

const (
	// Configuration file paths
	ConfigPathScopePolicy = "configs/scopes.yaml"
)

// Storage backends
const (
	StorageBackendFile     = "file"
	StorageBackendPostgres = "postgres"
)

// Defaults
const (
	DefaultPort              = "8080"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
	DefaultEnvironment       = "dev"
	DefaultServiceName       = "osulink"
	DefaultVersion           = "dev"
	DefaultLogDir            = "logs"
	DefaultDataDir           = "data"
	DefaultDBName            = "osulink"
	DefaultDBSSLMode         = "disable"
	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute
	DefaultOsuHTTPTimeout    = 20 * time.Second
	DefaultAuthTimeout       = 300 * time.Second
	DefaultAuthRetryGrace    = 60 * time.Second
)

// AWS Secrets Manager
const (
	EnvAWSSecretID           = "AWS_SECRETS_MANAGER_SECRET_ID"
	EnvAWSSecretRegion       = "AWS_SECRETS_MANAGER_REGION"
	EnvAWSSecretVersionStage = "AWS_SECRETS_MANAGER_VERSION_STAGE"
	EnvAWSSecretOverwrite    = "AWS_SECRETS_MANAGER_OVERWRITE"
	DefaultAWSVersionStage   = "AWSCURRENT"
)

// Log messages
const (
	LogMsgSecretsSkipped = "AWS Secrets Manager: no secret id, skipping"
	LogMsgSecretsLoaded  = "Loaded env vars from AWS Secrets Manager"
	LogMsgSecretsFailed  = "Skipping AWS Secrets Manager load"
)
