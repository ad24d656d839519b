package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// secretFetcher is the part of the Secrets Manager client we use
type secretFetcher interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// loadAWSSecretsIntoEnv copies a JSON secret's keys into the environment
// when AWS_SECRETS_MANAGER_SECRET_ID is set. Failures are logged and ignored
// so local runs without AWS credentials still start.
func loadAWSSecretsIntoEnv() {
	secretID := os.Getenv(EnvAWSSecretID)
	if secretID == "" {
		slog.Debug(LogMsgSecretsSkipped)
		return
	}

	ctx := context.Background()
	awsCfg, err := loadAWSConfig(ctx, os.Getenv(EnvAWSSecretRegion))
	if err != nil {
		slog.Warn(LogMsgSecretsFailed, "error", err)
		return
	}

	overwrite := strings.EqualFold(os.Getenv(EnvAWSSecretOverwrite), "true")
	applied, err := applySecret(ctx, secretsmanager.NewFromConfig(awsCfg), secretID,
		getEnv(EnvAWSSecretVersionStage, DefaultAWSVersionStage), overwrite)
	if err != nil {
		slog.Warn(LogMsgSecretsFailed, "error", err)
		return
	}
	slog.Info(LogMsgSecretsLoaded, "secret_id", secretID, "applied", applied)
}

// applySecret fetches secretID and sets each key as an env var. Keys already
// present are kept unless overwrite is set. Returns how many were applied.
func applySecret(ctx context.Context, client secretFetcher, secretID, versionStage string, overwrite bool) (int, error) {
	input := &secretsmanager.GetSecretValueInput{SecretId: aws.String(secretID)}
	if versionStage != "" {
		input.VersionStage = aws.String(versionStage)
	}

	output, err := client.GetSecretValue(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("fetching secret %s: %w", secretID, err)
	}

	var payload string
	switch {
	case output.SecretString != nil:
		payload = *output.SecretString
	case len(output.SecretBinary) > 0:
		payload = string(output.SecretBinary)
	default:
		return 0, fmt.Errorf("secret %s has no payload", secretID)
	}

	var kv map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &kv); err != nil {
		return 0, fmt.Errorf("parsing secret %s as JSON: %w", secretID, err)
	}

	applied := 0
	for key, val := range kv {
		if _, exists := os.LookupEnv(key); exists && !overwrite {
			continue
		}
		if err := os.Setenv(key, fmt.Sprint(val)); err != nil {
			return applied, fmt.Errorf("setting env %s from secret: %w", key, err)
		}
		applied++
	}
	return applied, nil
}

func loadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	if region != "" {
		return awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	}
	return awsconfig.LoadDefaultConfig(ctx)
}
