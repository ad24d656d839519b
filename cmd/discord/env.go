package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/OsuLink_Go/internal/discord"
)

// botEnv is the bot's configuration as read from the environment
type botEnv struct {
	Token              string `env:"DISCORD_TOKEN" validate:"required"`
	AppID              string `env:"DISCORD_APP_ID" validate:"required,numeric"`
	GuildID            string `env:"DISCORD_GUILD_ID" validate:"omitempty,numeric"`
	APIURL             string `env:"API_URL" validate:"required,http_url"`
	APIKey             string `env:"API_KEY"`
	HealthPort         string `env:"DISCORD_HEALTH_PORT" validate:"required,numeric"`
	ForceCommandUpdate bool   `env:"DISCORD_FORCE_COMMAND_UPDATE"`
	LogLevel           string `env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogFormat          string `env:"LOG_FORMAT" validate:"oneof=text json"`
	Version            string `env:"VERSION"`
	Environment        string `env:"ENVIRONMENT"`
}

func defaultEnv() botEnv {
	return botEnv{
		APIURL:      "http://localhost:8080",
		HealthPort:  "8082",
		LogLevel:    "info",
		LogFormat:   "text",
		Version:     "dev",
		Environment: "dev",
	}
}

// loadEnv overlays set environment variables on the defaults and validates
// the result
func loadEnv() (botEnv, error) {
	return parseEnv(os.LookupEnv)
}

func parseEnv(lookup func(string) (string, bool)) (botEnv, error) {
	env := defaultEnv()

	strs := map[string]*string{
		"DISCORD_TOKEN":       &env.Token,
		"DISCORD_APP_ID":      &env.AppID,
		"DISCORD_GUILD_ID":    &env.GuildID,
		"API_URL":             &env.APIURL,
		"API_KEY":             &env.APIKey,
		"DISCORD_HEALTH_PORT": &env.HealthPort,
		"LOG_LEVEL":           &env.LogLevel,
		"LOG_FORMAT":          &env.LogFormat,
		"VERSION":             &env.Version,
		"ENVIRONMENT":         &env.Environment,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	env.LogLevel = strings.ToLower(env.LogLevel)
	env.LogFormat = strings.ToLower(env.LogFormat)

	if v, ok := lookup("DISCORD_FORCE_COMMAND_UPDATE"); ok && v != "" {
		force, err := strconv.ParseBool(v)
		if err != nil {
			return botEnv{}, fmt.Errorf("DISCORD_FORCE_COMMAND_UPDATE: %w", err)
		}
		env.ForceCommandUpdate = force
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string { return f.Tag.Get("env") })
	if err := v.Struct(env); err != nil {
		return botEnv{}, describe(err)
	}
	return env, nil
}

// describe names the offending variables instead of struct fields
func describe(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func (e botEnv) botConfig() discord.Config {
	return discord.Config{
		Token:   e.Token,
		AppID:   e.AppID,
		GuildID: e.GuildID,
		APIURL:  strings.TrimRight(e.APIURL, "/"),
		APIKey:  e.APIKey,
	}
}
