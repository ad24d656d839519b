package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

// requestValidator is built once; validator.Validate caches struct metadata
// and is safe for concurrent use.
var requestValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their JSON names so clients see what they sent
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return strings.ToLower(f.Name)
		}
		return name
	})

	_ = v.RegisterValidation("scope", func(fl validator.FieldLevel) bool {
		return domain.Scope(fl.Field().String()).Valid()
	})
	// Empty selects the user's default mode
	_ = v.RegisterValidation("gamemode", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseGameMode(fl.Field().String())
		return err == nil
	})
	return v
})

// ValidateRequest checks a decoded request body against its validate tags
func ValidateRequest(req any) error {
	return requestValidator().Struct(req)
}

var fieldMessages = map[string]func(validator.FieldError) string{
	"required":         func(validator.FieldError) string { return "This field is required" },
	"required_without": func(e validator.FieldError) string { return "Required unless " + strings.ToLower(e.Param()) + " is set" },
	"scope":            func(validator.FieldError) string { return "Unknown osu! scope" },
	"gamemode":         func(validator.FieldError) string { return "Unknown game mode" },
	"numeric":          func(validator.FieldError) string { return "Must be numeric" },
	"excludesall":      func(validator.FieldError) string { return "Contains invalid characters" },
	"max": func(e validator.FieldError) string {
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must have at most %s entries", e.Param())
		}
		return fmt.Sprintf("Must be at most %s characters", e.Param())
	},
	"min": func(e validator.FieldError) string {
		if e.Kind() == reflect.Slice {
			return fmt.Sprintf("Must have at least %s entries", e.Param())
		}
		return fmt.Sprintf("Must be at least %s characters", e.Param())
	},
}

// FieldErrors maps each invalid field to a client-facing message without
// exposing Go struct names.
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"error": "Invalid request format"}
	}

	fields := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		msg := "Invalid value"
		if format, ok := fieldMessages[e.Tag()]; ok {
			msg = format(e)
		}
		fields[e.Field()] = msg
	}
	return fields
}
