package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Schema names bundled with the binary
const (
	SchemaScopePolicy = "scope_policy"
)

// ErrSchemaViolation is wrapped by every validation failure
var ErrSchemaViolation = errors.New("schema validation failed")

// SchemaValidator validates documents against the bundled JSON schemas
type SchemaValidator interface {
	ValidateJSON(data []byte, schema string) error
	ValidateYAML(data []byte, schema string) error
}

type validator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
	printer  *message.Printer
}

// NewSchemaValidator creates a validator that compiles schemas on first use
func NewSchemaValidator() SchemaValidator {
	return &validator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
		printer:  message.NewPrinter(language.English),
	}
}

func (v *validator) ValidateJSON(data []byte, schema string) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}
	return v.validate(doc, schema)
}

// ValidateYAML decodes YAML and validates it as its JSON equivalent. An
// empty document validates as an empty object.
func (v *validator) ValidateYAML(data []byte, schema string) error {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse YAML data: %w", err)
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}

	// round trip through JSON so numbers and maps take the shapes the
	// validator expects
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to convert YAML data: %w", err)
	}
	return v.ValidateJSON(encoded, schema)
}

func (v *validator) validate(doc interface{}, name string) error {
	schema, err := v.loadSchema(name)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	if err := schema.Validate(doc); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// loadSchema compiles a bundled schema, caching the result
func (v *validator) loadSchema(name string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if schema, ok := v.schemas[name]; ok {
		return schema, nil
	}

	resource := name + ".json"
	raw, err := schemaFS.ReadFile(path.Join("schemas", resource))
	if err != nil {
		return nil, fmt.Errorf("unknown schema %q: %w", name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}
	if err := v.compiler.AddResource(resource, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := v.compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	v.schemas[name] = schema
	return schema, nil
}

func (v *validator) formatValidationError(err error) error {
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	var problems []string
	v.collectErrors(validationErr, &problems)
	return fmt.Errorf("%w:\n%s", ErrSchemaViolation, strings.Join(problems, "\n"))
}

// collectErrors keeps leaf errors; parents only say a subschema failed
func (v *validator) collectErrors(err *jsonschema.ValidationError, problems *[]string) {
	if len(err.Causes) == 0 {
		*problems = append(*problems, v.formatError(err))
		return
	}
	for _, cause := range err.Causes {
		v.collectErrors(cause, problems)
	}
}

func (v *validator) formatError(err *jsonschema.ValidationError) string {
	location := "(root)"
	if len(err.InstanceLocation) > 0 {
		location = "/" + strings.Join(err.InstanceLocation, "/")
	}
	if err.ErrorKind == nil {
		return fmt.Sprintf("  - at %s: validation failed", location)
	}

	keyword := strings.Join(err.ErrorKind.KeywordPath(), ".")
	detail := err.ErrorKind.LocalizedString(v.printer)
	if keyword == "" {
		return fmt.Sprintf("  - at %s: %s", location, detail)
	}
	return fmt.Sprintf("  - at %s: %s: %s", location, keyword, detail)
}
