package gate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/osse101/OsuLink_Go/internal/domain"
	"github.com/osse101/OsuLink_Go/internal/validation"
)

// Policy maps named operations to the scopes they require
type Policy struct {
	Operations map[string][]domain.Scope `yaml:"operations"`
}

// DefaultPolicy covers the osu! API calls this service makes
func DefaultPolicy() *Policy {
	return &Policy{
		Operations: map[string][]domain.Scope{
			OperationMe:      {domain.ScopeIdentify},
			OperationUser:    {domain.ScopePublic},
			OperationUsers:   {domain.ScopePublic},
			OperationFriends: {domain.ScopeFriendsRead},
		},
	}
}

// LoadPolicy reads a YAML policy. A missing file yields DefaultPolicy;
// operations in the file override or extend the defaults.
func LoadPolicy(path string) (*Policy, error) {
	policy := DefaultPolicy()
	if path == "" {
		return policy, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Info(LogMsgPolicyDefaults, LogKeyPath, path)
			return policy, nil
		}
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadPolicy, path, err)
	}

	if err := validation.NewSchemaValidator().ValidateYAML(data, validation.SchemaScopePolicy); err != nil {
		if errors.Is(err, validation.ErrSchemaViolation) {
			return nil, fmt.Errorf("%w: %s %s: %v", domain.ErrInvalidInput, ErrMsgInvalidPolicy, path, err)
		}
		return nil, fmt.Errorf("%s %s: %w", ErrMsgParsePolicy, path, err)
	}

	var file Policy
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgParsePolicy, path, err)
	}

	for op, scopes := range file.Operations {
		for _, s := range scopes {
			if !s.Valid() {
				return nil, fmt.Errorf("%w: %s: %q for operation %q", domain.ErrInvalidInput, ErrMsgUnknownScope, s, op)
			}
		}
		policy.Operations[op] = scopes
	}

	slog.Info(LogMsgPolicyLoaded, LogKeyPath, path, LogKeyOperations, policy.Names())
	return policy, nil
}

// Required returns the scopes an operation needs
func (p *Policy) Required(operation string) ([]domain.Scope, error) {
	scopes, ok := p.Operations[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", domain.ErrInvalidInput, ErrMsgUnknownOperation, operation)
	}
	return scopes, nil
}

// Names lists configured operations in sorted order
func (p *Policy) Names() []string {
	names := make([]string, 0, len(p.Operations))
	for op := range p.Operations {
		names = append(names, op)
	}
	sort.Strings(names)
	return names
}
