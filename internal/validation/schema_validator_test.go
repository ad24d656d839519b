package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAML_ScopePolicy(t *testing.T) {
	v := NewSchemaValidator()

	tests := []struct {
		name     string
		data     string
		wantErr  bool
		contains []string
	}{
		{
			name: "valid policy",
			data: "operations:\n  me: [identify]\n  friends: [friends.read, public]\n",
		},
		{
			name: "empty document",
			data: "",
		},
		{
			name: "operations only",
			data: "operations: {}\n",
		},
		{
			name:     "unknown top level key",
			data:     "operation:\n  me: [identify]\n",
			wantErr:  true,
			contains: []string{"(root)", "additionalProperties"},
		},
		{
			name:     "scalar instead of list",
			data:     "operations:\n  me: identify\n",
			wantErr:  true,
			contains: []string{"/operations/me", "type"},
		},
		{
			name:     "malformed scope",
			data:     "operations:\n  me: [\"Identify Me\"]\n",
			wantErr:  true,
			contains: []string{"/operations/me/0", "pattern"},
		},
		{
			name:     "duplicate scopes",
			data:     "operations:\n  me: [identify, identify]\n",
			wantErr:  true,
			contains: []string{"/operations/me", "uniqueItems"},
		},
		{
			name:     "bad operation name",
			data:     "operations:\n  Me-Op: [identify]\n",
			wantErr:  true,
			contains: []string{"/operations"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateYAML([]byte(tt.data), SchemaScopePolicy)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchemaViolation)
			for _, s := range tt.contains {
				assert.Contains(t, err.Error(), s)
			}
		})
	}
}

func TestValidateYAML_Unparseable(t *testing.T) {
	err := NewSchemaValidator().ValidateYAML([]byte("operations: [unterminated"), SchemaScopePolicy)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSchemaViolation)
}

func TestValidateJSON(t *testing.T) {
	v := NewSchemaValidator()

	assert.NoError(t, v.ValidateJSON([]byte(`{"operations":{"me":["identify"]}}`), SchemaScopePolicy))

	err := v.ValidateJSON([]byte(`{"operations":{"me":[1]}}`), SchemaScopePolicy)
	assert.ErrorIs(t, err, ErrSchemaViolation)

	err = v.ValidateJSON([]byte(`{not json`), SchemaScopePolicy)
	assert.Error(t, err)
}

func TestUnknownSchema(t *testing.T) {
	err := NewSchemaValidator().ValidateJSON([]byte(`{}`), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown schema")
}

func TestSchemaCached(t *testing.T) {
	v := NewSchemaValidator().(*validator)
	require.NoError(t, v.ValidateJSON([]byte(`{}`), SchemaScopePolicy))
	first := v.schemas[SchemaScopePolicy]
	require.NoError(t, v.ValidateJSON([]byte(`{}`), SchemaScopePolicy))
	assert.Same(t, first, v.schemas[SchemaScopePolicy])
}
