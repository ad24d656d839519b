package gate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/OsuLink_Go/internal/domain"
)

func TestLoadPolicy_MissingFileUsesDefaults(t *testing.T) {
	p, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)
}

func TestLoadPolicy_OverridesAndExtends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopes.yaml")
	content := `
operations:
  me: [identify, public]
  chat: [chat.write]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	p, err := LoadPolicy(path)
	require.NoError(t, err)

	me, err := p.Required(OperationMe)
	require.NoError(t, err)
	assert.Equal(t, []domain.Scope{domain.ScopeIdentify, domain.ScopePublic}, me)

	chat, err := p.Required("chat")
	require.NoError(t, err)
	assert.Equal(t, []domain.Scope{domain.ScopeChatWrite}, chat)

	friends, err := p.Required(OperationFriends)
	require.NoError(t, err)
	assert.Equal(t, []domain.Scope{domain.ScopeFriendsRead}, friends)
}

func TestLoadPolicy_RejectsUnknownScope(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operations:\n  me: [root]\n"), 0o600))

	_, err := LoadPolicy(path)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadPolicy_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operations: [unterminated"), 0o600))

	_, err := LoadPolicy(path)
	assert.Error(t, err)
}

func TestLoadPolicy_RejectsSchemaViolation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("operation:\n  me: [identify]\n"), 0o600))

	_, err := LoadPolicy(path)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), ErrMsgInvalidPolicy)
}

func TestLoadPolicy_BundledFile(t *testing.T) {
	p, err := LoadPolicy(filepath.Join("..", "..", "configs", "scopes.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy().Operations, p.Operations)
	assert.Equal(t, []string{OperationFriends, OperationMe, OperationUser, OperationUsers}, p.Names())
}
