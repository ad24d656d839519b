package discord

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPingCommand(t *testing.T) {
	_, handle := PingCommand()

	t.Run("reports a reachable link server", func(t *testing.T) {
		ctx := SetupTestContext(t)
		ctx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
			WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		handle(ctx.Session, newInteraction("ping", "42", nil), ctx.APIClient)

		embed := ctx.LastEmbed()
		require.NotNil(t, embed)
		assert.Equal(t, ColorSuccess, embed.Color)
		require.Len(t, embed.Fields, 2)
		assert.Equal(t, "✅ Reachable", embed.Fields[1].Value)
	})

	t.Run("flags an unreachable link server", func(t *testing.T) {
		ctx := SetupTestContext(t)

		handle(ctx.Session, newInteraction("ping", "42", nil), ctx.APIClient)

		embed := ctx.LastEmbed()
		require.NotNil(t, embed)
		assert.Equal(t, ColorWarning, embed.Color)
		assert.Equal(t, "❌ Unreachable", embed.Fields[1].Value)
	})
}
