package discord

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getHealth(t *testing.T, srv *HTTPServer) (int, HealthStatus) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	return rec.Code, health
}

func TestHandleHealth_Disconnected(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// The session never opened a gateway connection
	code, health := getHealth(t, NewHTTPServer("0", &Bot{Session: ctx.Session, Client: ctx.APIClient}))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", health.Status)
	assert.False(t, health.Connected)
	assert.True(t, health.APIReachable)
	assert.Nil(t, health.LastCommandTime)
}

func TestHandleHealth_LinkServerDown(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	bot := &Bot{Session: ctx.Session, Client: ctx.APIClient}
	bot.ready(ctx.Session, &discordgo.Ready{User: &discordgo.User{Username: "osulink"}})

	code, health := getHealth(t, NewHTTPServer("0", bot))
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.True(t, health.Connected)
	assert.False(t, health.APIReachable)
}

func TestHandleHealth_ConnectedBot(t *testing.T) {
	ctx := SetupTestContext(t)
	ctx.Mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	registry := NewCommandRegistry()
	registry.Register(&discordgo.ApplicationCommand{Name: "noop"}, func(*discordgo.Session, *discordgo.InteractionCreate, *APIClient) {})
	registry.Handle(ctx.Session, newInteraction("noop", "42", nil), ctx.APIClient)

	bot := &Bot{Session: ctx.Session, Client: ctx.APIClient, Registry: registry}
	bot.ready(ctx.Session, &discordgo.Ready{User: &discordgo.User{Username: "osulink"}})
	require.True(t, bot.Connected())

	srv := NewHTTPServer("0", bot)
	code, health := getHealth(t, srv)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", health.Status)
	assert.Equal(t, int64(1), health.CommandsReceived)
	assert.NotNil(t, health.LastCommandTime)

	bot.disconnect(ctx.Session, &discordgo.Disconnect{})
	assert.False(t, bot.Connected())

	bot.resumed(ctx.Session, &discordgo.Resumed{})
	assert.True(t, bot.Connected())
}

func TestHTTPServer_Metrics(t *testing.T) {
	srv := NewHTTPServer("0", &Bot{})
	rec := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
