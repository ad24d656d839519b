package discord

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

// MockRoundTripper implements http.RoundTripper for intercepting Discord calls
type MockRoundTripper struct {
	RoundTripFunc func(req *http.Request) (*http.Response, error)
}

func (m *MockRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	return m.RoundTripFunc(req)
}

// TestContext wires a fake backend API and a Discord session whose REST
// calls are captured instead of sent.
type TestContext struct {
	Server    *httptest.Server
	Mux       *http.ServeMux
	APIClient *APIClient
	Session   *discordgo.Session

	mu    sync.Mutex
	edits []discordgo.WebhookEdit
}

func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	client := NewAPIClient(server.URL, "test-api-key")
	client.RetryDelay = time.Millisecond

	session, err := discordgo.New("Bot test-token")
	require.NoError(t, err)

	ctx := &TestContext{
		Server:    server,
		Mux:       mux,
		APIClient: client,
		Session:   session,
	}
	session.Client = &http.Client{Transport: &MockRoundTripper{RoundTripFunc: ctx.discordRoundTrip}}
	return ctx
}

func (c *TestContext) discordRoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method == http.MethodPatch {
		var edit discordgo.WebhookEdit
		if err := json.NewDecoder(req.Body).Decode(&edit); err == nil {
			c.mu.Lock()
			c.edits = append(c.edits, edit)
			c.mu.Unlock()
		}
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(bytes.NewBufferString("{}")),
		Header:     make(http.Header),
	}, nil
}

// Edits returns every response edit sent so far
func (c *TestContext) Edits() []discordgo.WebhookEdit {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]discordgo.WebhookEdit(nil), c.edits...)
}

// LastEmbed returns the embed of the most recent edit, or nil
func (c *TestContext) LastEmbed() *discordgo.MessageEmbed {
	edits := c.Edits()
	if len(edits) == 0 {
		return nil
	}
	last := edits[len(edits)-1]
	if last.Embeds == nil || len(*last.Embeds) == 0 {
		return nil
	}
	return (*last.Embeds)[0]
}

// LastContent returns the plain content of the most recent edit
func (c *TestContext) LastContent() string {
	edits := c.Edits()
	if len(edits) == 0 || edits[len(edits)-1].Content == nil {
		return ""
	}
	return *edits[len(edits)-1].Content
}

func newInteraction(name, userID string, options map[string]string) *discordgo.InteractionCreate {
	var opts []*discordgo.ApplicationCommandInteractionDataOption
	for k, v := range options {
		opts = append(opts, &discordgo.ApplicationCommandInteractionDataOption{
			Name:  k,
			Type:  discordgo.ApplicationCommandOptionString,
			Value: v,
		})
	}
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			AppID: "app",
			Token: "interaction-token",
			Type:  discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{
				Name:    name,
				Options: opts,
			},
			Member: &discordgo.Member{
				User: &discordgo.User{ID: userID, Username: "Tester"},
			},
		},
	}
}

func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
