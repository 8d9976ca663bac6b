package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecret_NeverPrints(t *testing.T) {
	s := Secret("xoxb-123")
	assert.Equal(t, "[redacted]", s.String())
	assert.Equal(t, "[redacted]", fmt.Sprintf("%v", s))
	assert.Equal(t, "[redacted]", fmt.Sprintf("%s", s))
	assert.Equal(t, "[redacted]", fmt.Sprintf("%#v", s))
	assert.Equal(t, "xoxb-123", s.Reveal())
}

func TestScopeURL(t *testing.T) {
	assert.Equal(t, "https://acme.slack.com", ScopeURL("acme"))
}

func TestEnvStore(t *testing.T) {
	store := EnvStore{Prefix: "DEPNOTIFY_SECRET"}
	assert.Equal(t, "DEPNOTIFY_SECRET_SLACK_BOT_1", store.VarName("slack-bot.1"))

	t.Setenv("DEPNOTIFY_SECRET_SLACK_BOT", "xoxb-env")
	secret, ok, err := store.Lookup(context.Background(), "slack-bot", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "xoxb-env", secret.Reveal())

	_, ok, err = store.Lookup(context.Background(), "missing", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.yaml")
	content := `credentials:
  - id: slack-bot
    secret: xoxb-any
  - id: slack-bot
    scope: https://acme.slack.com
    secret: xoxb-acme
  - id: empty
    secret: ""
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := LoadFile(path)
	require.NoError(t, err)

	secret, ok, err := store.Lookup(context.Background(), "slack-bot", "https://acme.slack.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "xoxb-acme", secret.Reveal())

	secret, ok, _ = store.Lookup(context.Background(), "slack-bot", "https://other.slack.com")
	require.True(t, ok)
	assert.Equal(t, "xoxb-any", secret.Reveal())

	_, ok, _ = store.Lookup(context.Background(), "empty", "https://acme.slack.com")
	assert.False(t, ok)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "error reading credentials file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("credentials: {"), 0600))
	_, err = LoadFile(path)
	assert.ErrorContains(t, err, "error parsing credentials file")
}

type failingStore struct{}

func (failingStore) Lookup(context.Context, string, string) (Secret, bool, error) {
	return "", false, errors.New("vault sealed")
}

func TestChain(t *testing.T) {
	chain := Chain{Static{}, Static{"slack-bot": "xoxb-second"}}
	secret, ok, err := chain.Lookup(context.Background(), "slack-bot", "")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "xoxb-second", secret.Reveal())

	_, _, err = Chain{failingStore{}, Static{"slack-bot": "x"}}.Lookup(context.Background(), "slack-bot", "")
	assert.ErrorContains(t, err, "vault sealed")
}

func TestResolve(t *testing.T) {
	secret, err := Resolve(context.Background(), Static{"slack-bot": "xoxb"}, "slack-bot", "https://acme.slack.com")
	require.NoError(t, err)
	assert.Equal(t, Secret("xoxb"), secret)

	_, err = Resolve(context.Background(), Static{}, "slack-bot", "https://acme.slack.com")
	var notFound *NotFound
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "slack-bot", notFound.ID)
	assert.Equal(t, "https://acme.slack.com", notFound.Scope)

	_, err = Resolve(context.Background(), failingStore{}, "slack-bot", "")
	assert.ErrorContains(t, err, "vault sealed")
	assert.False(t, errors.As(err, &notFound))
}
