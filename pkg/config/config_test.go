package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "mvn", c.Maven.Executable)
	assert.Equal(t, 10*time.Minute, c.Timeouts.Command)
	assert.Equal(t, 30*time.Second, c.Timeouts.HTTP)
	assert.Equal(t, "text", c.Output.Format)
	assert.Equal(t, "error", c.GetSeverityForUpdate("major"))
	assert.Equal(t, "warning", c.GetSeverityForUpdate("minor"))
	assert.Equal(t, "info", c.GetSeverityForUpdate("patch"))
	assert.Equal(t, "info", c.GetSeverityForUpdate("unknown"))
}

func TestLoadConfig_MissingFileReturnsDefaults(t *testing.T) {
	c, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	content := `slack:
  workspace: acme
  channel: "#deps"
  credentialsId: slack-bot
maven:
  executable: ./mvnw
  extraArgs: ["-B"]
timeouts:
  command: 2m
ignorePackages:
  - junit:junit
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", c.Slack.Workspace)
	assert.Equal(t, "#deps", c.Slack.Channel)
	assert.Equal(t, "slack-bot", c.Slack.CredentialsID)
	assert.Equal(t, "./mvnw", c.Maven.Executable)
	assert.Equal(t, []string{"-B"}, c.Maven.ExtraArgs)
	assert.Equal(t, 2*time.Minute, c.Timeouts.Command)
	// untouched keys keep their defaults
	assert.Equal(t, 30*time.Second, c.Timeouts.HTTP)
	assert.True(t, c.IsPackageIgnored("junit:junit"))
	assert.False(t, c.IsPackageIgnored("org.slf4j:slf4j-api"))
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("slack: [unterminated"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing config file")
}

func TestFindAndLoadConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "service", "module")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, FileName), []byte("slack:\n  channel: \"#build\"\n"), 0644))

	c, err := FindAndLoadConfig(nested)
	require.NoError(t, err)
	assert.Equal(t, "#build", c.Slack.Channel)
}

func TestValidate(t *testing.T) {
	c := DefaultConfig()
	assert.ErrorContains(t, c.Validate(true), "channel")

	c.Slack.Channel = "#ci"
	assert.ErrorContains(t, c.Validate(true), "too short")

	c.Slack.Channel = "#deps"
	assert.ErrorContains(t, c.Validate(true), "workspace")

	c.Slack.Workspace = "acme"
	assert.ErrorContains(t, c.Validate(true), "credentials id")
	assert.NoError(t, c.Validate(false))

	c.Slack.CredentialsID = "slack-bot"
	assert.NoError(t, c.Validate(true))
}
