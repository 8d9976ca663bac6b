package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the project directory and its parents
const FileName = ".depnotify.yaml"

// Config represents the configuration for the dependency notifier
type Config struct {
	// Slack destination
	Slack struct {
		Workspace     string `yaml:"workspace"`     // subdomain before .slack.com
		Channel       string `yaml:"channel"`       // e.g. #deps
		CredentialsID string `yaml:"credentialsId"` // identifier resolved through the credential store
	} `yaml:"slack"`

	// Maven invocation
	Maven struct {
		Executable string   `yaml:"executable"` // Default: mvn
		ExtraArgs  []string `yaml:"extraArgs"`
	} `yaml:"maven"`

	// Timeouts for the child process and the HTTP call
	Timeouts struct {
		Command time.Duration `yaml:"command"` // Default: 10m
		HTTP    time.Duration `yaml:"http"`    // Default: 30s
	} `yaml:"timeouts"`

	// Where bot tokens come from
	Credentials struct {
		File      string `yaml:"file"`      // YAML credentials file, optional
		EnvPrefix string `yaml:"envPrefix"` // Default: DEPNOTIFY_SECRET
	} `yaml:"credentials"`

	// Severity thresholds for reporting
	Severity struct {
		Major string `yaml:"major"` // Default: error
		Minor string `yaml:"minor"` // Default: warning
		Patch string `yaml:"patch"` // Default: info
	} `yaml:"severity"`

	// Output configuration
	Output struct {
		Format string `yaml:"format"` // text, json, sarif
		File   string `yaml:"file"`   // Output file path (stdout if empty)
	} `yaml:"output"`

	// Batch-job metrics
	Metrics struct {
		PushGateway string `yaml:"pushGateway"`
		Job         string `yaml:"job"` // Default: depnotify
	} `yaml:"metrics"`

	// Ignore specific packages, matched against groupId:artifactId
	IgnorePackages []string `yaml:"ignorePackages"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	config := &Config{}

	config.Maven.Executable = "mvn"

	config.Timeouts.Command = 10 * time.Minute
	config.Timeouts.HTTP = 30 * time.Second

	config.Credentials.EnvPrefix = "DEPNOTIFY_SECRET"

	// Set default severity levels
	config.Severity.Major = "error"
	config.Severity.Minor = "warning"
	config.Severity.Patch = "info"

	// Set default output format
	config.Output.Format = "text"

	config.Metrics.Job = "depnotify"

	return config
}

// LoadConfig loads the configuration from the specified file path
// If no path is provided, it looks for .depnotify.yaml in the current directory
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		configPath = FileName
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, return default config
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return config, nil
}

// FindAndLoadConfig searches for a config file in the project directory and its parents
func FindAndLoadConfig(projectPath string) (*Config, error) {
	currentDir, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, fmt.Errorf("error resolving %s: %w", projectPath, err)
	}

	for {
		configPath := filepath.Join(currentDir, FileName)
		if _, err := os.Stat(configPath); err == nil {
			return LoadConfig(configPath)
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached the root directory, no config file found
			break
		}
		currentDir = parentDir
	}

	return DefaultConfig(), nil
}

// IsPackageIgnored checks if a package should be ignored based on the configuration
func (c *Config) IsPackageIgnored(packageName string) bool {
	for _, ignoredPackage := range c.IgnorePackages {
		if ignoredPackage == packageName {
			return true
		}
	}
	return false
}

// GetSeverityForUpdate returns the configured severity level for the given update type
func (c *Config) GetSeverityForUpdate(updateType string) string {
	switch updateType {
	case "major":
		return c.Severity.Major
	case "minor":
		return c.Severity.Minor
	case "patch":
		return c.Severity.Patch
	default:
		return "info"
	}
}

// minChannelLength rejects obvious typos such as "#a"
const minChannelLength = 4

// Validate reports missing Slack settings. Credentials are only required
// when a message will actually be sent.
func (c *Config) Validate(requireCredentials bool) error {
	if c.Slack.Channel == "" {
		return fmt.Errorf("slack channel must be set")
	}
	if len(c.Slack.Channel) < minChannelLength {
		return fmt.Errorf("slack channel %q is too short (at least %d characters)", c.Slack.Channel, minChannelLength)
	}
	if c.Slack.Workspace == "" {
		return fmt.Errorf("slack workspace must be set (the part before .slack.com)")
	}
	if requireCredentials && c.Slack.CredentialsID == "" {
		return fmt.Errorf("credentials id must be set")
	}
	if c.Maven.Executable == "" {
		return fmt.Errorf("maven executable must be set")
	}
	return nil
}
