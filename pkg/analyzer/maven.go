package analyzer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sambabib/depnotify/pkg/logger"
	"github.com/sambabib/depnotify/pkg/runner"
)

const defaultMavenExecutable = "mvn"

// MavenAnalyzer runs the versions plugin against a Maven project and parses
// what it prints.
type MavenAnalyzer struct {
	runner     runner.Runner
	executable string
	extraArgs  []string
}

// NewMavenAnalyzer creates a new Maven analyzer. An empty executable means "mvn".
func NewMavenAnalyzer(r runner.Runner, executable string, extraArgs ...string) *MavenAnalyzer {
	if executable == "" {
		executable = defaultMavenExecutable
	}
	return &MavenAnalyzer{
		runner:     r,
		executable: executable,
		extraArgs:  extraArgs,
	}
}

// Analyze runs the scan for the project rooted at projectPath
func (a *MavenAnalyzer) Analyze(ctx context.Context, projectPath string) (*ScanResult, error) {
	logger.Debugf("Starting Maven analysis for %s", projectPath)

	rootPom := filepath.Join(projectPath, "pom.xml")
	if _, err := os.Stat(rootPom); err != nil {
		return nil, fmt.Errorf("no pom.xml found in %s: %w", projectPath, err)
	}

	cmd := runner.MavenUpdatesCommand(a.executable, projectPath, a.extraArgs...)
	lines, err := a.runner.Run(ctx, cmd)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Maven: %d output lines from %s", len(lines), cmd.String())

	return ParseOutput(lines)
}

// ParseOutput extracts and parses raw versions-plugin output.
func ParseOutput(lines []string) (*ScanResult, error) {
	blocks := ExtractBlocks(lines)
	logger.Debugf("Maven: %d update blocks", len(blocks))
	return Parse(blocks)
}
