package output

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sambabib/depnotify/pkg/analyzer"
)

// SARIF format specification: https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html

// ToolVersion is reported in the SARIF driver section; set during build using ldflags
var ToolVersion = "dev"

// SarifReport represents the top-level SARIF report structure
type SarifReport struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SarifRun `json:"runs"`
}

// SarifRun represents a single run of the analysis tool
type SarifRun struct {
	Tool        SarifTool         `json:"tool"`
	Results     []SarifResult     `json:"results"`
	Invocations []SarifInvocation `json:"invocations"`
}

// SarifTool represents the tool that performed the analysis
type SarifTool struct {
	Driver SarifDriver `json:"driver"`
}

// SarifDriver represents the driver of the tool
type SarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SarifRule `json:"rules"`
}

// SarifRule represents a rule that was evaluated during the analysis
type SarifRule struct {
	ID               string       `json:"id"`
	ShortDescription SarifMessage `json:"shortDescription"`
	FullDescription  SarifMessage `json:"fullDescription"`
	Help             SarifMessage `json:"help"`
}

// SarifResult represents a result of the analysis
type SarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   SarifMessage    `json:"message"`
	Locations []SarifLocation `json:"locations"`
}

// SarifMessage represents a message in the SARIF report
type SarifMessage struct {
	Text string `json:"text"`
}

// SarifLocation represents a location in the code
type SarifLocation struct {
	PhysicalLocation SarifPhysicalLocation `json:"physicalLocation"`
}

// SarifPhysicalLocation represents a physical location in the code
type SarifPhysicalLocation struct {
	ArtifactLocation SarifArtifactLocation `json:"artifactLocation"`
}

// SarifArtifactLocation represents the location of an artifact
type SarifArtifactLocation struct {
	URI string `json:"uri"`
}

// SarifInvocation represents an invocation of the tool
type SarifInvocation struct {
	ExecutionSuccessful bool   `json:"executionSuccessful"`
	EndTimeUtc          string `json:"endTimeUtc"`
}

var sarifRules = []SarifRule{
	{
		ID:               "outdated-major",
		ShortDescription: SarifMessage{Text: "Major version update available"},
		FullDescription:  SarifMessage{Text: "A major version update is available for this dependency, which may include breaking changes."},
		Help:             SarifMessage{Text: "Consider updating with caution and review the changelog for breaking changes."},
	},
	{
		ID:               "outdated-minor",
		ShortDescription: SarifMessage{Text: "Minor version update available"},
		FullDescription:  SarifMessage{Text: "A minor version update is available for this dependency, which may include new features."},
		Help:             SarifMessage{Text: "Consider updating to get new features."},
	},
	{
		ID:               "outdated-patch",
		ShortDescription: SarifMessage{Text: "Patch update available"},
		FullDescription:  SarifMessage{Text: "A patch update is available for this dependency, which may include bug fixes."},
		Help:             SarifMessage{Text: "Consider updating to get bug fixes."},
	},
	{
		ID:               "outdated-unknown",
		ShortDescription: SarifMessage{Text: "Update available"},
		FullDescription:  SarifMessage{Text: "A newer version is available but its versioning scheme could not be compared."},
		Help:             SarifMessage{Text: "Review the release notes before updating."},
	},
}

// sarifLevel maps a configured severity to a SARIF level
func sarifLevel(severity string) string {
	switch severity {
	case "error":
		return "error"
	case "warning":
		return "warning"
	default:
		return "note"
	}
}

// GenerateSarifReport converts analyzer report items to SARIF format
func GenerateSarifReport(reports []analyzer.ReportItem, projectPath string) ([]byte, error) {
	return generateSarifReport(reports, projectPath, time.Now().UTC())
}

func generateSarifReport(reports []analyzer.ReportItem, projectPath string, now time.Time) ([]byte, error) {
	location := filepath.ToSlash(filepath.Join(projectPath, "pom.xml"))

	results := make([]SarifResult, 0, len(reports))
	for _, report := range reports {
		results = append(results, SarifResult{
			RuleID: "outdated-" + report.Kind,
			Level:  sarifLevel(report.Severity),
			Message: SarifMessage{
				Text: fmt.Sprintf("%s: current version %s, latest version %s",
					report.Name, report.CurrentVersion, report.LatestVersion),
			},
			Locations: []SarifLocation{
				{
					PhysicalLocation: SarifPhysicalLocation{
						ArtifactLocation: SarifArtifactLocation{URI: location},
					},
				},
			},
		})
	}

	sarifReport := SarifReport{
		Schema:  "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Version: "2.1.0",
		Runs: []SarifRun{
			{
				Tool: SarifTool{
					Driver: SarifDriver{
						Name:           "depnotify",
						Version:        ToolVersion,
						InformationURI: "https://github.com/sambabib/depnotify",
						Rules:          sarifRules,
					},
				},
				Results: results,
				Invocations: []SarifInvocation{
					{
						ExecutionSuccessful: true,
						EndTimeUtc:          now.Format(time.RFC3339),
					},
				},
			},
		},
	}

	return json.MarshalIndent(sarifReport, "", "  ")
}
