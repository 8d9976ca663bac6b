package analyzer

import "context"

// ReportItem represents the status of a single outdated dependency
type ReportItem struct {
	Name           string `json:"name"`            // groupId:artifactId
	CurrentVersion string `json:"current_version"` // version declared in the project
	LatestVersion  string `json:"latest_version"`  // newer version reported by the versions plugin
	Kind           string `json:"kind"`            // major, minor, patch or unknown
	Severity       string `json:"severity"`        // e.g. "info", "warning", "error"
}

// Analyzer defines the interface for dependency analyzers
type Analyzer interface {
	// Analyze scans the given project path and returns its outdated dependencies
	Analyze(ctx context.Context, path string) (*ScanResult, error)
}

// Report flattens a scan result into report items. severity maps an update
// kind to a severity level; nil means every item is "info".
func Report(result *ScanResult, severity func(kind string) string) []ReportItem {
	items := make([]ReportItem, 0, result.Len())
	for _, u := range result.Updates() {
		kind := u.Kind()
		sev := "info"
		if severity != nil {
			sev = severity(kind)
		}
		items = append(items, ReportItem{
			Name:           u.Name(),
			CurrentVersion: u.Current(),
			LatestVersion:  u.Available(),
			Kind:           kind,
			Severity:       sev,
		})
	}
	return items
}
