// Package pipeline wires the scan, parse and notify stages together.
//
// Scanning and parsing are fail-fast: any error there stops the run before a
// request is made. Notifying is fail-soft: its error is written as a single
// line to the run's sink and the run still succeeds.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sambabib/depnotify/pkg/analyzer"
	"github.com/sambabib/depnotify/pkg/config"
	"github.com/sambabib/depnotify/pkg/credentials"
	"github.com/sambabib/depnotify/pkg/logger"
	"github.com/sambabib/depnotify/pkg/metrics"
	"github.com/sambabib/depnotify/pkg/notifier"
)

// Options configures one run. Every run needs its own Sink.
type Options struct {
	ProjectDir    string
	Channel       string
	Workspace     string
	CredentialsID string

	// Sink receives at most one line: the notifier's failure message.
	Sink io.Writer

	Analyzer analyzer.Analyzer
	Store    credentials.Store
	Notifier notifier.Notifier
	Config   *config.Config
	Metrics  *metrics.Metrics

	// DryRun scans and formats but skips credentials and delivery.
	DryRun bool
}

// Report is what a run produced.
type Report struct {
	RunID      string
	ProjectDir string
	Result     *analyzer.ScanResult
	Payload    notifier.Payload
	Notified   bool

	// NotifyErr is the swallowed delivery error, if any.
	NotifyErr error
}

var oneLine = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Run scans opts.ProjectDir and posts the outdated dependencies.
func Run(ctx context.Context, opts Options) (*Report, error) {
	if opts.Analyzer == nil {
		return nil, errors.New("pipeline: analyzer is required")
	}
	if !opts.DryRun && (opts.Store == nil || opts.Notifier == nil) {
		return nil, errors.New("pipeline: credential store and notifier are required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	report := &Report{RunID: uuid.NewString(), ProjectDir: opts.ProjectDir}
	entry := logger.WithFields(log.Fields{"run": report.RunID, "project": opts.ProjectDir})

	started := time.Now()
	result, err := opts.Analyzer.Analyze(ctx, opts.ProjectDir)
	opts.Metrics.ObserveStage("scan", time.Since(started).Seconds())
	if err != nil {
		opts.Metrics.ScanFinished(metrics.ResultFailed)
		return nil, err
	}

	result = result.Without(func(u analyzer.DependencyUpdate) bool {
		return cfg.IsPackageIgnored(u.Name())
	})
	report.Result = result
	opts.Metrics.Outdated(opts.ProjectDir, result.Len())
	entry.Debugf("%d outdated dependencies", result.Len())

	report.Payload = notifier.NewPayload(opts.Channel, result)

	if opts.DryRun {
		opts.Metrics.ScanFinished(metrics.ResultDryRun)
		entry.Infof("dry run, not posting to %s", opts.Channel)
		return report, nil
	}

	secret, err := credentials.Resolve(ctx, opts.Store, opts.CredentialsID, credentials.ScopeURL(opts.Workspace))
	if err != nil {
		opts.Metrics.ScanFinished(metrics.ResultFailed)
		return nil, err
	}

	started = time.Now()
	err = opts.Notifier.Notify(ctx, report.Payload, secret)
	opts.Metrics.ObserveStage("notify", time.Since(started).Seconds())
	opts.Metrics.ScanFinished(metrics.ResultOK)

	if err != nil {
		opts.Metrics.Notified(metrics.ResultFailed)
		report.NotifyErr = err
		entry.Warnf("notification to %s failed", opts.Channel)
		if opts.Sink != nil {
			fmt.Fprintln(opts.Sink, oneLine.Replace(err.Error()))
		}
		return report, nil
	}

	opts.Metrics.Notified(metrics.ResultOK)
	report.Notified = true
	entry.Infof("posted %d outdated dependencies to %s", result.Len(), opts.Channel)
	return report, nil
}

// RunAll runs independent pipelines, at most parallel at a time. A failing
// run does not stop the others; reports come back in input order (nil for
// failed runs) and the errors are joined.
func RunAll(ctx context.Context, runs []Options, parallel int) ([]*Report, error) {
	if parallel < 1 {
		parallel = 1
	}
	reports := make([]*Report, len(runs))
	errs := make([]error, len(runs))

	var g errgroup.Group
	g.SetLimit(parallel)
	for i, opts := range runs {
		i, opts := i, opts
		g.Go(func() error {
			report, err := Run(ctx, opts)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", opts.ProjectDir, err)
				return nil
			}
			reports[i] = report
			return nil
		})
	}
	_ = g.Wait()
	return reports, errors.Join(errs...)
}
