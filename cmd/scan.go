package cmd

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sambabib/depnotify/pkg/analyzer"
	"github.com/sambabib/depnotify/pkg/config"
	"github.com/sambabib/depnotify/pkg/credentials"
	"github.com/sambabib/depnotify/pkg/logger"
	"github.com/sambabib/depnotify/pkg/metrics"
	"github.com/sambabib/depnotify/pkg/notifier"
	"github.com/sambabib/depnotify/pkg/output"
	"github.com/sambabib/depnotify/pkg/pipeline"
	"github.com/sambabib/depnotify/pkg/runner"
)

// newNotifier is swapped in tests to point at a local endpoint
var newNotifier = func(workspace string, timeout time.Duration) notifier.Notifier {
	return notifier.NewSlack(workspace, timeout)
}

// scanCmd represents the scan subcommand
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	v := viper.New()

	c := &cobra.Command{
		Use:   "scan [project paths...]",
		Short: "Scan Maven projects and post outdated dependencies to Slack",
		Long: `Runs "mvn versions:display-dependency-updates" for every project path (default: current directory),
parses the reported updates and posts them to the configured Slack channel.

Flags can also be set through DEPNOTIFY_* environment variables, e.g. DEPNOTIFY_CHANNEL.`,
		SilenceUsage: true,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return v.BindPFlags(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, v, args)
		},
	}

	f := c.Flags()
	f.String("channel", "", "Slack channel to post to")
	f.String("workspace", "", "Slack workspace (the part before .slack.com)")
	f.String("credentials-id", "", "Identifier of the bot token in the credential store")
	f.String("credentials-file", "", "YAML file with bot tokens")
	f.String("mvn", "", "Maven executable (default mvn)")
	f.Duration("timeout", 0, "Deadline for each Maven run (default 10m)")
	f.Duration("http-timeout", 0, "Deadline for the Slack request (default 30s)")
	f.StringP("format", "f", "", "Local report format: text, json or sarif")
	f.Int("parallel", 1, "Projects scanned at the same time")
	f.String("pushgateway", "", "Prometheus Pushgateway URL for run metrics")
	f.Bool("dry-run", false, "Scan and print, but do not post to Slack")

	v.SetEnvPrefix("DEPNOTIFY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return c
}

// loadConfig reads the YAML config and lets flags and env override it
func loadConfig(v *viper.Viper, projectPath string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.FindAndLoadConfig(projectPath)
	}
	if err != nil {
		return nil, err
	}

	overrideString(v, "channel", &cfg.Slack.Channel)
	overrideString(v, "workspace", &cfg.Slack.Workspace)
	overrideString(v, "credentials-id", &cfg.Slack.CredentialsID)
	overrideString(v, "credentials-file", &cfg.Credentials.File)
	overrideString(v, "mvn", &cfg.Maven.Executable)
	overrideString(v, "format", &cfg.Output.Format)
	overrideString(v, "pushgateway", &cfg.Metrics.PushGateway)
	if v.IsSet("timeout") && v.GetDuration("timeout") > 0 {
		cfg.Timeouts.Command = v.GetDuration("timeout")
	}
	if v.IsSet("http-timeout") && v.GetDuration("http-timeout") > 0 {
		cfg.Timeouts.HTTP = v.GetDuration("http-timeout")
	}
	return cfg, nil
}

func overrideString(v *viper.Viper, key string, dst *string) {
	if v.IsSet(key) && v.GetString(key) != "" {
		*dst = v.GetString(key)
	}
}

func credentialStore(cfg *config.Config) (credentials.Store, error) {
	chain := credentials.Chain{credentials.EnvStore{Prefix: cfg.Credentials.EnvPrefix}}
	if cfg.Credentials.File != "" {
		fileStore, err := credentials.LoadFile(cfg.Credentials.File)
		if err != nil {
			return nil, err
		}
		chain = append(chain, fileStore)
	}
	return chain, nil
}

// projectConfig loads and validates the configuration of one project. A
// .depnotify.yaml is looked up from each project path, so projects scanned
// together may use different ignore lists and Maven arguments.
func projectConfig(v *viper.Viper, path string, dryRun bool) (*config.Config, error) {
	cfg, err := loadConfig(v, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(!dryRun); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if id := cfg.Slack.CredentialsID; strings.HasPrefix(id, "${") && strings.HasSuffix(id, "}") {
		logger.Warnf("credentials id %s looks like an unexpanded expression", id)
	}
	return cfg, nil
}

func runScan(cmd *cobra.Command, v *viper.Viper, paths []string) error {
	if len(paths) == 0 {
		paths = []string{"."}
	}
	dryRun := v.GetBool("dry-run")

	m := metrics.New()
	cfgs := make([]*config.Config, len(paths))
	sinks := make([]*bytes.Buffer, len(paths))
	runs := make([]pipeline.Options, len(paths))
	for i, path := range paths {
		cfg, err := projectConfig(v, path, dryRun)
		if err != nil {
			return err
		}

		var store credentials.Store
		if !dryRun {
			if store, err = credentialStore(cfg); err != nil {
				return err
			}
		}

		cfgs[i] = cfg
		sinks[i] = &bytes.Buffer{}
		runs[i] = pipeline.Options{
			ProjectDir:    path,
			Channel:       cfg.Slack.Channel,
			Workspace:     cfg.Slack.Workspace,
			CredentialsID: cfg.Slack.CredentialsID,
			Sink:          sinks[i],
			Analyzer:      analyzer.NewMavenAnalyzer(runner.NewExec(cfg.Timeouts.Command), cfg.Maven.Executable, cfg.Maven.ExtraArgs...),
			Store:         store,
			Notifier:      newNotifier(cfg.Slack.Workspace, cfg.Timeouts.HTTP),
			Config:        cfg,
			Metrics:       m,
			DryRun:        dryRun,
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	reports, runErr := pipeline.RunAll(ctx, runs, v.GetInt("parallel"))

	for i, report := range reports {
		if sinks[i].Len() > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s", paths[i], sinks[i].String())
		}
		if report == nil {
			continue
		}
		items := analyzer.Report(report.Result, cfgs[i].GetSeverityForUpdate)
		if err := output.Write(cmd.OutOrStdout(), cfgs[i].Output.Format, items, report.ProjectDir); err != nil {
			return err
		}
	}

	// metrics go wherever the first project's config points
	if gateway := cfgs[0].Metrics.PushGateway; gateway != "" {
		if err := m.Push(ctx, gateway, cfgs[0].Metrics.Job); err != nil {
			logger.Warnf("%v", err)
		}
	}

	return runErr
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
