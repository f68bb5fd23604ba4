package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depwarden/internal/adapters"
	"depwarden/internal/app"
)

type evaluateOptions struct {
	Request       string
	Manifests     []string
	BaseDir       string
	HeadDir       string
	StoreDir      string
	OutputDir     string
	EnableLabel   bool
	LabelName     string
	PolicyFile    string
	SignalTimeout int
	SignalRetries int
	LookupWorkers int
}

func newEvaluateCommand() *cobra.Command {
	opts := evaluateOptions{}
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate dependency changes and write the risk report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runEvaluate(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Request, "request", "", "Review request identifier")
	cmd.Flags().StringSliceVar(&opts.Manifests, "manifest", nil, "Manifest path(s) relative to the revision roots")
	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", "base", "Base revision root")
	cmd.Flags().StringVar(&opts.HeadDir, "head-dir", "head", "Head revision root")
	cmd.Flags().StringVar(&opts.StoreDir, "store", "", "Suppression store directory (empty = in-memory)")
	cmd.Flags().StringVar(&opts.OutputDir, "output", "out", "Output directory")
	cmd.Flags().BoolVar(&opts.EnableLabel, "label", false, "Emit label side-effect requests")
	cmd.Flags().StringVar(&opts.LabelName, "label-name", app.DefaultLabelName, "Label name")
	cmd.Flags().StringVar(&opts.PolicyFile, "policy-file", "", "Risk policy YAML file")
	cmd.Flags().IntVar(&opts.SignalTimeout, "signal-timeout-ms", app.DefaultSignalTimeoutMs, "Per-lookup timeout in milliseconds")
	cmd.Flags().IntVar(&opts.SignalRetries, "signal-retries", app.DefaultSignalRetries, "Transport retries per signal lookup (0 disables)")
	cmd.Flags().IntVar(&opts.LookupWorkers, "lookup-workers", app.DefaultLookupWorkers, "Concurrent signal lookups")

	_ = viper.BindPFlag("request", cmd.Flags().Lookup("request"))
	_ = viper.BindPFlag("base_dir", cmd.Flags().Lookup("base-dir"))
	_ = viper.BindPFlag("head_dir", cmd.Flags().Lookup("head-dir"))
	_ = viper.BindPFlag("store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("enable_label", cmd.Flags().Lookup("label"))
	_ = viper.BindPFlag("label_name", cmd.Flags().Lookup("label-name"))
	_ = viper.BindPFlag("policy_file", cmd.Flags().Lookup("policy-file"))
	_ = viper.BindPFlag("signal_timeout_ms", cmd.Flags().Lookup("signal-timeout-ms"))
	_ = viper.BindPFlag("signal_retries", cmd.Flags().Lookup("signal-retries"))
	_ = viper.BindPFlag("lookup_workers", cmd.Flags().Lookup("lookup-workers"))

	return cmd
}

func engineConfig(cmd *cobra.Command, opts evaluateOptions) app.EngineConfig {
	config := app.EngineConfig{
		EnableLabel:             resolveBool(cmd, opts.EnableLabel, "enable_label", "label"),
		LabelName:               resolveString(cmd, opts.LabelName, "label_name", "label-name"),
		FreshPublishWindowHours: viper.GetFloat64("fresh_publish_window_hours"),
		HealthScoreFloor:        viper.GetFloat64("health_score_floor"),
		SignalTimeoutMs:         resolveInt(cmd, opts.SignalTimeout, "signal_timeout_ms", "signal-timeout-ms"),
		LookupWorkers:           resolveInt(cmd, opts.LookupWorkers, "lookup_workers", "lookup-workers"),
		PolicyFile:              resolveString(cmd, opts.PolicyFile, "policy_file", "policy-file"),
	}
	// Only an explicitly provided value is carried; zero means no retries,
	// unset keeps the engine default.
	if cmd.Flags().Changed("signal-retries") || viper.IsSet("signal_retries") {
		retries := resolveInt(cmd, opts.SignalRetries, "signal_retries", "signal-retries")
		config.SignalRetries = &retries
	}
	return config
}

func runEvaluate(ctx context.Context, cmd *cobra.Command, opts evaluateOptions) error {
	pairs, err := loadPairs(opts.Manifests,
		resolveString(cmd, opts.BaseDir, "base_dir", "base-dir"),
		resolveString(cmd, opts.HeadDir, "head_dir", "head-dir"))
	if err != nil {
		return err
	}

	store, err := openStore(resolveString(cmd, opts.StoreDir, "store", "store"))
	if err != nil {
		return err
	}
	defer store.Close()

	service, err := app.NewService(ctx, engineConfig(cmd, opts), store)
	if err != nil {
		return err
	}

	report, err := service.Evaluate(ctx, app.EvaluateRequest{
		RequestID: resolveString(cmd, opts.Request, "request", "request"),
		Pairs:     pairs,
	})
	if err != nil {
		return err
	}

	writer := adapters.NewReportFileAdapter(resolveString(cmd, opts.OutputDir, "output", "output"))
	if err := writer.WriteReport(report); err != nil {
		return err
	}
	if err := writer.WriteComment(report); err != nil {
		return err
	}

	fmt.Printf("evaluated %s: %d verdicts, unsuppressed flags: %v\n",
		report.RequestID, len(report.Verdicts), report.HasUnsuppressedFlags)
	return nil
}
