package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depwarden/internal/app"
)

type acknowledgeOptions struct {
	Request     string
	CommandText string
	Manifests   []string
	BaseDir     string
	HeadDir     string
	StoreDir    string
	PolicyFile  string
}

func newAcknowledgeCommand() *cobra.Command {
	opts := acknowledgeOptions{}
	cmd := &cobra.Command{
		Use:   "acknowledge",
		Short: "Apply a human acknowledgment command to flagged dependencies",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAcknowledge(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Request, "request", "", "Review request identifier")
	cmd.Flags().StringVar(&opts.CommandText, "command-text", "", "Inbound comment text")
	cmd.Flags().StringSliceVar(&opts.Manifests, "manifest", nil, "Manifest path(s) relative to the revision roots")
	cmd.Flags().StringVar(&opts.BaseDir, "base-dir", "base", "Base revision root")
	cmd.Flags().StringVar(&opts.HeadDir, "head-dir", "head", "Head revision root")
	cmd.Flags().StringVar(&opts.StoreDir, "store", "", "Suppression store directory")
	cmd.Flags().StringVar(&opts.PolicyFile, "policy-file", "", "Risk policy YAML file")

	_ = viper.BindPFlag("request", cmd.Flags().Lookup("request"))
	_ = viper.BindPFlag("base_dir", cmd.Flags().Lookup("base-dir"))
	_ = viper.BindPFlag("head_dir", cmd.Flags().Lookup("head-dir"))
	_ = viper.BindPFlag("store", cmd.Flags().Lookup("store"))
	_ = viper.BindPFlag("policy_file", cmd.Flags().Lookup("policy-file"))

	return cmd
}

func runAcknowledge(ctx context.Context, cmd *cobra.Command, opts acknowledgeOptions) error {
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

	config := app.EngineConfig{
		PolicyFile: resolveString(cmd, opts.PolicyFile, "policy_file", "policy-file"),
	}
	service, err := app.NewService(ctx, config, store)
	if err != nil {
		return err
	}

	result, err := service.Acknowledge(ctx, app.AcknowledgeRequest{
		RequestID:   resolveString(cmd, opts.Request, "request", "request"),
		CommandText: opts.CommandText,
		Pairs:       pairs,
	})
	if err != nil {
		return err
	}
	if !result.Recognized {
		fmt.Println("command not recognized, ignoring")
		return nil
	}
	fmt.Printf("acknowledged %d flagged dependencies\n", len(result.Acknowledged))
	return nil
}
