package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"depwarden/internal/app"
)

type inspectOptions struct {
	File string
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Parse one manifest and print the extracted snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.File, "file", "", "Manifest file path")
	return cmd
}

func runInspect(ctx context.Context, opts inspectOptions) error {
	if opts.File == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("--file is required")
	}
	text, err := os.ReadFile(opts.File)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest file not found").
			WithCause(err)
	}

	service := app.Service{}
	snapshot, err := service.Inspect(ctx, opts.File, text)
	if err != nil {
		return err
	}
	encoded, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(encoded))
	return nil
}
