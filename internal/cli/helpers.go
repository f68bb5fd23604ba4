package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"depwarden/internal/adapters"
	"depwarden/internal/app"
	"depwarden/internal/ports"
)

// resolveString prefers an explicitly-set flag, then a viper-provided
// value (env or config file), then the flag default.
func resolveString(cmd *cobra.Command, current string, key string, flag string) string {
	if cmd.Flags().Changed(flag) {
		return current
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return current
}

func resolveInt(cmd *cobra.Command, current int, key string, flag string) int {
	if cmd.Flags().Changed(flag) {
		return current
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return current
}

func resolveBool(cmd *cobra.Command, current bool, key string, flag string) bool {
	if cmd.Flags().Changed(flag) {
		return current
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return current
}

// loadPairs reads the base and head revisions of each manifest path from
// two directory trees. A missing head file is an error; a missing base
// file means the manifest is new in this request.
func loadPairs(manifests []string, baseDir string, headDir string) ([]app.ManifestPair, error) {
	if len(manifests) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one --manifest path is required")
	}
	var pairs []app.ManifestPair
	for _, manifest := range manifests {
		headText, err := os.ReadFile(filepath.Join(headDir, manifest))
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("head revision not found for %s", manifest)).
				WithCause(err)
		}
		pair := app.ManifestPair{Path: manifest, HeadText: headText}
		baseText, err := os.ReadFile(filepath.Join(baseDir, manifest))
		switch {
		case err == nil:
			pair.BaseText = baseText
			pair.HasBase = true
		case errors.Is(err, fs.ErrNotExist):
			// New manifest: every head record is an addition.
		default:
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to read base revision for %s", manifest)).
				WithCause(err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// openStore opens the durable suppression store, or an in-memory one for
// stateless runs.
func openStore(dir string) (ports.SuppressionStorePort, error) {
	if dir == "" {
		return adapters.NewInMemorySuppressionStore()
	}
	return adapters.NewBadgerSuppressionStore(dir)
}
