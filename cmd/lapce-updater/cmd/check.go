package cmd

import (
	"errors"
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
	"github.com/HectorLobatoSilva/lapce/internal/service/updater"
)

var (
	// openReleasePage opens the release notes in the browser when an update is available.
	openReleasePage bool

	// checkCmd reports whether the release channel has a newer build.
	checkCmd = &cobra.Command{
		Use:   "check",
		Short: "Report whether a newer release is available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			ctx = logger.WithName(ctx, "lapce-updater")

			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			result, err := updater.New(cfg, currentVersion).Check(ctx)
			if errors.Is(err, updater.ErrNoReleaseChannel) {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is a development build and follows no release channel\n", currentVersion)
				return nil
			}

			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if !result.UpdateAvailable {
				_, _ = fmt.Fprintf(out, "%s is up to date (%s channel)\n", result.Current, result.Channel)
				return nil
			}

			_, _ = fmt.Fprintf(out, "%s is available (%s channel, running %s)\n",
				result.Release.Version, result.Channel, result.Current)

			if openReleasePage && result.Release.HTMLURL != "" {
				if err = browser.OpenURL(result.Release.HTMLURL); err != nil {
					logger.WarnKV(ctx, "Unable to open release page", "url", result.Release.HTMLURL, "error", err)
				}
			}

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	checkCmd.Flags().BoolVar(&openReleasePage, "open", false, "open the release page in the browser when an update is available")
	rootCmd.AddCommand(checkCmd)
}
