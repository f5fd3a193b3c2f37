package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HectorLobatoSilva/lapce/internal/logger"
	"github.com/HectorLobatoSilva/lapce/internal/service/updater"
)

var (
	// forceUpdate reinstalls the channel release even when it matches the running build.
	forceUpdate bool

	// updateCmd downloads, installs and relaunches the latest release.
	updateCmd = &cobra.Command{
		Use:   "update",
		Short: "Install the latest release and relaunch Lapce",
		Long:  "Install the latest release of the running build's channel over the current installation and relaunch it. On Linux and macOS the process is replaced by the relaunched application.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signalContext()
			defer stop()

			ctx = logger.WithName(ctx, "lapce-updater")

			cfg, err := loadSettings(cmd)
			if err != nil {
				return err
			}

			dir, err := cfg.UpdatesDirectory()
			if err != nil {
				return fmt.Errorf("%w: %w", updater.ErrDirectoryUnavailable, err)
			}

			marker, err := updater.AcquireMarker(ctx, dir)
			if err != nil {
				return err
			}

			defer func() {
				if err := marker.Release(); err != nil {
					logger.WarnKV(ctx, "Unable to remove update marker", "error", err)
				}
			}()

			out := cmd.OutOrStdout()

			u := updater.New(cfg, currentVersion, updater.WithStageObserver(func(stage updater.Stage) {
				_, _ = fmt.Fprintln(out, "stage:", stage)

				// A replaced process image never runs deferred calls.
				if stage == updater.StageRelaunching {
					_ = marker.Release()
				}
			}))

			if forceUpdate {
				return <-u.Start(ctx)
			}

			result, err := u.Check(ctx)
			if errors.Is(err, updater.ErrNoReleaseChannel) {
				_, _ = fmt.Fprintf(out, "%s is a development build and follows no release channel\n", currentVersion)
				return nil
			}

			if err != nil {
				return err
			}

			if !result.UpdateAvailable {
				_, _ = fmt.Fprintf(out, "%s is up to date (%s channel)\n", result.Current, result.Channel)
				return nil
			}

			return u.Install(ctx, result.Release)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	updateCmd.Flags().BoolVarP(&forceUpdate, "force", "f", false, "install the channel release even when it matches the running build")
	rootCmd.AddCommand(updateCmd)
}
