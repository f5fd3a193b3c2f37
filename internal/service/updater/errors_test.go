package updater

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStageErrorUnwraps(t *testing.T) {
	t.Parallel()

	remote := &RemoteError{URL: "https://api.github.com/x", StatusCode: 403, Body: "rate limited"}
	err := fmt.Errorf("pipeline: %w", &StageError{Stage: StageFetching, Err: remote})

	require.ErrorIs(t, err, ErrRemote)
	require.NotErrorIs(t, err, ErrIO)
	require.EqualError(t, errors.Unwrap(err), "fetching: https://api.github.com/x: status 403: rate limited")

	var got *RemoteError
	require.True(t, errors.As(err, &got))
	require.Equal(t, 403, got.StatusCode)
}

func TestStageString(t *testing.T) {
	t.Parallel()

	names := map[Stage]string{
		StageIdle:        "idle",
		StageResolving:   "resolving",
		StageFetching:    "fetching",
		StageDownloading: "downloading",
		StageExtracting:  "extracting",
		StageRelaunching: "relaunching",
		StageReplaced:    "replaced",
		StageFailed:      "failed",
		Stage(42):        "unknown",
	}

	for stage, want := range names {
		require.Equal(t, want, stage.String())
	}
}
