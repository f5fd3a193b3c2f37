package version

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
}

// TestAttachCobraVersionCommand runs the attached subcommand and checks its output.
func TestAttachCobraVersionCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer

	root := &cobra.Command{Use: "lapce-updater"}
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	AttachCobraVersionCommand(root)

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), Full())
}
