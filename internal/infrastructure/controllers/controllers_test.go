//go:build unit

package controllers_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const settingsYAML = `dependencies:
  - name: haproxy
    version_var: HAPROXY_VERSION
    pin: "2.8"
    root_url: https://www.haproxy.org/download/{pin}/src
    source:
      kind: releases-json
`

// newCommand builds a subcommand carrying the root persistent flags plus the
// controller's own flags, with the given values already set.
func newCommand(t *testing.T, ctrl entities.Controller, values map[string]string) *cobra.Command {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "autobump.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(settingsYAML), 0o600))

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{Use: ctrl.GetBind().Use}
	cmd.Flags().String("config", "", "")
	cmd.Flags().Bool("dry-run", false, "")
	cmd.Flags().Bool("verbose", false, "")
	cmd.Flags().String("workdir", "", "")
	ctrl.AddFlags(cmd)

	require.NoError(t, cmd.Flags().Set("config", configPath))
	for name, value := range values {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

type exitRecorder struct {
	codes []int
}

func (r *exitRecorder) exit(code int) {
	r.codes = append(r.codes, code)
}
