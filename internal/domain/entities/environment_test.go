//go:build unit

package entities_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/autobump/internal/domain/entities"
)

func TestLoadEnvironmentFrom(t *testing.T) {
	t.Parallel()

	t.Run("should load required values and apply defaults", func(t *testing.T) {
		t.Parallel()

		// given
		lookuper := envconfig.MapLookuper(map[string]string{
			"GITHUB_COM_TOKEN": "ghp_token",
			"PR_ORG":           "cloudfoundry",
			"PR_BASE":          "master",
			"PR_LABEL":         "run-ci",
			"GCP_SERVICE_KEY":  `{"type":"service_account"}`,
		})

		// when
		env, err := entities.LoadEnvironmentFrom(context.Background(), lookuper)

		// then
		require.NoError(t, err)
		assert.Equal(t, "ghp_token", env.GitHubToken)
		assert.Equal(t, "cloudfoundry", env.PROrg)
		assert.Equal(t, "master", env.PRBase)
		assert.Equal(t, "run-ci", env.PRLabel)
		assert.Equal(t, "haproxy-boshrelease", env.PRRepo)
		assert.Equal(t, "github", env.PRProvider)
		assert.Equal(t, `{"type":"service_account"}`, env.BlobstoreKey)
		assert.False(t, env.IsDryRun())
	})

	t.Run("should fail when a required value is missing", func(t *testing.T) {
		t.Parallel()

		// given
		lookuper := envconfig.MapLookuper(map[string]string{"GITHUB_COM_TOKEN": "ghp_token"})

		// when
		_, err := entities.LoadEnvironmentFrom(context.Background(), lookuper)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PR_ORG")
	})
}

func TestLoadDiscoveryEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("should not require a token", func(t *testing.T) {
		t.Parallel()

		// when
		env, err := entities.LoadDiscoveryEnvironment(context.Background(), envconfig.MapLookuper(nil))

		// then
		require.NoError(t, err)
		assert.Empty(t, env.GitHubToken)
	})
}

func TestEnvironmentIsDryRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value    string
		expected bool
	}{
		{value: "", expected: false},
		{value: "false", expected: false},
		{value: "0", expected: false},
		{value: "FALSE", expected: false},
		{value: "1", expected: true},
		{value: "true", expected: true},
		{value: "yes", expected: true},
	}

	for _, tt := range tests {
		t.Run("DRY_RUN="+tt.value, func(t *testing.T) {
			t.Parallel()

			// given
			env := &entities.Environment{DryRun: tt.value}

			// when / then
			assert.Equal(t, tt.expected, env.IsDryRun())
		})
	}
}

func TestResolveSecret(t *testing.T) {
	t.Parallel()

	t.Run("should return inline JSON unchanged", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, `{"a":1}`, entities.ResolveSecret(`{"a":1}`))
	})

	t.Run("should read the key from a file path", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "key.json")
		require.NoError(t, os.WriteFile(path, []byte("{\"b\":2}\n"), 0o600))

		// when
		got := entities.ResolveSecret(path)

		// then
		assert.Equal(t, `{"b":2}`, got)
	})

	t.Run("should return other values as they are", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "plain-value", entities.ResolveSecret("plain-value"))
		assert.Empty(t, entities.ResolveSecret(""))
	})
}
