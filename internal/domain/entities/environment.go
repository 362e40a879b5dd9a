package entities

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/sethvargo/go-envconfig"
	logger "github.com/sirupsen/logrus"
)

// Environment carries the secrets and identifiers the bot needs to talk to the
// blob store and the source-control host. It is loaded once at startup and
// passed down explicitly.
type Environment struct {
	GitHubToken string `env:"GITHUB_COM_TOKEN,required"`
	PROrg       string `env:"PR_ORG,required"`
	PRBase      string `env:"PR_BASE,required"`
	PRLabel     string `env:"PR_LABEL"`
	PRRepo      string `env:"PR_REPO,default=haproxy-boshrelease"`
	PRProvider  string `env:"PR_PROVIDER,default=github"`

	// BlobstoreKey may be inline JSON, a ${VAR} reference or a path to a key file.
	BlobstoreKey string `env:"GCP_SERVICE_KEY"`

	// DryRun is any non-empty value other than "false" or "0".
	DryRun string `env:"DRY_RUN"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// LoadEnvironment reads the environment of the current process.
func LoadEnvironment(ctx context.Context) (*Environment, error) {
	return LoadEnvironmentFrom(ctx, envconfig.OsLookuper())
}

// LoadEnvironmentFrom reads the environment through the given lookuper.
func LoadEnvironmentFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Environment, error) {
	var env Environment
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	env.BlobstoreKey = ResolveSecret(env.BlobstoreKey)
	return &env, nil
}

// IsDryRun reports whether DRY_RUN requests a dry run.
func (e *Environment) IsDryRun() bool {
	switch strings.ToLower(strings.TrimSpace(e.DryRun)) {
	case "", "false", "0":
		return false
	default:
		return true
	}
}

// ResolveSecret expands ${VAR} references and, if the result names an existing
// file, returns the trimmed file content instead.
func ResolveSecret(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if strings.ContainsAny(resolved, "{\n") {
		return resolved // inline JSON key
	}

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read secret file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read secret from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// DiscoveryEnvironment is the subset of the environment a read-only check
// needs. The token only raises the GitHub API rate limit.
type DiscoveryEnvironment struct {
	GitHubToken string `env:"GITHUB_COM_TOKEN"`
}

// LoadDiscoveryEnvironment reads the optional discovery settings through the given lookuper.
func LoadDiscoveryEnvironment(ctx context.Context, lookuper envconfig.Lookuper) (*DiscoveryEnvironment, error) {
	var env DiscoveryEnvironment
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &env,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	return &env, nil
}
