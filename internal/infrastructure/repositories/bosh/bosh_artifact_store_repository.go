package bosh

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const defaultBinary = "bosh"

// privateConfig is the git-ignored config/private.yml read by the bosh CLI for
// blobstore authentication.
type privateConfig struct {
	Blobstore struct {
		Options struct {
			CredentialsSource string `yaml:"credentials_source"`
			JSONKey           string `yaml:"json_key"`
		} `yaml:"options"`
	} `yaml:"blobstore"`
}

// BoshArtifactStoreRepository manages release blobs through the bosh CLI,
// run from the root of the release repository.
type BoshArtifactStoreRepository struct {
	binary            string
	workspace         repositories.WorkspaceRepository
	manifestPath      string
	privateConfigPath string
}

// Option tunes the artifact store.
type Option func(*BoshArtifactStoreRepository)

// WithBinary runs the given executable instead of "bosh" from PATH.
func WithBinary(binary string) Option {
	return func(s *BoshArtifactStoreRepository) {
		s.binary = binary
	}
}

// NewBoshArtifactStoreRepository creates the bosh-backed artifact store.
func NewBoshArtifactStoreRepository(
	workspace repositories.WorkspaceRepository,
	settings *entities.Settings,
	opts ...Option,
) repositories.ArtifactStoreRepository {
	store := &BoshArtifactStoreRepository{
		binary:            defaultBinary,
		workspace:         workspace,
		manifestPath:      settings.ManifestPath,
		privateConfigPath: settings.PrivateConfigPath,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *BoshArtifactStoreRepository) ManifestPath() string { return s.manifestPath }

// Has checks the top-level keys of the blob manifest.
func (s *BoshArtifactStoreRepository) Has(_ context.Context, registeredPath string) (bool, error) {
	data, err := s.workspace.ReadFile(s.manifestPath)
	if err != nil {
		return false, fmt.Errorf("failed to read blob manifest %q: %w", s.manifestPath, err)
	}

	var blobs map[string]interface{}
	if unmarshalErr := yaml.Unmarshal(data, &blobs); unmarshalErr != nil {
		return false, fmt.Errorf("failed to parse blob manifest %q: %w", s.manifestPath, unmarshalErr)
	}

	_, ok := blobs[registeredPath]
	return ok, nil
}

func (s *BoshArtifactStoreRepository) Add(ctx context.Context, localPath, registeredPath string) error {
	return s.run(ctx, "add-blob", localPath, registeredPath)
}

func (s *BoshArtifactStoreRepository) Remove(ctx context.Context, registeredPath string) error {
	return s.run(ctx, "remove-blob", registeredPath)
}

func (s *BoshArtifactStoreRepository) Upload(ctx context.Context) error {
	return s.run(ctx, "upload-blobs")
}

// WriteCredentials writes a static GCS JSON key into the private config.
func (s *BoshArtifactStoreRepository) WriteCredentials(_ context.Context, key string) error {
	var cfg privateConfig
	cfg.Blobstore.Options.CredentialsSource = "static"
	cfg.Blobstore.Options.JSONKey = key

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.privateConfigPath, err)
	}

	logger.Infof("Writing blobstore credentials to %s", s.privateConfigPath)
	if writeErr := s.workspace.WriteFile(s.privateConfigPath, data); writeErr != nil {
		return fmt.Errorf("failed to write %s: %w", s.privateConfigPath, writeErr)
	}
	return nil
}

func (s *BoshArtifactStoreRepository) run(ctx context.Context, command string, args ...string) error {
	params := append([]string{command}, args...)
	display := strings.Join(append([]string{s.binary}, params...), " ")
	logger.Infof("Running '%s' ...", display)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.binary, params...)
	cmd.Dir = s.workspace.Path(".")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		logger.Debug(out)
	}
	if errOut := strings.TrimSpace(stderr.String()); errOut != "" {
		logger.Warn(errOut)
	}
	if err != nil {
		return fmt.Errorf("%w: command %s failed: %w", entities.ErrArtifactStoreFailed, display, err)
	}
	return nil
}
