package httpfetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/autobump/internal/domain/entities"
	"github.com/rios0rios0/autobump/internal/domain/repositories"
)

const (
	userAgent    = "autobump"
	dirPerm      = 0o755
	retryWaitMin = 1 * time.Second
	retryWaitMax = 10 * time.Second
)

// HTTPFetchRepository implements repositories.FetchRepository with a client
// that retries transport errors and 5xx responses.
type HTTPFetchRepository struct {
	client *retryablehttp.Client
}

// Option tunes the underlying retrying client.
type Option func(*retryablehttp.Client)

// WithRetryWait overrides the backoff bounds between attempts.
func WithRetryWait(minWait, maxWait time.Duration) Option {
	return func(c *retryablehttp.Client) {
		c.RetryWaitMin = minWait
		c.RetryWaitMax = maxWait
	}
}

// NewHTTPFetchRepository creates a fetcher retrying up to retryMax times.
func NewHTTPFetchRepository(retryMax int, opts ...Option) repositories.FetchRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.RetryWaitMin = retryWaitMin
	client.RetryWaitMax = retryWaitMax
	client.Logger = leveledLogger{}
	for _, opt := range opts {
		opt(client)
	}
	return &HTTPFetchRepository{client: client}
}

// NewFromSettings creates a fetcher honoring the configured retry budget.
func NewFromSettings(settings *entities.Settings) repositories.FetchRepository {
	retryMax := entities.DefaultRetryMax
	if settings != nil && settings.RetryMax != nil {
		retryMax = *settings.RetryMax
	}
	return NewHTTPFetchRepository(retryMax)
}

// HTTPClient returns a standard client backed by the retrying transport.
func (f *HTTPFetchRepository) HTTPClient() *http.Client {
	return f.client.StandardClient()
}

func (f *HTTPFetchRepository) Get(ctx context.Context, url string) ([]byte, error) {
	resp, err := f.do(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrFetchFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", entities.ErrFetchFailed, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", entities.ErrFetchFailed, url, err)
	}
	return body, nil
}

// Download writes the body to a temporary file next to path and renames it
// into place, so a failed transfer never leaves a partial archive behind.
func (f *HTTPFetchRepository) Download(ctx context.Context, url, path string) error {
	resp, err := f.do(ctx, url)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", entities.ErrDownloadFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d", entities.ErrDownloadFailed, url, resp.StatusCode)
	}

	dir := filepath.Dir(path)
	if mkErr := os.MkdirAll(dir, dirPerm); mkErr != nil {
		return fmt.Errorf("%w: create dir: %w", entities.ErrDownloadFailed, mkErr)
	}

	tempFile, err := os.CreateTemp(dir, "download-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: temp file: %w", entities.ErrDownloadFailed, err)
	}
	tempPath := tempFile.Name()
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
	}()

	written, err := io.Copy(tempFile, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: write file: %w", entities.ErrDownloadFailed, err)
	}
	if syncErr := tempFile.Sync(); syncErr != nil {
		return fmt.Errorf("%w: sync file: %w", entities.ErrDownloadFailed, syncErr)
	}
	if closeErr := tempFile.Close(); closeErr != nil {
		return fmt.Errorf("%w: close file: %w", entities.ErrDownloadFailed, closeErr)
	}

	if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
		return fmt.Errorf("%w: remove existing: %w", entities.ErrDownloadFailed, rmErr)
	}
	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		return fmt.Errorf("%w: finalize file: %w", entities.ErrDownloadFailed, renameErr)
	}

	logger.Debugf("Downloaded %d bytes from %s", written, url)
	return nil
}

func (f *HTTPFetchRepository) do(ctx context.Context, url string) (*http.Response, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	return f.client.Do(req)
}

// leveledLogger routes the retrying client's messages to logrus at debug level,
// except for errors.
type leveledLogger struct{}

func (leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Error(msg)
}

func (leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Debug(msg)
}

func (leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	logger.WithFields(fields(keysAndValues)).Warn(msg)
}

func fields(keysAndValues []interface{}) logger.Fields {
	out := make(logger.Fields, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		out[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return out
}
