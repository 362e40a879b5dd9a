package entities

import "errors"

// Every failure below aborts the whole run. Callers wrap them with context using
// fmt.Errorf("%w: ...") and match them with errors.Is.
var (
	// ErrMalformedVersion is returned when a text is not a dot-separated sequence
	// of non-negative integers.
	ErrMalformedVersion = errors.New("malformed version")

	// ErrVersionNotFound is returned when the packaging file has no pin line for
	// the dependency's version variable.
	ErrVersionNotFound = errors.New("version not found in packaging file")

	// ErrNoQualifyingRelease is returned by a release source when no candidate
	// matches the pin.
	ErrNoQualifyingRelease = errors.New("no qualifying release")

	// ErrNoAssetFound is returned when the winning release has no asset with the
	// configured file name suffix.
	ErrNoAssetFound = errors.New("no matching release asset")

	ErrFetchFailed    = errors.New("fetch failed")
	ErrDownloadFailed = errors.New("download failed")

	// ErrMalformedManifest is returned when a releases.json document lacks the
	// expected keys.
	ErrMalformedManifest = errors.New("malformed release manifest")

	// ErrArtifactStoreFailed is returned when a blob store command exits non-zero.
	ErrArtifactStoreFailed = errors.New("artifact store command failed")

	ErrPullRequestFailed = errors.New("pull request failed")
)
