package githubreleases

// ParseRepositoryURL exports parseRepositoryURL for testing.
var ParseRepositoryURL = parseRepositoryURL //nolint:gochecknoglobals // test export
