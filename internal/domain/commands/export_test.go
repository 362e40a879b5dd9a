package commands

// NewDryRunArtifactStore exports newDryRunArtifactStore for testing.
var NewDryRunArtifactStore = newDryRunArtifactStore //nolint:gochecknoglobals // test export
