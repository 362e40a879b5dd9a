//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// StubBumpCommand is a stub implementation of commands.Bump.
type StubBumpCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastEnv          *entities.Environment
	LastOpts         commands.RunOptions
}

var _ commands.Bump = (*StubBumpCommand)(nil)

func (s *StubBumpCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	env *entities.Environment,
	opts commands.RunOptions,
) error {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastEnv = env
	s.LastOpts = opts
	return s.ExecuteErr
}
