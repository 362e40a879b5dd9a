//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// StubCheckCommand is a stub implementation of commands.Check.
type StubCheckCommand struct {
	Statuses         []entities.DependencyStatus
	ExecuteCallCount int
	ExecuteErr       error
	LastSettings     *entities.Settings
	LastEnv          *entities.DiscoveryEnvironment
	LastOpts         commands.RunOptions
}

var _ commands.Check = (*StubCheckCommand)(nil)

func (s *StubCheckCommand) Execute(
	_ context.Context,
	settings *entities.Settings,
	env *entities.DiscoveryEnvironment,
	opts commands.RunOptions,
) ([]entities.DependencyStatus, error) {
	s.ExecuteCallCount++
	s.LastSettings = settings
	s.LastEnv = env
	s.LastOpts = opts
	return s.Statuses, s.ExecuteErr
}
