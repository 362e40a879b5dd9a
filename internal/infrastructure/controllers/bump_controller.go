package controllers

import (
	"context"
	"os"

	"github.com/sethvargo/go-envconfig"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// BumpController handles the "bump" subcommand.
type BumpController struct {
	command commands.Bump
	env     runEnv
}

// NewBumpController creates a new BumpController.
func NewBumpController(command commands.Bump) *BumpController {
	return &BumpController{
		command: command,
		env:     runEnv{lookuper: envconfig.OsLookuper(), exit: os.Exit},
	}
}

// GetBind returns the Cobra command metadata for the bump controller.
func (it *BumpController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "bump",
		Short: "Bump outdated dependencies and open pull requests",
		Long: `Check every tracked dependency against its upstream releases.

For each one with a newer release inside its pinned series, download the
archive, swap the registered blob, rewrite the packaging file, upload the
blobs and open a pull request against PR_BASE.

This is the command intended to be run from CI on a schedule. The run stops
at the first failing dependency.`,
	}
}

// Execute runs the bump cycle over the configured dependencies.
func (it *BumpController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		it.env.exit(1)
		return
	}

	env, err := entities.LoadEnvironmentFrom(ctx, it.env.lookuper)
	if err != nil {
		logger.Errorf("failed to load environment: %v", err)
		it.env.exit(1)
		return
	}

	logger.Info("Starting autobump run...")

	if runErr := it.command.Execute(ctx, settings, env, runOptions(cmd)); runErr != nil {
		logger.Errorf("Bump failed: %v", runErr)
		it.env.exit(1)
	}
}

// AddFlags adds the bump-specific flags to the given Cobra command.
func (it *BumpController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("dependency", "", "Only bump this dependency (e.g. haproxy)")
}
