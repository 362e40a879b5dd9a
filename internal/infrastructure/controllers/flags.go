package controllers

import (
	"github.com/sethvargo/go-envconfig"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

// runEnv holds what a controller reads from outside the command line.
type runEnv struct {
	lookuper envconfig.Lookuper
	exit     func(code int)
}

// loadSettings reads --config, else an auto-detected file, else the built-in list.
func loadSettings(cmd *cobra.Command) (*entities.Settings, error) {
	configPath, _ := cmd.Flags().GetString("config")

	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			logger.Info("No config file found, using the built-in dependency list")
			return entities.DefaultSettings(), nil //nolint:nilerr // the config file is optional
		}
		configPath = found
	}

	logger.Infof("Using config file: %s", configPath)
	return entities.NewSettings(configPath)
}

func runOptions(cmd *cobra.Command) commands.RunOptions {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	workDir, _ := cmd.Flags().GetString("workdir")
	dependency, _ := cmd.Flags().GetString("dependency")

	return commands.RunOptions{
		DryRun:     dryRun,
		Verbose:    verbose,
		WorkDir:    workDir,
		Dependency: dependency,
	}
}
