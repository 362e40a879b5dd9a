package controllers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sethvargo/go-envconfig"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/autobump/internal/domain/commands"
	"github.com/rios0rios0/autobump/internal/domain/entities"
)

const statusColumn = 4

// CheckController handles the "check" subcommand.
type CheckController struct {
	command commands.Check
	env     runEnv
}

// NewCheckController creates a new CheckController.
func NewCheckController(command commands.Check) *CheckController {
	return &CheckController{
		command: command,
		env:     runEnv{lookuper: envconfig.OsLookuper(), exit: os.Exit},
	}
}

// GetBind returns the Cobra command metadata for the check controller.
func (it *CheckController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "check",
		Short: "Report pinned and latest versions without changing anything",
		Long: `Look up the newest upstream release of every tracked dependency and
compare it with the version pinned in its packaging file.

Nothing is downloaded, no blob is touched and no pull request is opened.
GITHUB_COM_TOKEN is optional and only raises the GitHub API rate limit.`,
	}
}

// Execute prints the status report.
func (it *CheckController) Execute(cmd *cobra.Command, _ []string) {
	ctx := context.Background()

	settings, err := loadSettings(cmd)
	if err != nil {
		logger.Errorf("failed to load config: %v", err)
		it.env.exit(1)
		return
	}

	env, err := entities.LoadDiscoveryEnvironment(ctx, it.env.lookuper)
	if err != nil {
		logger.Errorf("failed to load environment: %v", err)
		it.env.exit(1)
		return
	}

	statuses, err := it.command.Execute(ctx, settings, env, runOptions(cmd))
	if err != nil {
		logger.Errorf("Check failed: %v", err)
		it.env.exit(1)
		return
	}

	printStatuses(cmd.OutOrStdout(), statuses)
}

// AddFlags adds the check-specific flags to the given Cobra command.
func (it *CheckController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("dependency", "", "Only check this dependency (e.g. haproxy)")
}

func printStatuses(w io.Writer, statuses []entities.DependencyStatus) {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	outdatedStyle := cellStyle.Foreground(lipgloss.Color("#FFB86C"))
	currentStyle := cellStyle.Foreground(lipgloss.Color("#50FA7B"))

	rows := make([][]string, 0, len(statuses))
	outdated := 0
	for _, status := range statuses {
		state := "up to date"
		if status.UpdateNeeded {
			state = "update available"
			outdated++
		}
		rows = append(rows, []string{
			status.Name,
			status.Pin + ".*",
			status.Current.String(),
			status.Latest.Version.String(),
			state,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("DEPENDENCY", "PIN", "CURRENT", "LATEST", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col != statusColumn || row < 0 || row >= len(statuses):
				return cellStyle
			case statuses[row].UpdateNeeded:
				return outdatedStyle
			default:
				return currentStyle
			}
		})

	_, _ = fmt.Fprintln(w, t.Render())
	_, _ = fmt.Fprintf(w, "%d of %d dependencies have an update available\n", outdated, len(statuses))
}
