package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ytget/yt-fetch/internal/cli/view"
	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/model"
)

const shutdownTimeout = 5 * time.Second

// enqueueFunc adds the tasks of one command to the service
type enqueueFunc func(ctx context.Context, format model.Format) ([]*download.Task, error)

// runDownloads shows the progress view until every task enqueued by enqueue
// has ended, then stops the service.
func runDownloads(cmd *cobra.Command, heading, formatValue string, enqueue enqueueFunc) error {
	if app == nil {
		return errors.New("app not initialized")
	}
	format, err := app.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	ctx := app.Context()
	program := tea.NewProgram(
		view.NewDownloadsModel(heading, app.Service),
		tea.WithContext(ctx),
		tea.WithOutput(cmd.OutOrStdout()),
	)

	app.Service.SetUpdateCallback(func(task *model.DownloadTask) {
		program.Send(view.TaskUpdateMsg{Task: *task})
	})
	app.Overall.SetUpdateCallback(func(value float64) {
		program.Send(view.OverallMsg{Value: value})
	})

	go func() {
		tasks, err := enqueue(ctx, format)
		snapshots := make([]model.DownloadTask, 0, len(tasks))
		for _, task := range tasks {
			snapshots = append(snapshots, task.Snapshot())
		}
		program.Send(view.TasksAddedMsg{Tasks: snapshots, Err: err})
	}()

	final, runErr := program.Run()

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Close(closeCtx); err != nil {
		app.Logger.Warn().Err(err).Msg("downloads did not stop in time")
	}

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("run progress view: %w", runErr)
	}
	result, ok := final.(view.DownloadsModel)
	if !ok {
		return runErr
	}
	if err := result.Err(); err != nil {
		return err
	}
	if c := result.Counts(); c.Failed > 0 {
		return fmt.Errorf("%d of %d downloads failed", c.Failed, c.Total())
	}
	return nil
}
