package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/model"
)

var getFormat string

var getCmd = &cobra.Command{
	Use:   "get <url|id>...",
	Short: "Download one or more videos",
	Long: `Download the given videos in parallel.

Accepts watch, short, embed and youtu.be URLs as well as bare video ids.
Press q or ctrl+c to cancel the running downloads.`,
	Example: `  yt-fetch get https://youtu.be/dQw4w9WgXcQ
  yt-fetch get -f mp3 dQw4w9WgXcQ https://www.youtube.com/watch?v=9bZkp7q19f0`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringVarP(&getFormat, "format", "f", "", formatUsage())
}

func runGet(cmd *cobra.Command, args []string) error {
	return runDownloads(cmd, "yt-fetch", getFormat, func(ctx context.Context, format model.Format) ([]*download.Task, error) {
		return addURLs(ctx, app.Service, args, format)
	})
}

// addURLs adds a task per url, skipping the ones that cannot be added
func addURLs(ctx context.Context, service download.Downloader, urls []string, format model.Format) ([]*download.Task, error) {
	var (
		tasks []*download.Task
		errs  []error
	)
	for _, url := range urls {
		task, err := service.AddURL(ctx, url, format)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, errors.Join(errs...)
}

func formatUsage() string {
	usage := "output format ("
	for i, format := range model.Formats() {
		if i > 0 {
			usage += ", "
		}
		usage += format.String()
	}
	return usage + "), defaults to the configured format"
}
