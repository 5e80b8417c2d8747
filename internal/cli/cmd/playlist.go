package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-fetch/internal/download"
	"github.com/ytget/yt-fetch/internal/model"
)

var playlistFormat string

var playlistCmd = &cobra.Command{
	Use:   "playlist <url>",
	Short: "Download every video of a playlist",
	Long: `Expand a playlist URL with yt-dlp and download each of its videos.

Videos of the playlist that are already downloading are skipped.`,
	Example: `  yt-fetch playlist -f mp3 "https://www.youtube.com/playlist?list=PL..."`,
	Args:    cobra.ExactArgs(1),
	RunE:    runPlaylist,
}

func init() {
	rootCmd.AddCommand(playlistCmd)
	playlistCmd.Flags().StringVarP(&playlistFormat, "format", "f", "", formatUsage())
}

func runPlaylist(cmd *cobra.Command, args []string) error {
	url := args[0]
	return runDownloads(cmd, "yt-fetch playlist", playlistFormat, func(ctx context.Context, format model.Format) ([]*download.Task, error) {
		return app.Service.AddPlaylist(ctx, url, format)
	})
}
