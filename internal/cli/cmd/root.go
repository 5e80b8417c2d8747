// Package cmd provides the Cobra commands of the yt-fetch CLI.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/yt-fetch/internal/cli"
	"github.com/ytget/yt-fetch/internal/config"
)

var (
	app     *cli.App
	version = "dev"
	rootCmd = &cobra.Command{
		Use:   "yt-fetch",
		Short: "Download YouTube videos and audio from the terminal",
		Long: `yt-fetch downloads YouTube videos, audio tracks and whole playlists.

Settings come from ./config.yaml or ~/.config/yt-fetch/config.yaml, from
YTFETCH_* environment variables (e.g. YTFETCH_DOWNLOAD_DIRECTORY) and from
the flags below, in increasing priority.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "version":
				return nil
			}

			configFile, err := cmd.Flags().GetString(config.FlagConfig)
			if err != nil {
				return err
			}
			v, err := config.LoadViper(configFile)
			if err != nil {
				return err
			}
			if err := config.BindFlags(v, cmd); err != nil {
				return err
			}

			logFile, _ := cmd.Flags().GetString(config.FlagLogFile)
			jsonLogs, _ := cmd.Flags().GetBool(config.FlagJSONLogs)
			app, err = cli.NewApp(cmd.Context(), v, cli.Options{LogFile: logFile, JSONLogs: jsonLogs})
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.Logger.Debug().Str("version", version).Str("command", cmd.Name()).Msg("yt-fetch starting")
			return nil
		},
	}
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("yt-fetch %s\n", version)
	},
}

func init() {
	config.RegisterFlags(rootCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command. buildVersion is reported by the version
// command.
func Execute(ctx context.Context, buildVersion string) {
	if buildVersion != "" {
		version = buildVersion
	}
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
