package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Command line flag names
const (
	FlagConfig   = "config"
	FlagDir      = "dir"
	FlagParallel = "parallel"
	FlagQuality  = "quality"
	FlagTags     = "tags"
	FlagLogLevel = "log-level"
	FlagLogFile  = "log-file"
	FlagJSONLogs = "json-logs"
)

// flagKeys maps flags onto settings keys. Zero flag values read as unset in
// Settings, so an untouched flag never shadows the config file.
var flagKeys = map[string]string{
	FlagDir:      KeyDownloadDir,
	FlagParallel: KeyMaxParallel,
	FlagQuality:  KeyQualityPreset,
	FlagLogLevel: KeyLogLevel,
}

// RegisterFlags adds the persistent settings flags to cmd
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()

	flags.StringP(FlagConfig, "c", "", "config file path")
	flags.StringP(FlagDir, "d", "", "download directory")
	flags.IntP(FlagParallel, "p", 0, fmt.Sprintf("parallel downloads (%d-%d)", MinMaxParallel, MaxMaxParallel))
	flags.String(FlagQuality, "", "quality preset (best, medium, audio)")
	flags.Bool(FlagTags, DefaultInjectTags, "write metadata tags into audio files")
	flags.String(FlagLogLevel, "", "log level (trace, debug, info, warn, error)")
	flags.String(FlagLogFile, "", "write logs to this file")
	flags.Bool(FlagJSONLogs, false, "write logs as JSON")
}

// BindFlags layers the flags of cmd over v
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.Flags()
	for flag, key := range flagKeys {
		f := flags.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}

	// bool defaults are not zero, so only an explicit --tags overrides
	if f := flags.Lookup(FlagTags); f != nil && f.Changed {
		inject, err := flags.GetBool(FlagTags)
		if err != nil {
			return fmt.Errorf("read flag %s: %w", FlagTags, err)
		}
		v.Set(KeyInjectTags, inject)
	}
	return nil
}
