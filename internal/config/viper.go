package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. YTFETCH_DOWNLOAD_DIRECTORY
const EnvPrefix = "YTFETCH"

// ViperStore adapts a viper instance to Store
type ViperStore struct {
	v *viper.Viper
}

var _ Store = (*ViperStore)(nil)

// NewViperStore wraps v. A nil v gets a fresh instance.
func NewViperStore(v *viper.Viper) *ViperStore {
	if v == nil {
		v = viper.New()
	}
	return &ViperStore{v: v}
}

// LoadViper builds a viper instance reading YTFETCH_* variables and, when
// configFile is set, that file. Without a file, config.yaml in the working
// directory and ~/.config/yt-fetch is used if present.
func LoadViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/yt-fetch")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// Viper returns the wrapped instance
func (s *ViperStore) Viper() *viper.Viper { return s.v }

func (s *ViperStore) String(key string) string { return s.v.GetString(key) }

func (s *ViperStore) SetString(key string, value string) { s.v.Set(key, value) }

func (s *ViperStore) Int(key string) int { return s.v.GetInt(key) }

func (s *ViperStore) SetInt(key string, value int) { s.v.Set(key, value) }

func (s *ViperStore) BoolWithFallback(key string, fallback bool) bool {
	if !s.v.IsSet(key) {
		return fallback
	}
	return s.v.GetBool(key)
}

func (s *ViperStore) SetBool(key string, value bool) { s.v.Set(key, value) }
