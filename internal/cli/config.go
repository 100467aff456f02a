package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix prefixes environment variables, e.g. TOPFILES_DEPTH.
const envPrefix = "TOPFILES"

// bindFlags registers defaults, flags and environment variables with v.
// Precedence is flag > environment > config file > default.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	v.SetDefault("root", ".")

	if err := v.BindPFlags(flags); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	return nil
}

// loadConfig reads cfgFile, or config.yaml from the user config directory when
// cfgFile is empty. A missing default config file is not an error.
func loadConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil //nolint:nilerr // No config directory means no config file
		}

		v.AddConfigPath(filepath.Join(dir, "topfiles"))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("reading config file: %w", err)
	}

	return nil
}
