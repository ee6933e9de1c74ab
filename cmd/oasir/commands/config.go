package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/erraggy/oasir/loader"
)

// configName is the base name of the config file searched for by default.
const configName = ".oasir"

// initConfig binds the executing command's flags, reads OASIR_* environment
// variables and the config file, and builds the logger.
func (a *app) initConfig(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	a.v.SetEnvPrefix("OASIR")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if file := a.v.GetString("config"); file != "" {
		a.v.SetConfigFile(file)
	} else {
		a.v.SetConfigName(configName)
		a.v.SetConfigType("yaml")
		a.v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(home)
		}
	}
	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(a.v.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log-level %q: must be debug, info, warn, or error", a.v.GetString("log-level"))
	}
	handler := slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level})
	a.logger = loader.NewSlogAdapter(slog.New(handler))
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("loaded config file", "path", used)
	}
	return nil
}
