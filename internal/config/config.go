package config

import (
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// SetDefaults registers every key the gateway and installer read.
func SetDefaults() {
	viper.SetDefault("log.level", "warn")

	viper.SetDefault("speech.engine", "auto") // Auto-select the platform engine
	viper.SetDefault("speech.google.credentials_file", "")
	viper.SetDefault("speech.google.language", "en-US")

	viper.SetDefault("gateway.voice_list_marker", "__AWESOMETTS_VOICE_LIST__")
	viper.SetDefault("gateway.verify_output", true)

	viper.SetDefault("installer.addon_root", "addons")
	viper.SetDefault("installer.source", ".")
	viper.SetDefault("installer.files", []string{"AwesomeTTS.py", "awesometts"})
	viper.SetDefault("installer.remove", []string{"AwesomeTTS.py*", "awesometts"})
	viper.SetDefault("installer.exclude", []string{"*.pyc", "*.pyo", "__pycache__", ".DS_Store"})
	viper.SetDefault("installer.config_file", "awesometts/config.db")
}

// Load reads awesometts.yaml and AWESOMETTS_* environment variables on top
// of the defaults. A missing config file is not an error.
func Load() error {
	SetDefaults()

	viper.SetConfigName("awesometts")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.awesometts")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("awesometts")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}

	level, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		logrus.WithError(err).Warn("unknown log level, keeping warn")
		level = logrus.WarnLevel
	}
	logrus.SetLevel(level)

	return nil
}
