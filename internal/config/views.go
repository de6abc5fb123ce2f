package config

import (
	"awesometts/internal/installer"
	"awesometts/internal/speech"

	"github.com/spf13/viper"
)

// Speech returns the engine configuration.
func Speech() speech.Config {
	return speech.Config{
		Type:                  viper.GetString("speech.engine"),
		GoogleCredentialsFile: viper.GetString("speech.google.credentials_file"),
		GoogleLanguage:        viper.GetString("speech.google.language"),
	}
}

// VoiceListMarker is the line printed before the voice names.
func VoiceListMarker() string {
	return viper.GetString("gateway.voice_list_marker")
}

// VerifyOutput reports whether synthesized files are decoded after writing.
func VerifyOutput() bool {
	return viper.GetBool("gateway.verify_output")
}

// Installer returns the installer layout.
func Installer() installer.Options {
	return installer.Options{
		AddonRoot:  viper.GetString("installer.addon_root"),
		Source:     viper.GetString("installer.source"),
		Files:      viper.GetStringSlice("installer.files"),
		Remove:     viper.GetStringSlice("installer.remove"),
		Exclude:    viper.GetStringSlice("installer.exclude"),
		ConfigFile: viper.GetString("installer.config_file"),
	}
}
