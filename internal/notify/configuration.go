package notify

import (
	"strings"
)

const (
	// DefaultTitle is the heading of every launcher notification.
	DefaultTitle = "Command-Launcher Notification"

	// KindAuto prefers desktop notifications and falls back to the terminal.
	KindAuto = "auto"
	// KindDesktop requires a desktop notification tool.
	KindDesktop = "desktop"
	// KindConsole writes notifications to the terminal.
	KindConsole = "console"

	// ToolAuto detects the notification tool on the PATH.
	ToolAuto = "auto"
	// ToolNotifySend selects libnotify's notify-send.
	ToolNotifySend = "notify-send"
	// ToolDunstify selects dunst's dunstify.
	ToolDunstify = "dunstify"

	defaultUrgencyConstant             = "normal"
	defaultTimeoutMillisecondsConstant = 5000
	kindConfigKeyConstant              = "kind"
	toolConfigKeyConstant              = "tool"
	urgencyConfigKeyConstant           = "urgency"
	timeoutConfigKeyConstant           = "timeout_ms"
	titleConfigKeyConstant             = "title"
	configurationKeySeparatorConstant  = "."
)

// Configuration controls how notifications are delivered.
type Configuration struct {
	Kind                string `mapstructure:"kind"`
	Tool                string `mapstructure:"tool"`
	Urgency             string `mapstructure:"urgency"`
	TimeoutMilliseconds int    `mapstructure:"timeout_ms"`
	Title               string `mapstructure:"title"`
}

// DefaultConfiguration returns automatic delivery with a five second timeout.
func DefaultConfiguration() Configuration {
	return Configuration{
		Kind:                KindAuto,
		Tool:                ToolAuto,
		Urgency:             defaultUrgencyConstant,
		TimeoutMilliseconds: defaultTimeoutMillisecondsConstant,
		Title:               DefaultTitle,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, kindConfigKeyConstant):    defaults.Kind,
		joinConfigurationKey(prefix, toolConfigKeyConstant):    defaults.Tool,
		joinConfigurationKey(prefix, urgencyConfigKeyConstant): defaults.Urgency,
		joinConfigurationKey(prefix, timeoutConfigKeyConstant): defaults.TimeoutMilliseconds,
		joinConfigurationKey(prefix, titleConfigKeyConstant):   defaults.Title,
	}
}

// Sanitize normalizes names and fills unset values with defaults.
func (configuration Configuration) Sanitize() Configuration {
	defaults := DefaultConfiguration()
	sanitized := configuration
	sanitized.Kind = strings.ToLower(strings.TrimSpace(configuration.Kind))
	sanitized.Tool = strings.ToLower(strings.TrimSpace(configuration.Tool))
	sanitized.Urgency = strings.ToLower(strings.TrimSpace(configuration.Urgency))
	sanitized.Title = strings.TrimSpace(configuration.Title)

	if len(sanitized.Kind) == 0 {
		sanitized.Kind = defaults.Kind
	}
	if len(sanitized.Tool) == 0 {
		sanitized.Tool = defaults.Tool
	}
	if len(sanitized.Urgency) == 0 {
		sanitized.Urgency = defaults.Urgency
	}
	if sanitized.TimeoutMilliseconds <= 0 {
		sanitized.TimeoutMilliseconds = defaults.TimeoutMilliseconds
	}
	if len(sanitized.Title) == 0 {
		sanitized.Title = defaults.Title
	}

	return sanitized
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
