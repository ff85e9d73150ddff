package execshell

import (
	"runtime"
	"strings"
)

const (
	windowsOperatingSystemConstant    = "windows"
	windowsShellExecutableConstant    = "powershell.exe"
	windowsShellCommandFlagConstant   = "-Command"
	posixShellExecutableConstant      = "/bin/sh"
	posixShellCommandFlagConstant     = "-c"
	defaultOutputEncodingNameConstant = "shift_jis"
	shellExecutableConfigKeyConstant  = "executable"
	shellArgumentsConfigKeyConstant   = "arguments"
	shellEncodingConfigKeyConstant    = "output_encoding"
	shellDirectoryConfigKeyConstant   = "working_directory"
	configurationKeySeparatorConstant = "."
)

// ShellConfiguration selects the fixed subshell used for every command line.
type ShellConfiguration struct {
	Executable       string   `mapstructure:"executable"`
	Arguments        []string `mapstructure:"arguments"`
	OutputEncoding   string   `mapstructure:"output_encoding"`
	WorkingDirectory string   `mapstructure:"working_directory"`
}

// DefaultShellConfiguration returns PowerShell on Windows and /bin/sh elsewhere, decoding Shift_JIS output.
func DefaultShellConfiguration() ShellConfiguration {
	if runtime.GOOS == windowsOperatingSystemConstant {
		return ShellConfiguration{
			Executable:     windowsShellExecutableConstant,
			Arguments:      []string{windowsShellCommandFlagConstant},
			OutputEncoding: defaultOutputEncodingNameConstant,
		}
	}
	return ShellConfiguration{
		Executable:     posixShellExecutableConstant,
		Arguments:      []string{posixShellCommandFlagConstant},
		OutputEncoding: defaultOutputEncodingNameConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys under the provided prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultShellConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, shellExecutableConfigKeyConstant): defaults.Executable,
		joinConfigurationKey(prefix, shellArgumentsConfigKeyConstant):  defaults.Arguments,
		joinConfigurationKey(prefix, shellEncodingConfigKeyConstant):   defaults.OutputEncoding,
		joinConfigurationKey(prefix, shellDirectoryConfigKeyConstant):  "",
	}
}

// Sanitize trims configuration values and drops empty arguments.
func (configuration ShellConfiguration) Sanitize() ShellConfiguration {
	sanitized := configuration
	sanitized.Executable = strings.TrimSpace(configuration.Executable)
	sanitized.OutputEncoding = strings.TrimSpace(configuration.OutputEncoding)
	sanitized.WorkingDirectory = strings.TrimSpace(configuration.WorkingDirectory)

	sanitizedArguments := make([]string, 0, len(configuration.Arguments))
	for _, argument := range configuration.Arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		sanitizedArguments = append(sanitizedArguments, trimmedArgument)
	}
	sanitized.Arguments = sanitizedArguments

	if len(sanitized.OutputEncoding) == 0 {
		sanitized.OutputEncoding = defaultOutputEncodingNameConstant
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
