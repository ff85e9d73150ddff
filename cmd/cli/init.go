package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	initCommandUseConstant                = "init"
	initCommandShortConstant              = "Write the default configuration file"
	initCommandLongConstant               = "init writes the built-in configuration to the per-user configuration directory, or to --path, so it can be edited."
	initPathFlagNameConstant              = "path"
	initPathFlagUsageConstant             = "Destination of the configuration file."
	initForceFlagNameConstant             = "force"
	initForceFlagUsageConstant            = "Overwrite an existing configuration file."
	initConfigurationFileNameConstant     = configurationNameConstant + "." + configurationTypeConstant
	initConfigurationPermissionsConstant  = 0o644
	initDirectoryPermissionsConstant      = 0o755
	initWrittenTemplateConstant           = "Wrote %s\n"
	initWrittenLogMessageConstant         = "default configuration written"
	initLogFieldPathConstant              = "path"
	initExistsMessageConstant             = "configuration file already exists"
	initExistsTemplateConstant            = "%w: %s (use --force to overwrite)"
	initInvalidEmbeddedTemplateConstant   = "embedded configuration is invalid: %w"
	initFileSystemMissingMessageConstant  = "file system not configured"
	initDestinationErrorTemplateConstant  = "unable to prepare %s: %w"
	initWriteErrorTemplateConstant        = "unable to write %s: %w"
	initExistenceCheckTemplateConstant    = "unable to inspect %s: %w"
	initWorkingDirectoryDestinationPrefix = "."
)

// ErrConfigurationExists reports an existing destination when --force is not set.
var ErrConfigurationExists = errors.New(initExistsMessageConstant)

var errInitFileSystemMissing = errors.New(initFileSystemMissingMessageConstant)

// InitCommandBuilder assembles the init subcommand.
type InitCommandBuilder struct {
	LoggerProvider LoggerProvider
	FileSystem     afero.Fs
	Output         io.Writer
	// DestinationProvider overrides the default destination when --path is absent.
	DestinationProvider func() string
}

// Build constructs the cobra command.
func (builder InitCommandBuilder) Build() *cobra.Command {
	command := &cobra.Command{
		Use:   initCommandUseConstant,
		Short: initCommandShortConstant,
		Long:  initCommandLongConstant,
		Args:  cobra.NoArgs,
	}
	destinationPath := command.Flags().String(initPathFlagNameConstant, "", initPathFlagUsageConstant)
	overwrite := command.Flags().Bool(initForceFlagNameConstant, false, initForceFlagUsageConstant)

	command.RunE = func(command *cobra.Command, arguments []string) error {
		if builder.FileSystem == nil {
			return errInitFileSystemMissing
		}

		configurationContent, _ := EmbeddedDefaultConfiguration()
		var parsedConfiguration map[string]any
		if parseError := yaml.Unmarshal(configurationContent, &parsedConfiguration); parseError != nil {
			return fmt.Errorf(initInvalidEmbeddedTemplateConstant, parseError)
		}

		destination := strings.TrimSpace(*destinationPath)
		if len(destination) == 0 {
			destination = builder.defaultDestination()
		}

		destinationExists, existenceError := afero.Exists(builder.FileSystem, destination)
		if existenceError != nil {
			return fmt.Errorf(initExistenceCheckTemplateConstant, destination, existenceError)
		}
		if destinationExists && !*overwrite {
			return fmt.Errorf(initExistsTemplateConstant, ErrConfigurationExists, destination)
		}

		destinationDirectory := filepath.Dir(destination)
		if destinationDirectory != initWorkingDirectoryDestinationPrefix {
			if directoryError := builder.FileSystem.MkdirAll(destinationDirectory, initDirectoryPermissionsConstant); directoryError != nil {
				return fmt.Errorf(initDestinationErrorTemplateConstant, destinationDirectory, directoryError)
			}
		}

		if writeError := afero.WriteFile(builder.FileSystem, destination, configurationContent, initConfigurationPermissionsConstant); writeError != nil {
			return fmt.Errorf(initWriteErrorTemplateConstant, destination, writeError)
		}

		resolveLogger(builder.LoggerProvider).Info(initWrittenLogMessageConstant, zap.String(initLogFieldPathConstant, destination))

		_, outputError := fmt.Fprintf(resolveOutput(builder.Output, command), initWrittenTemplateConstant, destination)
		return outputError
	}

	return command
}

func (builder InitCommandBuilder) defaultDestination() string {
	if builder.DestinationProvider != nil {
		if destination := strings.TrimSpace(builder.DestinationProvider()); len(destination) > 0 {
			return destination
		}
	}

	userConfigurationDirectory, userConfigurationDirectoryError := os.UserConfigDir()
	if userConfigurationDirectoryError != nil || len(userConfigurationDirectory) == 0 {
		return initConfigurationFileNameConstant
	}
	return filepath.Join(userConfigurationDirectory, applicationNameConstant, initConfigurationFileNameConstant)
}
