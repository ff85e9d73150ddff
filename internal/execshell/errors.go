package execshell

import (
	"errors"
	"fmt"
)

const (
	loggerNotConfiguredMessageConstant        = "logger not configured"
	commandRunnerNotConfiguredMessageConstant = "command runner not configured"
	shellExecutableRequiredMessageConstant    = "shell executable must be provided"
	processLaunchMessageConstant              = "subshell could not be started"
	processLaunchErrorTemplateConstant        = "%s (%s): %v"
	unsupportedEncodingTemplateConstant       = "unsupported output encoding %q: %w"
)

// ErrLoggerNotConfigured indicates that a nil logger was provided.
var ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)

// ErrCommandRunnerNotConfigured indicates that a nil command runner was provided.
var ErrCommandRunnerNotConfigured = errors.New(commandRunnerNotConfiguredMessageConstant)

// ErrShellExecutableRequired indicates the shell configuration has no executable.
var ErrShellExecutableRequired = errors.New(shellExecutableRequiredMessageConstant)

// ErrProcessLaunch matches ProcessLaunchError values with errors.Is.
var ErrProcessLaunch = errors.New(processLaunchMessageConstant)

// ProcessLaunchError reports a subshell that could not be spawned at all.
type ProcessLaunchError struct {
	Executable  CommandName
	CommandLine string
	Cause       error
}

// Error describes the launch failure.
func (launchError ProcessLaunchError) Error() string {
	return fmt.Sprintf(processLaunchErrorTemplateConstant, processLaunchMessageConstant, launchError.Executable, launchError.Cause)
}

// Unwrap exposes the underlying os/exec error.
func (launchError ProcessLaunchError) Unwrap() error {
	return launchError.Cause
}

// Is reports whether target is ErrProcessLaunch.
func (launchError ProcessLaunchError) Is(target error) bool {
	return target == ErrProcessLaunch
}

func newUnsupportedEncodingError(encodingName string, cause error) error {
	return fmt.Errorf(unsupportedEncodingTemplateConstant, encodingName, cause)
}
