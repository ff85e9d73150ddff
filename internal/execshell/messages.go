package execshell

import (
	"fmt"
	"strings"
)

const (
	// SuccessMessagePrefix starts the message of a command that exited with status 0.
	SuccessMessagePrefix = "Success: "
	// FailureMessagePrefix starts the message of a command that exited non-zero or could not start.
	FailureMessagePrefix = "Failure: "

	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%q via %s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	outputSuffixTemplateConstant            = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return fmt.Sprintf(genericStartTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildSuccessMessage formats the message describing a command that exited with status 0.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return fmt.Sprintf(genericSuccessTemplateConstant, formatter.formatCommandLabel(command))
}

// BuildFailureMessage formats the message describing a command that exited non-zero.
// The result message already carries the decoded standard error text.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	failureDetail := strings.TrimSpace(strings.TrimPrefix(result.Message, FailureMessagePrefix))
	return fmt.Sprintf(genericFailureTemplateConstant, formatter.formatCommandLabel(command), result.ExitCode, formatter.formatOutputSuffix(failureDetail))
}

// BuildExecutionFailureMessage formats the message describing a subshell that could not be launched.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	failureMessage := unknownFailureMessageConstant
	if failure != nil {
		failureMessage = failure.Error()
	}
	return fmt.Sprintf(genericExecutionFailureTemplateConstant, formatter.formatCommandLabel(command), failureMessage)
}

// BuildResultMessage prefixes decoded output with the outcome marker shown to the user.
func (formatter CommandMessageFormatter) BuildResultMessage(succeeded bool, decodedOutput string) string {
	if succeeded {
		return SuccessMessagePrefix + decodedOutput
	}
	return FailureMessagePrefix + decodedOutput
}

// formatCommandLabel renders the command line followed by the shell that interprets it.
func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLine := emptyStringConstant
	shellParts := []string{string(command.Name)}
	argumentCount := len(command.Details.Arguments)
	if argumentCount > 0 {
		commandLine = command.Details.Arguments[argumentCount-1]
		shellParts = append(shellParts, command.Details.Arguments[:argumentCount-1]...)
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLine, strings.Join(shellParts, " "), formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatOutputSuffix(output string) string {
	if len(output) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(outputSuffixTemplateConstant, output)
}
