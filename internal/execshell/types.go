package execshell

import "context"

// CommandName identifies the executable launched by a CommandRunner.
type CommandName string

// CommandDetails describes the arguments and environment of an invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ProcessOutput holds the raw captured streams and exit code of a finished process.
type ProcessOutput struct {
	StandardOutput []byte
	StandardError  []byte
	ExitCode       int
}

// CommandRunner starts a process and waits for it to exit.
// A process that started and exited non-zero is reported through ProcessOutput, not an error.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ProcessOutput, error)
}

// ExecutionResult is the classified outcome of one command line.
type ExecutionResult struct {
	Succeeded bool
	Message   string
	ExitCode  int
}
