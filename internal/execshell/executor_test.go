package execshell_test

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/japanese"

	"github.com/temirov/cmdlauncher/internal/execshell"
)

const (
	testExecutionSuccessCaseNameConstant         = "success"
	testExecutionFailureCaseNameConstant         = "failure_exit_code"
	testExecutionRunnerErrorCaseNameConstant     = "runner_error"
	testLoggerInitializationCaseNameConstant     = "logger_validation"
	testRunnerInitializationCaseNameConstant     = "runner_validation"
	testExecutableInitializationCaseNameConstant = "executable_validation"
	testEncodingInitializationCaseNameConstant   = "encoding_validation"
	testSuccessfulInitializationCaseNameConstant = "successful_initialization"
	testCommandLineConstant                      = "echo ok"
	testShellExecutableConstant                  = "/bin/sh"
	testShellFlagConstant                        = "-c"
	testStandardOutputConstant                   = "ok\r\n"
	testStandardErrorOutputConstant              = "failure\n"
	testUnsupportedEncodingConstant              = "klingon"
)

type recordingCommandRunner struct {
	processOutput    execshell.ProcessOutput
	executionError   error
	recordedCommands []execshell.ShellCommand
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ProcessOutput, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	return runner.processOutput, runner.executionError
}

type recordingObserver struct {
	started   []execshell.ShellCommand
	completed []execshell.ExecutionResult
	failures  []error
}

func (eventObserver *recordingObserver) CommandStarted(command execshell.ShellCommand) {
	eventObserver.started = append(eventObserver.started, command)
}

func (eventObserver *recordingObserver) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	eventObserver.completed = append(eventObserver.completed, result)
}

func (eventObserver *recordingObserver) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventObserver.failures = append(eventObserver.failures, failure)
}

func testShellConfiguration() execshell.ShellConfiguration {
	return execshell.ShellConfiguration{
		Executable:     testShellExecutableConstant,
		Arguments:      []string{testShellFlagConstant},
		OutputEncoding: "shift_jis",
	}
}

func TestShellExecutorInitializationValidation(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logger        *zap.Logger
		runner        execshell.CommandRunner
		configuration execshell.ShellConfiguration
		expectError   error
		expectSuccess bool
	}{
		{
			name:          testLoggerInitializationCaseNameConstant,
			logger:        nil,
			runner:        &recordingCommandRunner{},
			configuration: testShellConfiguration(),
			expectError:   execshell.ErrLoggerNotConfigured,
		},
		{
			name:          testRunnerInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        nil,
			configuration: testShellConfiguration(),
			expectError:   execshell.ErrCommandRunnerNotConfigured,
		},
		{
			name:          testExecutableInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			configuration: execshell.ShellConfiguration{Executable: "  "},
			expectError:   execshell.ErrShellExecutableRequired,
		},
		{
			name:          testSuccessfulInitializationCaseNameConstant,
			logger:        zap.NewNop(),
			runner:        &recordingCommandRunner{},
			configuration: testShellConfiguration(),
			expectSuccess: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor, creationError := execshell.NewShellExecutor(testCase.logger, testCase.runner, testCase.configuration)
			if testCase.expectSuccess {
				require.NoError(testInstance, creationError)
				require.NotNil(testInstance, executor)
			} else {
				require.Error(testInstance, creationError)
				require.ErrorIs(testInstance, creationError, testCase.expectError)
			}
		})
	}

	testInstance.Run(testEncodingInitializationCaseNameConstant, func(testInstance *testing.T) {
		configuration := testShellConfiguration()
		configuration.OutputEncoding = testUnsupportedEncodingConstant
		executor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{}, configuration)
		require.Error(testInstance, creationError)
		require.Nil(testInstance, executor)
	})
}

func TestShellExecutorRunBehavior(testInstance *testing.T) {
	testCases := []struct {
		name              string
		processOutput     execshell.ProcessOutput
		runnerError       error
		expectLaunchError bool
		expectedResult    execshell.ExecutionResult
		expectedLogCount  int
	}{
		{
			name: testExecutionSuccessCaseNameConstant,
			processOutput: execshell.ProcessOutput{
				StandardOutput: []byte(testStandardOutputConstant),
				StandardError:  []byte("ignored warning"),
				ExitCode:       0,
			},
			expectedResult:   execshell.ExecutionResult{Succeeded: true, Message: "Success: ok", ExitCode: 0},
			expectedLogCount: 2,
		},
		{
			name: testExecutionFailureCaseNameConstant,
			processOutput: execshell.ProcessOutput{
				StandardOutput: []byte("partial output"),
				StandardError:  []byte(testStandardErrorOutputConstant),
				ExitCode:       3,
			},
			expectedResult:   execshell.ExecutionResult{Succeeded: false, Message: "Failure: failure", ExitCode: 3},
			expectedLogCount: 2,
		},
		{
			name:              testExecutionRunnerErrorCaseNameConstant,
			runnerError:       errors.New("exec: not found"),
			expectLaunchError: true,
			expectedLogCount:  2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observerLogs := observer.New(zap.DebugLevel)
			logger := zap.New(observerCore)

			recordingRunner := &recordingCommandRunner{
				processOutput:  testCase.processOutput,
				executionError: testCase.runnerError,
			}
			eventObserver := &recordingObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(logger, recordingRunner, testShellConfiguration(), execshell.WithCommandEventObserver(eventObserver))
			require.NoError(testInstance, creationError)

			executionResult, executionError := shellExecutor.Run(context.Background(), testCommandLineConstant)

			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			recordedCommand := recordingRunner.recordedCommands[0]
			require.Equal(testInstance, execshell.CommandName(testShellExecutableConstant), recordedCommand.Name)
			require.Equal(testInstance, []string{testShellFlagConstant, testCommandLineConstant}, recordedCommand.Details.Arguments)
			require.Len(testInstance, eventObserver.started, 1)

			if testCase.expectLaunchError {
				require.Error(testInstance, executionError)
				require.ErrorIs(testInstance, executionError, execshell.ErrProcessLaunch)
				require.IsType(testInstance, execshell.ProcessLaunchError{}, executionError)
				require.Equal(testInstance, execshell.ExecutionResult{}, executionResult)
				require.Len(testInstance, eventObserver.failures, 1)
				require.Empty(testInstance, eventObserver.completed)
			} else {
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.expectedResult, executionResult)
				require.Len(testInstance, eventObserver.completed, 1)
				require.Empty(testInstance, eventObserver.failures)
			}

			require.Len(testInstance, observerLogs.All(), testCase.expectedLogCount)
		})
	}
}

func TestShellExecutorDecodesLegacyEncodedOutput(testInstance *testing.T) {
	encodedOutput, encodeError := japanese.ShiftJIS.NewEncoder().Bytes([]byte("テスト完了"))
	require.NoError(testInstance, encodeError)

	recordingRunner := &recordingCommandRunner{processOutput: execshell.ProcessOutput{StandardOutput: encodedOutput}}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, testShellConfiguration())
	require.NoError(testInstance, creationError)

	executionResult, executionError := shellExecutor.Run(context.Background(), testCommandLineConstant)
	require.NoError(testInstance, executionError)
	require.True(testInstance, executionResult.Succeeded)
	require.Equal(testInstance, "Success: テスト完了", executionResult.Message)
}

func TestShellExecutorAppliesWorkingDirectory(testInstance *testing.T) {
	configuration := testShellConfiguration()
	configuration.WorkingDirectory = " /srv/launcher "
	recordingRunner := &recordingCommandRunner{}

	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, configuration)
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.Run(context.Background(), testCommandLineConstant)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "/srv/launcher", recordingRunner.recordedCommands[0].Details.WorkingDirectory)
}

func TestShellExecutorAgainstRealShell(testInstance *testing.T) {
	if runtime.GOOS == "windows" {
		testInstance.Skip("posix shell required")
	}

	configuration := testShellConfiguration()
	configuration.OutputEncoding = "utf-8"
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), configuration)
	require.NoError(testInstance, creationError)

	testCases := []struct {
		name           string
		commandLine    string
		expectedResult execshell.ExecutionResult
	}{
		{
			name:           "exit_zero_reports_stdout",
			commandLine:    "echo ok; echo noise 1>&2",
			expectedResult: execshell.ExecutionResult{Succeeded: true, Message: "Success: ok", ExitCode: 0},
		},
		{
			name:           "exit_non_zero_reports_stderr_only",
			commandLine:    "echo visible; echo broken 1>&2; exit 4",
			expectedResult: execshell.ExecutionResult{Succeeded: false, Message: "Failure: broken", ExitCode: 4},
		},
		{
			name:           "silent_failure_has_bare_prefix",
			commandLine:    "exit 1",
			expectedResult: execshell.ExecutionResult{Succeeded: false, Message: "Failure: ", ExitCode: 1},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executionResult, executionError := shellExecutor.Run(context.Background(), testCase.commandLine)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedResult, executionResult)
		})
	}
}

func TestShellExecutorReportsLaunchFailureForMissingShell(testInstance *testing.T) {
	configuration := execshell.ShellConfiguration{
		Executable: "/nonexistent/cmdlauncher-shell",
		Arguments:  []string{testShellFlagConstant},
	}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), execshell.NewOSCommandRunner(), configuration)
	require.NoError(testInstance, creationError)

	executionResult, executionError := shellExecutor.Run(context.Background(), testCommandLineConstant)
	require.ErrorIs(testInstance, executionError, execshell.ErrProcessLaunch)

	var launchError execshell.ProcessLaunchError
	require.True(testInstance, errors.As(executionError, &launchError))
	require.Equal(testInstance, testCommandLineConstant, launchError.CommandLine)
	require.False(testInstance, executionResult.Succeeded)
}
