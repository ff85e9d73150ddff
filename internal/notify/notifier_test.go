package notify_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/cmdlauncher/internal/execshell"
	"github.com/temirov/cmdlauncher/internal/notify"
)

const (
	testTitleConstant           = "Command-Launcher Notification"
	testMessageConstant         = "Success: hello"
	testToolFailureOutput       = "no notification daemon"
	testLaunchFailureMessage    = "exec: not found"
	testUnsupportedKindConstant = "pager"
)

type recordingCommandRunner struct {
	commands []execshell.ShellCommand
	output   execshell.ProcessOutput
	runError error
}

func (runner *recordingCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ProcessOutput, error) {
	runner.commands = append(runner.commands, command)
	return runner.output, runner.runError
}

func locatorFor(availableTools ...string) notify.ToolLocator {
	return func(executable string) (string, error) {
		for _, availableTool := range availableTools {
			if availableTool == executable {
				return "/usr/bin/" + executable, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestWriterNotifierWritesTitledLines(testInstance *testing.T) {
	output := &bytes.Buffer{}
	notifier := notify.NewWriterNotifier(output)

	require.NoError(testInstance, notifier.Show(context.Background(), testTitleConstant, testMessageConstant))
	require.NoError(testInstance, notifier.Show(context.Background(), testTitleConstant, "Failure: boom"))

	require.Equal(testInstance, "[Command-Launcher Notification] Success: hello\n[Command-Launcher Notification] Failure: boom\n", output.String())
}

func TestWriterNotifierRequiresWriter(testInstance *testing.T) {
	require.ErrorIs(testInstance, notify.NewWriterNotifier(nil).Show(context.Background(), testTitleConstant, testMessageConstant), notify.ErrWriterNotConfigured)
}

func TestDesktopNotifierInvokesTool(testInstance *testing.T) {
	runner := &recordingCommandRunner{}
	notifier, creationError := notify.NewDesktopNotifier(runner, notify.ToolNotifySend, "critical", 3000, nil)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, notifier.Show(context.Background(), testTitleConstant, testMessageConstant))
	require.Len(testInstance, runner.commands, 1)
	require.Equal(testInstance, execshell.CommandName(notify.ToolNotifySend), runner.commands[0].Name)
	require.Equal(testInstance, []string{"-u", "critical", "-t", "3000", testTitleConstant, testMessageConstant}, runner.commands[0].Details.Arguments)
}

func TestDesktopNotifierReportsToolFailures(testInstance *testing.T) {
	testCases := []struct {
		name          string
		runner        *recordingCommandRunner
		expectedError string
	}{
		{
			name:          "non_zero_exit",
			runner:        &recordingCommandRunner{output: execshell.ProcessOutput{ExitCode: 1, StandardError: []byte(testToolFailureOutput + "\n")}},
			expectedError: "dunstify exited with code 1: " + testToolFailureOutput,
		},
		{
			name:          "launch_failure",
			runner:        &recordingCommandRunner{runError: errors.New(testLaunchFailureMessage)},
			expectedError: testLaunchFailureMessage,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			notifier, creationError := notify.NewDesktopNotifier(testCase.runner, notify.ToolDunstify, "normal", 5000, nil)
			require.NoError(testInstance, creationError)
			require.EqualError(testInstance, notifier.Show(context.Background(), testTitleConstant, testMessageConstant), testCase.expectedError)
		})
	}
}

func TestNewDesktopNotifierValidatesInputs(testInstance *testing.T) {
	_, missingRunnerError := notify.NewDesktopNotifier(nil, notify.ToolDunstify, "normal", 5000, nil)
	require.ErrorIs(testInstance, missingRunnerError, notify.ErrCommandRunnerNotConfigured)

	_, unsupportedToolError := notify.NewDesktopNotifier(&recordingCommandRunner{}, "growlnotify", "normal", 5000, nil)
	require.Error(testInstance, unsupportedToolError)
}

func TestNewNotifierSelectsImplementation(testInstance *testing.T) {
	testCases := []struct {
		name           string
		configuration  notify.Configuration
		locator        notify.ToolLocator
		expectedTool   string
		expectedWriter bool
		expectedError  error
		expectAnyError bool
	}{
		{
			name:           "console_kind",
			configuration:  notify.Configuration{Kind: notify.KindConsole},
			locator:        locatorFor(notify.ToolDunstify),
			expectedWriter: true,
		},
		{
			name:          "auto_prefers_dunstify",
			configuration: notify.Configuration{Kind: notify.KindAuto},
			locator:       locatorFor(notify.ToolNotifySend, notify.ToolDunstify),
			expectedTool:  notify.ToolDunstify,
		},
		{
			name:          "auto_uses_notify_send",
			configuration: notify.Configuration{},
			locator:       locatorFor(notify.ToolNotifySend),
			expectedTool:  notify.ToolNotifySend,
		},
		{
			name:           "auto_falls_back_to_terminal",
			configuration:  notify.Configuration{Kind: " AUTO "},
			locator:        locatorFor(),
			expectedWriter: true,
		},
		{
			name:          "desktop_requires_tool",
			configuration: notify.Configuration{Kind: notify.KindDesktop},
			locator:       locatorFor(),
			expectedError: notify.ErrNotificationToolUnavailable,
		},
		{
			name:          "configured_tool_missing",
			configuration: notify.Configuration{Kind: notify.KindDesktop, Tool: notify.ToolNotifySend},
			locator:       locatorFor(notify.ToolDunstify),
			expectedError: notify.ErrNotificationToolUnavailable,
		},
		{
			name:           "unsupported_kind",
			configuration:  notify.Configuration{Kind: testUnsupportedKindConstant},
			locator:        locatorFor(),
			expectAnyError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			notifier, creationError := notify.NewNotifier(testCase.configuration, notify.Dependencies{
				Runner:  &recordingCommandRunner{},
				Output:  &bytes.Buffer{},
				Locator: testCase.locator,
			})

			switch {
			case testCase.expectedError != nil:
				require.ErrorIs(testInstance, creationError, testCase.expectedError)
				require.Nil(testInstance, notifier)
			case testCase.expectAnyError:
				require.Error(testInstance, creationError)
				require.Nil(testInstance, notifier)
			case testCase.expectedWriter:
				require.NoError(testInstance, creationError)
				require.IsType(testInstance, &notify.WriterNotifier{}, notifier)
			default:
				require.NoError(testInstance, creationError)
				desktopNotifier, isDesktop := notifier.(*notify.DesktopNotifier)
				require.True(testInstance, isDesktop)
				require.Equal(testInstance, testCase.expectedTool, desktopNotifier.Tool())
			}
		})
	}
}

func TestConfigurationSanitizeAppliesDefaults(testInstance *testing.T) {
	sanitized := notify.Configuration{Kind: " Desktop ", Urgency: "", TimeoutMilliseconds: -1, Title: "  "}.Sanitize()
	require.Equal(testInstance, notify.Configuration{
		Kind:                notify.KindDesktop,
		Tool:                notify.ToolAuto,
		Urgency:             "normal",
		TimeoutMilliseconds: 5000,
		Title:               notify.DefaultTitle,
	}, sanitized)
}

func TestDefaultConfigurationValuesUsePrefix(testInstance *testing.T) {
	values := notify.DefaultConfigurationValues("notifications")
	require.Equal(testInstance, notify.KindAuto, values["notifications.kind"])
	require.Equal(testInstance, notify.DefaultTitle, values["notifications.title"])
	require.Equal(testInstance, 5000, values["notifications.timeout_ms"])
}
