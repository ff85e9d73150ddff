package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/cmdlauncher/internal/execshell"
)

const (
	writerLineTemplateConstant          = "[%s] %s\n"
	urgencyFlagConstant                 = "-u"
	timeoutFlagConstant                 = "-t"
	toolUnavailableMessageConstant      = "no desktop notification tool found"
	unsupportedKindTemplateConstant     = "unsupported notifier kind %q"
	unsupportedToolTemplateConstant     = "unsupported notification tool %q"
	toolFailedTemplateConstant          = "%s exited with code %d: %s"
	toolMissingTemplateConstant         = "%w: %s"
	writerNotConfiguredMessageConstant  = "notification writer not configured"
	runnerNotConfiguredMessageConstant  = "notification command runner not configured"
	desktopFallbackMessageConstant      = "desktop notifications unavailable, writing to terminal"
	notificationShownMessageConstant    = "notification shown"
	logFieldNotificationToolConstant    = "tool"
	logFieldNotificationMessageConstant = "message"
)

var (
	// ErrNotificationToolUnavailable indicates neither notify-send nor dunstify is installed.
	ErrNotificationToolUnavailable = errors.New(toolUnavailableMessageConstant)
	// ErrWriterNotConfigured indicates a WriterNotifier without an output.
	ErrWriterNotConfigured = errors.New(writerNotConfiguredMessageConstant)
	// ErrCommandRunnerNotConfigured indicates a DesktopNotifier without a runner.
	ErrCommandRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)
)

// Notifier displays a titled message to the operator.
type Notifier interface {
	Show(executionContext context.Context, title string, message string) error
}

// ToolLocator resolves an executable name on the PATH.
type ToolLocator func(executable string) (string, error)

// WriterNotifier writes notifications as "[title] message" lines.
type WriterNotifier struct {
	writerMutex sync.Mutex
	writer      io.Writer
}

// NewWriterNotifier constructs a notifier writing to writer.
func NewWriterNotifier(writer io.Writer) *WriterNotifier {
	return &WriterNotifier{writer: writer}
}

// Show writes one line per notification.
func (notifier *WriterNotifier) Show(_ context.Context, title string, message string) error {
	if notifier == nil || notifier.writer == nil {
		return ErrWriterNotConfigured
	}
	notifier.writerMutex.Lock()
	defer notifier.writerMutex.Unlock()
	_, writeError := fmt.Fprintf(notifier.writer, writerLineTemplateConstant, title, message)
	return writeError
}

// DesktopNotifier sends notifications through notify-send or dunstify.
type DesktopNotifier struct {
	runner              execshell.CommandRunner
	tool                string
	urgency             string
	timeoutMilliseconds int
	logger              *zap.Logger
}

// NewDesktopNotifier constructs a notifier invoking tool through runner.
func NewDesktopNotifier(runner execshell.CommandRunner, tool string, urgency string, timeoutMilliseconds int, logger *zap.Logger) (*DesktopNotifier, error) {
	if runner == nil {
		return nil, ErrCommandRunnerNotConfigured
	}
	if tool != ToolNotifySend && tool != ToolDunstify {
		return nil, fmt.Errorf(unsupportedToolTemplateConstant, tool)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DesktopNotifier{
		runner:              runner,
		tool:                tool,
		urgency:             urgency,
		timeoutMilliseconds: timeoutMilliseconds,
		logger:              logger,
	}, nil
}

// Tool reports the notification executable in use.
func (notifier *DesktopNotifier) Tool() string {
	return notifier.tool
}

// Show runs the notification tool and waits for it to exit.
func (notifier *DesktopNotifier) Show(executionContext context.Context, title string, message string) error {
	command := execshell.ShellCommand{
		Name: execshell.CommandName(notifier.tool),
		Details: execshell.CommandDetails{
			Arguments: []string{
				urgencyFlagConstant, notifier.urgency,
				timeoutFlagConstant, strconv.Itoa(notifier.timeoutMilliseconds),
				title,
				message,
			},
		},
	}

	output, runError := notifier.runner.Run(executionContext, command)
	if runError != nil {
		return runError
	}
	if output.ExitCode != 0 {
		return fmt.Errorf(toolFailedTemplateConstant, notifier.tool, output.ExitCode, strings.TrimSpace(string(output.StandardError)))
	}

	notifier.logger.Debug(
		notificationShownMessageConstant,
		zap.String(logFieldNotificationToolConstant, notifier.tool),
		zap.String(logFieldNotificationMessageConstant, message),
	)
	return nil
}

// Dependencies enumerates collaborators used by NewNotifier.
type Dependencies struct {
	Runner  execshell.CommandRunner
	Output  io.Writer
	Locator ToolLocator
	Logger  *zap.Logger
}

// NewNotifier selects the notifier described by configuration.
// The auto kind falls back to the terminal writer when no desktop tool is installed.
func NewNotifier(configuration Configuration, dependencies Dependencies) (Notifier, error) {
	sanitized := configuration.Sanitize()

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	switch sanitized.Kind {
	case KindConsole:
		return NewWriterNotifier(dependencies.Output), nil
	case KindDesktop, KindAuto:
	default:
		return nil, fmt.Errorf(unsupportedKindTemplateConstant, sanitized.Kind)
	}

	tool, detectionError := resolveTool(sanitized.Tool, dependencies.Locator)
	if detectionError != nil {
		if sanitized.Kind == KindAuto && errors.Is(detectionError, ErrNotificationToolUnavailable) {
			logger.Debug(desktopFallbackMessageConstant)
			return NewWriterNotifier(dependencies.Output), nil
		}
		return nil, detectionError
	}

	desktopNotifier, creationError := NewDesktopNotifier(dependencies.Runner, tool, sanitized.Urgency, sanitized.TimeoutMilliseconds, logger)
	if creationError != nil {
		return nil, creationError
	}
	return desktopNotifier, nil
}

// resolveTool prefers dunstify over notify-send when detecting.
func resolveTool(configuredTool string, locator ToolLocator) (string, error) {
	if locator == nil {
		locator = exec.LookPath
	}

	switch configuredTool {
	case ToolNotifySend, ToolDunstify:
		if _, lookupError := locator(configuredTool); lookupError != nil {
			return "", fmt.Errorf(toolMissingTemplateConstant, ErrNotificationToolUnavailable, configuredTool)
		}
		return configuredTool, nil
	case ToolAuto:
		for _, candidate := range []string{ToolDunstify, ToolNotifySend} {
			if _, lookupError := locator(candidate); lookupError == nil {
				return candidate, nil
			}
		}
		return "", ErrNotificationToolUnavailable
	default:
		return "", fmt.Errorf(unsupportedToolTemplateConstant, configuredTool)
	}
}
