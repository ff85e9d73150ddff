package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "table",
			choices:        []string{"table", "json", "yaml"},
			description:    "Output format.",
			expectedOutput: "`<TABLE|json|yaml>` Output format.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "desktop",
			choices:        []string{"auto", "desktop", "console"},
			description:    "Notification delivery.",
			expectedOutput: "`<auto|DESKTOP|console>` Notification delivery.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "json",
			choices:        []string{"json", "yaml"},
			description:    "",
			expectedOutput: "`<JSON|yaml>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "yaml",
			choices:        []string{"yaml", "YAML", "json", "json"},
			description:    "Select between options.",
			expectedOutput: "`<YAML|json>` Select between options.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  " console ",
			choices:        []string{" console ", " desktop "},
			description:    "Pick a notifier.",
			expectedOutput: "`<CONSOLE|desktop>` Pick a notifier.",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(testInstance, testCase.expectedOutput, actual)
		})
	}
}

func TestChoiceFlagAcceptsOnlyKnownChoices(testInstance *testing.T) {
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	formatValue := BindChoiceFlag(flagSet, "format", "table", []string{"table", "json", "yaml"}, "Output format.")
	require.Equal(testInstance, "table", formatValue.String())

	require.NoError(testInstance, flagSet.Parse([]string{"--format", " JSON "}))
	require.Equal(testInstance, "json", formatValue.String())
	require.True(testInstance, flagSet.Changed("format"))

	parseError := flagSet.Parse([]string{"--format", "xml"})
	require.Error(testInstance, parseError)
	require.Contains(testInstance, parseError.Error(), "expected one of table|json|yaml")
	require.Equal(testInstance, "json", formatValue.String())
	require.Equal(testInstance, "choice", formatValue.Type())
}
