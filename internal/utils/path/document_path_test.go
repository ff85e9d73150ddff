package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/cmdlauncher/internal/utils/path"
)

const (
	testHomeDirectoryConstant     = "/home/operator"
	testEnvironmentVariableName   = "CMDLAUNCHER_TEST_DATA"
	testEnvironmentVariableValue  = "/srv/launcher"
	testHomeLookupFailureMessage  = "no home"
	testDefaultDocumentPathString = "commands.json"
)

func TestDocumentPathResolverResolve(testInstance *testing.T) {
	testInstance.Setenv(testEnvironmentVariableName, testEnvironmentVariableValue)
	resolver := pathutils.NewDocumentPathResolverWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		candidate    string
		expectedPath string
	}{
		{name: "empty", candidate: "   ", expectedPath: ""},
		{name: "relative_kept", candidate: testDefaultDocumentPathString, expectedPath: testDefaultDocumentPathString},
		{name: "relative_cleaned", candidate: "./config/../commands.json", expectedPath: testDefaultDocumentPathString},
		{name: "tilde_only", candidate: "~", expectedPath: testHomeDirectoryConstant},
		{name: "tilde_prefix", candidate: " ~/launcher/commands.json ", expectedPath: filepath.Join(testHomeDirectoryConstant, "launcher", testDefaultDocumentPathString)},
		{name: "tilde_user_untouched", candidate: "~other/commands.json", expectedPath: "~other/commands.json"},
		{name: "environment_variable", candidate: "$" + testEnvironmentVariableName + "/commands.json", expectedPath: filepath.Join(testEnvironmentVariableValue, testDefaultDocumentPathString)},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedPath, resolver.Resolve(testCase.candidate))
		})
	}
}

func TestDocumentPathResolverKeepsTildeWhenHomeUnknown(testInstance *testing.T) {
	resolver := pathutils.NewDocumentPathResolverWithProvider(func() (string, error) {
		return "", errors.New(testHomeLookupFailureMessage)
	})
	require.Equal(testInstance, filepath.Clean("~/commands.json"), resolver.Resolve("~/commands.json"))
}
