package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

var tildeWithPathSeparatorPrefix = tildeSymbolConstant + string(os.PathSeparator)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// DocumentPathResolver normalizes user supplied document locations.
// Relative paths stay relative to the working directory.
type DocumentPathResolver struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	initializationGuard   sync.Once
}

// NewDocumentPathResolver constructs a resolver using the operating system home lookup.
func NewDocumentPathResolver() *DocumentPathResolver {
	return NewDocumentPathResolverWithProvider(os.UserHomeDir)
}

// NewDocumentPathResolverWithProvider constructs a resolver with a custom home provider.
func NewDocumentPathResolverWithProvider(provider HomeDirectoryProvider) *DocumentPathResolver {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &DocumentPathResolver{homeDirectoryProvider: provider}
}

// Resolve trims candidatePath, expands environment variables and a leading
// tilde, then cleans the result. An empty candidate stays empty.
func (resolver *DocumentPathResolver) Resolve(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if len(trimmedPath) == 0 {
		return ""
	}

	expandedPath := os.ExpandEnv(trimmedPath)
	if resolver != nil {
		expandedPath = resolver.expandHome(expandedPath)
	}

	return filepath.Clean(expandedPath)
}

func (resolver *DocumentPathResolver) expandHome(candidatePath string) string {
	if !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	homeDirectory := resolver.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildeSymbolConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeForwardSlashPrefixConstant))
	case strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix):
		return filepath.Join(homeDirectory, strings.TrimPrefix(candidatePath, tildeWithPathSeparatorPrefix))
	default:
		return candidatePath
	}
}

func (resolver *DocumentPathResolver) resolveHomeDirectory() string {
	resolver.initializationGuard.Do(func() {
		resolver.homeDirectory, resolver.homeDirectoryError = resolver.homeDirectoryProvider()
	})
	if resolver.homeDirectoryError != nil {
		return ""
	}
	return resolver.homeDirectory
}
