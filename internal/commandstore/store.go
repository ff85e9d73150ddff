package commandstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	// DefaultDocumentPath is the document location used when none is configured.
	DefaultDocumentPath = "commands.json"

	emptyDocumentContentConstant         = "[]"
	documentPermissionsConstant          = 0o644
	documentDirectoryPermissionsConstant = 0o755
	documentCreatedMessageConstant       = "created empty command document"
	documentLoadedMessageConstant        = "loaded command document"
	documentAppendedMessageConstant      = "appended command entry"
	logFieldDocumentPathConstant         = "document_path"
	logFieldEntryCountConstant           = "entry_count"
	logFieldEntryTitleConstant           = "title"
	jsonArrayOpeningCharacterConstant    = '['
)

// ServiceDependencies enumerates collaborators required by the Store.
type ServiceDependencies struct {
	FileSystem   afero.Fs
	DocumentPath string
	Logger       *zap.Logger
}

// Store loads and appends entries in the persisted command document.
// It assumes a single writer; appends are a non-atomic read-modify-write.
type Store struct {
	fileSystem   afero.Fs
	documentPath string
	logger       *zap.Logger
}

// NewStore constructs a Store from the provided dependencies.
func NewStore(dependencies ServiceDependencies) (*Store, error) {
	if dependencies.FileSystem == nil {
		return nil, ErrFileSystemNotConfigured
	}

	documentPath := strings.TrimSpace(dependencies.DocumentPath)
	if len(documentPath) == 0 {
		return nil, ErrDocumentPathRequired
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Store{fileSystem: dependencies.FileSystem, documentPath: documentPath, logger: logger}, nil
}

// DocumentPath reports the location of the persisted document.
func (store *Store) DocumentPath() string {
	return store.documentPath
}

// Load returns the persisted entries, creating an empty document first when none exists.
func (store *Store) Load(executionContext context.Context) (CommandList, error) {
	documentExists, existenceError := afero.Exists(store.fileSystem, store.documentPath)
	if existenceError != nil {
		return nil, PersistenceError{Operation: operationLoadConstant, DocumentPath: store.documentPath, Cause: existenceError}
	}

	if !documentExists {
		if creationError := store.createEmptyDocument(); creationError != nil {
			return nil, PersistenceError{Operation: operationLoadConstant, DocumentPath: store.documentPath, Cause: creationError}
		}
		store.logger.Debug(documentCreatedMessageConstant, zap.String(logFieldDocumentPathConstant, store.documentPath))
	}

	commandList, readError := store.readDocument(operationLoadConstant)
	if readError != nil {
		return nil, readError
	}

	store.logger.Debug(
		documentLoadedMessageConstant,
		zap.String(logFieldDocumentPathConstant, store.documentPath),
		zap.Int(logFieldEntryCountConstant, len(commandList)),
	)

	return commandList, nil
}

// Append adds a new entry at the end of the persisted list and rewrites the whole document.
// The document must already exist and parse; Append never creates it.
func (store *Store) Append(executionContext context.Context, title string, command string) error {
	commandList, readError := store.readDocument(operationAppendConstant)
	if readError != nil {
		return readError
	}

	updatedList := append(commandList, CommandEntry{Title: title, Command: command})

	encodedDocument, encodeError := json.Marshal(updatedList)
	if encodeError != nil {
		return FormatError{Operation: operationAppendConstant, DocumentPath: store.documentPath, Cause: encodeError}
	}

	if writeError := store.overwriteDocument(encodedDocument); writeError != nil {
		return PersistenceError{Operation: operationAppendConstant, DocumentPath: store.documentPath, Cause: writeError}
	}

	store.logger.Debug(
		documentAppendedMessageConstant,
		zap.String(logFieldDocumentPathConstant, store.documentPath),
		zap.String(logFieldEntryTitleConstant, title),
		zap.Int(logFieldEntryCountConstant, len(updatedList)),
	)

	return nil
}

func (store *Store) createEmptyDocument() error {
	documentDirectory := filepath.Dir(store.documentPath)
	if len(documentDirectory) > 0 && documentDirectory != "." {
		if directoryError := store.fileSystem.MkdirAll(documentDirectory, documentDirectoryPermissionsConstant); directoryError != nil {
			return directoryError
		}
	}

	documentFile, openError := store.fileSystem.OpenFile(store.documentPath, os.O_WRONLY|os.O_CREATE, documentPermissionsConstant)
	if openError != nil {
		return openError
	}

	if _, writeError := documentFile.WriteString(emptyDocumentContentConstant); writeError != nil {
		_ = documentFile.Close()
		return writeError
	}

	return documentFile.Close()
}

func (store *Store) overwriteDocument(content []byte) error {
	documentFile, openError := store.fileSystem.OpenFile(store.documentPath, os.O_WRONLY|os.O_TRUNC, documentPermissionsConstant)
	if openError != nil {
		return openError
	}

	if _, writeError := documentFile.Write(content); writeError != nil {
		_ = documentFile.Close()
		return writeError
	}

	return documentFile.Close()
}

func (store *Store) readDocument(operation string) (CommandList, error) {
	documentContent, readError := afero.ReadFile(store.fileSystem, store.documentPath)
	if readError != nil {
		return nil, PersistenceError{Operation: operation, DocumentPath: store.documentPath, Cause: readError}
	}

	commandList, decodeError := decodeDocument(documentContent)
	if decodeError != nil {
		return nil, FormatError{Operation: operation, DocumentPath: store.documentPath, Cause: decodeError}
	}

	return commandList, nil
}

type documentEntry struct {
	Title   *string `json:"title"`
	Command *string `json:"command"`
}

// decodeDocument accepts only a JSON array whose elements carry string title and command fields.
func decodeDocument(documentContent []byte) (CommandList, error) {
	trimmedContent := bytes.TrimSpace(documentContent)
	if len(trimmedContent) == 0 || trimmedContent[0] != jsonArrayOpeningCharacterConstant {
		return nil, errors.New(notAListMessageConstant)
	}

	var documentEntries []documentEntry
	if unmarshalError := json.Unmarshal(trimmedContent, &documentEntries); unmarshalError != nil {
		return nil, unmarshalError
	}

	commandList := make(CommandList, 0, len(documentEntries))
	for entryIndex, entry := range documentEntries {
		if entry.Title == nil {
			return nil, fmt.Errorf(missingFieldTemplateConstant, entryIndex, entryTitleFieldConstant)
		}
		if entry.Command == nil {
			return nil, fmt.Errorf(missingFieldTemplateConstant, entryIndex, entryCommandFieldConstant)
		}
		commandList = append(commandList, CommandEntry{Title: *entry.Title, Command: *entry.Command})
	}

	return commandList, nil
}
