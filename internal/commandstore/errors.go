package commandstore

import (
	"errors"
	"fmt"
)

const (
	persistenceErrorMessageConstant        = "command document could not be accessed"
	formatErrorMessageConstant             = "command document is malformed"
	storeErrorTemplateConstant             = "%s %s: %s: %v"
	storeErrorShortTemplateConstant        = "%s %s: %s"
	operationLoadConstant                  = "load"
	operationAppendConstant                = "append"
	missingFieldTemplateConstant           = "entry %d is missing %q"
	notAListMessageConstant                = "document is not a JSON array"
	entryTitleFieldConstant                = "title"
	entryCommandFieldConstant              = "command"
	documentPathRequiredMessageConstant    = "command document path must be provided"
	fileSystemNotConfiguredMessageConstant = "file system not configured"
)

// ErrPersistence matches PersistenceError values with errors.Is.
var ErrPersistence = errors.New(persistenceErrorMessageConstant)

// ErrFormat matches FormatError values with errors.Is.
var ErrFormat = errors.New(formatErrorMessageConstant)

// ErrDocumentPathRequired indicates the store was built without a document path.
var ErrDocumentPathRequired = errors.New(documentPathRequiredMessageConstant)

// ErrFileSystemNotConfigured indicates the store was built without a file system.
var ErrFileSystemNotConfigured = errors.New(fileSystemNotConfiguredMessageConstant)

// PersistenceError reports a document that could not be created, read or written.
type PersistenceError struct {
	Operation    string
	DocumentPath string
	Cause        error
}

// Error describes the failed operation.
func (persistenceError PersistenceError) Error() string {
	if persistenceError.Cause == nil {
		return fmt.Sprintf(storeErrorShortTemplateConstant, persistenceError.Operation, persistenceError.DocumentPath, persistenceErrorMessageConstant)
	}
	return fmt.Sprintf(storeErrorTemplateConstant, persistenceError.Operation, persistenceError.DocumentPath, persistenceErrorMessageConstant, persistenceError.Cause)
}

// Unwrap exposes the underlying file system error.
func (persistenceError PersistenceError) Unwrap() error {
	return persistenceError.Cause
}

// Is reports whether target is ErrPersistence.
func (persistenceError PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}

// FormatError reports a document whose contents are not a list of entries.
type FormatError struct {
	Operation    string
	DocumentPath string
	Cause        error
}

// Error describes the malformed content.
func (formatError FormatError) Error() string {
	if formatError.Cause == nil {
		return fmt.Sprintf(storeErrorShortTemplateConstant, formatError.Operation, formatError.DocumentPath, formatErrorMessageConstant)
	}
	return fmt.Sprintf(storeErrorTemplateConstant, formatError.Operation, formatError.DocumentPath, formatErrorMessageConstant, formatError.Cause)
}

// Unwrap exposes the decoding error.
func (formatError FormatError) Unwrap() error {
	return formatError.Cause
}

// Is reports whether target is ErrFormat.
func (formatError FormatError) Is(target error) bool {
	return target == ErrFormat
}
