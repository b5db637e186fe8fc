package configstore

import "errors"

var (
	// ErrInvalidDocument reports that the loaded configuration root is not a
	// mapping. Nothing is written when this is returned.
	ErrInvalidDocument = errors.New("config document root must be a mapping")

	// ErrDefaultNotFound reports that none of the configured default
	// template candidates exist on disk.
	ErrDefaultNotFound = errors.New("default template not found")

	// ErrMalformedPatch reports that a patch argument is not itself a
	// mapping. The merge never begins.
	ErrMalformedPatch = errors.New("patch must be a mapping")
)
