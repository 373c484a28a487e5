package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// maxIdentifierLength bounds survey identifiers (area, line, object ids).
const maxIdentifierLength = 256

// ValidateIdentifier checks a survey identifier used for cross-referencing.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No commas (room lists are comma separated in RoomScan exports)
//   - Maximum length of 256 characters
func ValidateIdentifier(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIdentifierLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIdentifierLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id %q contains control characters", kind, id)
		}
	}

	if strings.Contains(id, ",") {
		return New(ErrCodeInvalidInput, "%s id %q contains a comma", kind, id)
	}

	return nil
}

// ValidatePath validates an input or output file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	return nil
}

// Input formats understood by the parse stage.
const (
	FormatRoomScan = "roomscan"
	FormatJSON     = "json"
)

// DetectInputFormat infers the survey format from a file extension.
// RoomScan exports are XML; anything ending in .json is the floorstack
// survey JSON written by the parse command.
func DetectInputFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatRoomScan, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", New(ErrCodeInvalidFormat, "cannot detect survey format of %q (expected .xml or .json)", path)
	}
}

// ValidateInputFormat checks that format names a supported survey format.
func ValidateInputFormat(format string) error {
	switch format {
	case FormatRoomScan, FormatJSON:
		return nil
	default:
		return New(ErrCodeInvalidFormat, "invalid survey format: %q (must be one of: roomscan, json)", format)
	}
}
