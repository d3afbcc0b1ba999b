package entity

import (
	"path/filepath"
	"strings"
	"unicode/utf8"

	"pdf-digest/internal/utils/text"
)

// FieldSize is the ValidationError field of an upload over the size limit.
const FieldSize = "size"

// maxFilenameLength bounds the filename echoed back to clients and logs.
const maxFilenameLength = 255

// ValidateUpload checks the metadata of an uploaded file before it is parsed.
// maxBytes <= 0 disables the size check.
func ValidateUpload(filename string, size, maxBytes int64) error {
	if strings.TrimSpace(filename) == "" {
		return invalidField("file", "filename is required")
	}
	if utf8.RuneCountInString(filename) > maxFilenameLength {
		return invalidField("file", "filename must not exceed %d characters", maxFilenameLength)
	}
	if size <= 0 {
		return invalidField("file", "file cannot be empty")
	}
	if maxBytes > 0 && size > maxBytes {
		return invalidField(FieldSize, "file too large: %s exceeds the limit of %s",
			text.FormatSize(size), text.FormatSize(maxBytes))
	}
	return nil
}

// CleanFilename strips any directory components a client may have sent.
func CleanFilename(filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
