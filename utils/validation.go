package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidateCasefileName checks user-supplied casefile names before they hit
// the service layer.
func ValidateCasefileName(name string) error {
	if name == "" {
		return fmt.Errorf("casefile name cannot be empty")
	}

	if len(name) > 255 {
		return fmt.Errorf("casefile name too long (max 255 characters)")
	}

	if !utf8.ValidString(name) {
		return fmt.Errorf("casefile name contains invalid UTF-8 characters")
	}

	return nil
}

// ValidateAttachmentName rejects names that would break the B2 object path
// layout (casefiles/<id>/<name>).
func ValidateAttachmentName(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	if len(filename) > 255 {
		return fmt.Errorf("filename too long (max 255 characters)")
	}

	if !utf8.ValidString(filename) {
		return fmt.Errorf("filename contains invalid UTF-8 characters")
	}

	invalidChars := []string{"/", "\\", "\x00"}
	for _, char := range invalidChars {
		if strings.Contains(filename, char) {
			return fmt.Errorf("filename contains invalid character: %q", char)
		}
	}

	if strings.Contains(filename, "..") {
		return fmt.Errorf("filename cannot contain '..'")
	}

	return nil
}
