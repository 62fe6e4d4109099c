package utils

import (
	"strings"
	"testing"
)

func TestValidateCasefileName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "Audit Q1", false},
		{"unicode", "Prüfung 2026", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 256), true},
		{"invalid utf8", "bad\xff", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCasefileName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCasefileName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAttachmentName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain", "ledger.pdf", false},
		{"spaces", "board minutes.docx", false},
		{"empty", "", true},
		{"slash", "a/b.pdf", true},
		{"backslash", "a\\b.pdf", true},
		{"nul", "a\x00b", true},
		{"traversal", "..secret", true},
		{"too long", strings.Repeat("a", 256), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttachmentName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAttachmentName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
