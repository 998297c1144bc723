package errors

import (
	"strings"
	"testing"
)

func TestValidateXref(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"gedcom xref", "@I1@", false},
		{"bare id", "I42", false},
		{"family-style", "@F12@", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", 65), true},
		{"space", "@I 1@", true},
		{"tab", "@I1@\t", true},
		{"null byte", "@I\x001@", true},
		{"newline", "@I1@\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateXref(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateXref(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidXref) {
				t.Errorf("ValidateXref(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidXref)
			}
		})
	}
}

func TestValidateGenerations(t *testing.T) {
	tests := []struct {
		name    string
		input   int
		wantErr bool
	}{
		{"one", 1, false},
		{"default", 4, false},
		{"max", MaxGenerations, false},

		{"zero", 0, true},
		{"negative", -3, true},
		{"too many", MaxGenerations + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGenerations(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGenerations(%d) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "people.json", false},
		{"nested", "data/people.yaml", false},
		{"absolute", "/tmp/people.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"null byte", "people\x00.json", true},
		{"trailing space", "people.json ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
