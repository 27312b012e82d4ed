package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "head-01", false},
		{"with dot", "nas.lan", false},
		{"unicode", "büro-pc", false},
		{"empty left to store", "", false},

		{"padding not counted", "     " + strings.Repeat("a", MaxNodeNameLength-4) + "     ", false},

		{"too long", strings.Repeat("a", MaxNodeNameLength+1), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
		{"quote", `a"b`, true},
		{"backslash", `a\b`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestTopologyFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr Code
	}{
		{"lab.json", FormatJSON, ""},
		{"dir/Lab.JSON", FormatJSON, ""},
		{"lab.yaml", FormatYAML, ""},
		{"lab.yml", FormatYAML, ""},
		{"lab.toml", "", ErrCodeInvalidFormat},
		{"lab", "", ErrCodeInvalidFormat},
		{"", "", ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := TopologyFormat(tt.input)
			if tt.wantErr != "" {
				if !Is(err, tt.wantErr) {
					t.Fatalf("TopologyFormat(%q) error = %v, want code %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("TopologyFormat(%q) = %q, %v, want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"https", "https://api.example.com/v1/chat/completions", false},
		{"http", "http://localhost:11434/v1/chat/completions", false},

		{"empty", "", true},
		{"ftp", "ftp://example.com", true},
		{"file", "file:///etc/passwd", true},
		{"no scheme", "example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
