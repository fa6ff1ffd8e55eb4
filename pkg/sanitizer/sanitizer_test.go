package sanitizer

import (
	"reflect"
	"testing"
)

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple trim",
			input: "  Juan dela Cruz  ",
			want:  "Juan dela Cruz",
		},
		{
			name:  "interior whitespace collapses",
			input: "Juan\t\t dela\n Cruz",
			want:  "Juan dela Cruz",
		},
		{
			name:  "empty",
			input: "   ",
			want:  "",
		},
		{
			name:  "idempotent",
			input: "Juan dela Cruz",
			want:  "Juan dela Cruz",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Tenant@Example.COM "); got != "tenant@example.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "already E.164",
			input: "+639171234567",
			want:  "+639171234567",
		},
		{
			name:  "spaces and dashes stripped",
			input: "+63 917-123-4567",
			want:  "+639171234567",
		},
		{
			name:  "parentheses stripped",
			input: "+1 (212) 555-1234",
			want:  "+12125551234",
		},
		{
			name:  "unexpected characters left alone for the validator",
			input: "call me maybe",
			want:  "call me maybe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhone(tt.input); got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeList(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "dedupe preserves order",
			input: []string{"map1-A1", " map1-A2 ", "map1-A1"},
			want:  []string{"map1-A1", "map1-A2"},
		},
		{
			name:  "empties dropped",
			input: []string{"", "  ", "map1-B1"},
			want:  []string{"map1-B1"},
		},
		{
			name:  "all empty collapses to nil",
			input: []string{"", "  "},
			want:  nil,
		},
		{
			name:  "nil input",
			input: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeList(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
