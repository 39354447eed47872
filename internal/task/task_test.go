package task

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"unchanged", "Buy milk", "Buy milk"},
		{"leading and trailing spaces", "  Buy milk  ", "Buy milk"},
		{"tabs and newlines", "\tWalk dog\n", "Walk dog"},
		{"inner spaces kept", "Buy  oat milk", "Buy  oat milk"},
		{"whitespace only", "   ", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
