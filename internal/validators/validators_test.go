package validators

import "testing"

func TestIsPhoneValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0901234567", true},
		{"+84 90 123 4567", true},
		{"090-123-4567", true},
		{"12345", false},
		{"09012abc67", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsPhoneValid(tt.in); got != tt.want {
			t.Fatalf("IsPhoneValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsEmailSyntaxValid(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"lan@example.com", true},
		{"Lan <lan@example.com>", false},
		{"lan@localhost", false},
		{"not-an-email", false},
	}

	for _, tt := range tests {
		if got := IsEmailSyntaxValid(tt.in); got != tt.want {
			t.Fatalf("IsEmailSyntaxValid(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
