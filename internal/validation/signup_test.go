package validation

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		valid bool
	}{
		{
			name:  "plain address",
			email: "buyer@example.com",
			valid: true,
		},
		{
			name:  "subdomain",
			email: "buyer@mail.example.co.uk",
			valid: true,
		},
		{
			name:  "missing at sign",
			email: "buyer.example.com",
			valid: false,
		},
		{
			name:  "missing domain dot",
			email: "buyer@example",
			valid: false,
		},
		{
			name:  "contains space",
			email: "bu yer@example.com",
			valid: false,
		},
		{
			name:  "empty string",
			email: "",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsValidEmail(tt.email)
			if got != tt.valid {
				t.Fatalf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.valid)
			}
		})
	}
}

func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{
			name:     "all character classes",
			password: "Str0ng!pass",
			valid:    true,
		},
		{
			name:     "too short",
			password: "S1!a",
			valid:    false,
		},
		{
			name:     "no upper case",
			password: "str0ng!pass",
			valid:    false,
		},
		{
			name:     "no digit",
			password: "Strong!pass",
			valid:    false,
		},
		{
			name:     "no symbol",
			password: "Str0ngpass",
			valid:    false,
		},
		{
			name:     "empty string",
			password: "",
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsStrongPassword(tt.password)
			if got != tt.valid {
				t.Fatalf("IsStrongPassword(%q) = %v, want %v", tt.password, got, tt.valid)
			}
		})
	}
}

func TestIsAlphanumericUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		valid    bool
	}{
		{
			name:     "letters and digits",
			username: "seller42",
			valid:    true,
		},
		{
			name:     "contains underscore",
			username: "seller_42",
			valid:    false,
		},
		{
			name:     "contains space",
			username: "seller 42",
			valid:    false,
		},
		{
			name:     "cyrillic letters",
			username: "продавец",
			valid:    false,
		},
		{
			name:     "empty string",
			username: "",
			valid:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsAlphanumericUsername(tt.username)
			if got != tt.valid {
				t.Fatalf("IsAlphanumericUsername(%q) = %v, want %v", tt.username, got, tt.valid)
			}
		})
	}
}
