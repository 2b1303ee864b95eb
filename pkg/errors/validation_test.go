package errors

import (
	"strings"
	"testing"
)

func TestValidateObjectID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "Customer", false},
		{"qualified", "com.acme.Customer", false},
		{"with space", "Line Item", false},
		{"unicode", "Kunde_Ä", false},

		{"empty", "", true},
		{"too long", strings.Repeat("x", MaxIdentifierLength+1), true},
		{"newline", "foo\nbar", true},
		{"null byte", "foo\x00bar", true},
		{"tab", "foo\tbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObjectID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateObjectID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidModel) {
				t.Errorf("ValidateObjectID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidModel)
			}
		})
	}
}

func TestValidatePackageName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"default package", "", false},
		{"dotted", "com.acme.orders", false},
		{"slashed", "github.com/acme/orders", false},

		{"too long", strings.Repeat("p", MaxIdentifierLength+1), true},
		{"double dot", "com..acme", true},
		{"double slash", "acme//orders", true},
		{"control char", "acme\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePackageName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePackageName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"plain", "Domain Model", false},

		{"newline", "Domain\n@enduml", true},
		{"too long", strings.Repeat("t", 201), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTitle(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
