package domain

import (
	"errors"
	"testing"
)

func TestParseDialCode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    DialCode
		wantErr bool
	}{
		{name: "Simple", input: "*123#", want: "*123#"},
		{name: "Nested", input: "*100*1#", want: "*100*1#"},
		{name: "Deep Nested", input: "*100*1*2*3#", want: "*100*1*2*3#"},
		{name: "Surrounding Spaces", input: "  *131#\n", wantErr: true},
		{name: "Trailing Space", input: "*131# ", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Missing Prefix", input: "123#", wantErr: true},
		{name: "Missing Suffix", input: "*123", wantErr: true},
		{name: "No Digits", input: "*#", wantErr: true},
		{name: "Double Star", input: "*100**1#", wantErr: true},
		{name: "Trailing Star", input: "*100*#", wantErr: true},
		{name: "Letters", input: "*12a#", wantErr: true},
		{name: "Hash Inside", input: "*12#3#", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDialCode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDialCode) {
					t.Fatalf("ParseDialCode(%q) error = %v, want ErrInvalidDialCode", tt.input, err)
				}
				var dce *DialCodeError
				if !errors.As(err, &dce) || dce.Input != tt.input {
					t.Errorf("expected *DialCodeError carrying input %q, got %v", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDialCode(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDialCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMustParseDialCode_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for malformed code")
		}
	}()
	MustParseDialCode("123")
}
