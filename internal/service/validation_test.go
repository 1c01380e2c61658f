package service

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeEmail(t *testing.T) {
	tests := map[string]struct {
		input   string
		want    string
		wantErr bool
	}{
		"lower-cases and trims": {input: "  Sam@Example.COM ", want: "sam@example.com"},
		"unicode domain":        {input: "info@bücher.de", want: "info@xn--bcher-kva.de"},
		"missing domain":        {input: "sam@", wantErr: true},
		"missing tld":           {input: "sam@localhost", wantErr: true},
		"hyphen edge":           {input: "sam@-bad.com", wantErr: true},
		"blank":                 {input: "   ", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := normalizeEmail(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v (%q)", err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeOptionalPhone(t *testing.T) {
	got, err := normalizeOptionalPhone(strPtr(" (415) 555-1234 "), "US")
	if err != nil || got == nil || *got != "+14155551234" {
		t.Fatalf("unexpected phone %v, %v", got, err)
	}

	got, err = normalizeOptionalPhone(strPtr("  "), "US")
	if err != nil || got != nil {
		t.Fatalf("blank phone should clear, got %v, %v", got, err)
	}

	if _, err := normalizeOptionalPhone(strPtr("12345"), "US"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCleanStrings(t *testing.T) {
	got := cleanStrings([]string{" Parking ", "", "  ", "Gym"})
	if diff := cmp.Diff([]string{"Parking", "Gym"}, got); diff != "" {
		t.Fatalf("unexpected values (-want +got):\n%s", diff)
	}
}

func TestNormalizeRegion(t *testing.T) {
	if got := normalizeRegion(" gb "); got != "GB" {
		t.Fatalf("expected GB, got %q", got)
	}
	if got := normalizeRegion(""); got != defaultPhoneRegion {
		t.Fatalf("expected default region, got %q", got)
	}
}

func strPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }
