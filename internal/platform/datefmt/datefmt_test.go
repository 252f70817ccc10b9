package datefmt

import (
	"regexp"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name, in, want string
		wantErr        bool
	}{
		{"plain date", "2025-06-01", "2025-06-01", false},
		{"iso datetime", "2025-06-01T14:30:00Z", "2025-06-01", false},
		{"offset datetime", "2025-06-01T14:30:00+02:00", "2025-06-01", false},
		{"space separated", "2025-06-01 14:30", "2025-06-01", false},
		{"trimmed", " 2025-06-01\t", "2025-06-01", false},
		{"unpadded day", "2025-06-1", "", true},
		{"french format", "01/06/2025", "", true},
		{"month thirteen", "2025-13-01", "", true},
		{"empty", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestToday_Format(t *testing.T) {
	today := Today()
	if !regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`).MatchString(today) {
		t.Errorf("Today() = %q, want zero-padded YYYY-MM-DD", today)
	}
}
