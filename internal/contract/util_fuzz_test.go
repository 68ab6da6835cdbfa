package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncatePath checks that truncation never exceeds the requested width.
func FuzzTruncatePath(f *testing.F) {
	f.Add("internal/contract/utils.go", 12)
	f.Add("", 0)
	f.Add("ünïcödé", 4)

	f.Fuzz(func(t *testing.T, path string, width int) {
		got := TruncatePath(path, width)
		if width > 3 && utf8.RuneCountInString(path) > width && utf8.RuneCountInString(got) != width {
			t.Fatalf("TruncatePath(%q, %d) = %q", path, width, got)
		}
	})
}

// FuzzParseBoolString checks that every accepted value round-trips.
func FuzzParseBoolString(f *testing.F) {
	for _, s := range []string{"yes", "no", "1", "0", "TRUE", ""} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		b, err := ParseBoolString(s)
		if err != nil {
			return
		}
		again, err := ParseBoolString(FormatBool(b))
		if err != nil || again != b {
			t.Fatalf("round trip of %q failed", s)
		}
	})
}
