package bot

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateShortTextUntouched(t *testing.T) {
	if got := Truncate("hello", TextLimit); got != "hello" {
		t.Fatalf("Truncate() = %q, want %q", got, "hello")
	}
}

func TestTruncateLongTextGetsEllipsis(t *testing.T) {
	long := strings.Repeat("a", TextLimit+100)
	got := Truncate(long, TextLimit)
	if !strings.HasSuffix(got, ellipsis) {
		t.Fatalf("truncated text should end with ellipsis")
	}
	if utf8.RuneCountInString(got) != TextLimit+1 {
		t.Fatalf("rune count = %d, want %d", utf8.RuneCountInString(got), TextLimit+1)
	}
	if !strings.HasPrefix(got, strings.Repeat("a", TextLimit)) {
		t.Fatalf("truncation should keep the first %d runes", TextLimit)
	}
}

func TestTruncateExactLimitUntouched(t *testing.T) {
	exact := strings.Repeat("б", CaptionLimit)
	if got := Truncate(exact, CaptionLimit); got != exact {
		t.Fatalf("text at the limit should not be truncated")
	}
}

func TestTruncateCountsRunesNotBytes(t *testing.T) {
	// Cyrillic runes are two bytes each; the limit is measured in runes.
	long := strings.Repeat("ж", CaptionLimit+5)
	got := Truncate(long, CaptionLimit)
	if utf8.RuneCountInString(got) != CaptionLimit+1 {
		t.Fatalf("rune count = %d, want %d", utf8.RuneCountInString(got), CaptionLimit+1)
	}
}
