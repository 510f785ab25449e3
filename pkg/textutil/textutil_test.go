package textutil

import (
	"reflect"
	"strings"
	"testing"
)

// --- NormalizeText Tests ---

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"collapses runs", "Bangalore   Institute\n\nof\tTechnology", "Bangalore Institute of Technology"},
		{"keeps punctuation", "Hello, world! (really?) - yes.", "Hello, world! (really?) - yes."},
		{"strips symbols", "R.V. College @ #Bangalore*", "R.V. College Bangalore"},
		{"entity after strip", "Arts &amp; Science", "Arts amp Science"},
		{"numeric entity after strip", "St Joseph&#39;s", "St Joseph39s"},
		{"keeps non-ascii letters", "Mysuru ಮೈಸೂರು", "Mysuru ಮೈಸೂರು"},
		{"no double space after strip", "A & B", "A B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeText(tt.input); got != tt.want {
				t.Errorf("NormalizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"  Some   <b>bold</b> text &amp; more  ",
		"R.V. College of Engineering, Bangalore - 560059",
		"Tabs\tand\nnewlines & symbols %$#",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		if twice := NormalizeText(once); twice != once {
			t.Errorf("NormalizeText not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 3); got != "abc" {
		t.Errorf("Truncate() = %q, want %q", got, "abc")
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Errorf("Truncate() = %q, want %q", got, "abc")
	}
	// multi-byte rune must not be split
	got := Truncate("aé", 2)
	if got != "a" {
		t.Errorf("Truncate() = %q, want %q", got, "a")
	}
}

// --- Phone Tests ---

func TestNormalizePhoneNumber(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{"international with spaces", "+91 98765 43210", "+91-98765-43210", true},
		{"trunk zero", "09876543210", "+91-98765-43210", true},
		{"bare ten digits", "9876543210", "+91-98765-43210", true},
		{"country code without plus", "919876543210", "+91-98765-43210", true},
		{"landline passthrough", "080-2345678", "802345678", true},
		{"too short", "12345", "", false},
		{"too long", "1234567890123", "", false},
		{"embedded plus", "98+76543210", "", false},
		{"empty", "", "", false},
		{"garbage", "call us", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePhoneNumber(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("NormalizePhoneNumber(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizePhoneNumber_FixedPoint(t *testing.T) {
	first, ok := NormalizePhoneNumber("+91 98765 43210")
	if !ok {
		t.Fatal("NormalizePhoneNumber() rejected a valid number")
	}
	second, ok := NormalizePhoneNumber(first)
	if !ok || second != first {
		t.Errorf("NormalizePhoneNumber(%q) = %q, want fixed point", first, second)
	}
}

func TestExtractPhoneNumbers(t *testing.T) {
	text := "Call +91-9876543210 or 080 23456789. Office: 9123456780, fax (080) 234-5678. Again 9123456780."
	got := ExtractPhoneNumbers(text)

	want := []string{"+91-9876543210", "080 23456789", "9123456780"}
	for _, w := range want {
		found := false
		for _, g := range got {
			if g == w {
				found = true
			}
		}
		if !found {
			t.Errorf("ExtractPhoneNumbers() missing %q in %v", w, got)
		}
	}

	seen := make(map[string]bool)
	for _, g := range got {
		if seen[g] {
			t.Errorf("ExtractPhoneNumbers() returned duplicate %q", g)
		}
		seen[g] = true
	}
}

func TestExtractPhoneNumbers_Capped(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		sb.WriteString(" 98765432")
		sb.WriteByte(byte('0' + i))
		sb.WriteString("0 ")
	}
	got := ExtractPhoneNumbers(sb.String())
	if len(got) != MaxPhones {
		t.Errorf("expected %d phones, got %d (%v)", MaxPhones, len(got), got)
	}
}

func TestExtractPhoneNumbers_Empty(t *testing.T) {
	if got := ExtractPhoneNumbers(""); len(got) != 0 {
		t.Errorf("ExtractPhoneNumbers(\"\") = %v, want empty", got)
	}
}

// --- Email Tests ---

func TestExtractEmails(t *testing.T) {
	text := `Write to <a href="mailto:Admissions@RVCE.edu.in">us</a>, principal@rvce.edu.in or admissions@rvce.edu.in`
	got := ExtractEmails(text)

	want := []string{"admissions@rvce.edu.in", "principal@rvce.edu.in"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractEmails() = %v, want %v", got, want)
	}
}

func TestExtractEmails_Capped(t *testing.T) {
	text := "a@x.com b@x.com c@x.com d@x.com e@x.com"
	if got := ExtractEmails(text); len(got) != MaxEmails {
		t.Errorf("expected %d emails, got %d", MaxEmails, len(got))
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"info@college.ac.in", true},
		{"first.last+tag@uni.edu", true},
		{"no-at-sign.com", false},
		{"user@nodot", false},
		{"user@domain.c", false},
		{"", false},
		{"two@@signs.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidateEmail(tt.input); got != tt.want {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// --- URL Tests ---

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"https://example.edu.in", true},
		{"http://kea.kar.nic.in/path?q=1", true},
		{"example.edu.in", false},
		{"/relative/path", false},
		{"https://", false},
		{"", false},
		{"://bad", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidateURL(tt.input); got != tt.want {
				t.Errorf("ValidateURL(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
