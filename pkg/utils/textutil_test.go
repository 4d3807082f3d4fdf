package utils

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Crude   Oil\t(WTI)\n", "Crude Oil (WTI)"},
		{"Gold", "Gold"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeWhitespace(c.in); got != c.want {
			t.Errorf("NormalizeWhitespace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML("<b>Gold</b> price <i>up</i>")
	if got != "Gold price up" {
		t.Errorf("StripHTML = %q, want %q", got, "Gold price up")
	}
}

func TestSplitPair(t *testing.T) {
	base, quote := SplitPair("EUR/USD")
	if base != "EUR" || quote != "USD" {
		t.Errorf("SplitPair(EUR/USD) = %q, %q", base, quote)
	}
	base, quote = SplitPair("EURUSD")
	if base != "EURUSD" || quote != "" {
		t.Errorf("SplitPair(EURUSD) = %q, %q", base, quote)
	}
}
