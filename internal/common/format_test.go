package common

import "testing"

func TestFormatYen(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "¥0"},
		{500, "¥500"},
		{50000, "¥50,000"},
		{1234567, "¥1,234,567"},
	}
	for _, tt := range tests {
		if got := FormatYen(tt.in); got != tt.want {
			t.Errorf("FormatYen(%d) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestFormatSignedYen(t *testing.T) {
	if got := FormatSignedYen(2500); got != "+¥2,500" {
		t.Errorf("expected +¥2,500, got %s", got)
	}
	if got := FormatSignedYen(-200); got != "-¥200" {
		t.Errorf("expected -¥200, got %s", got)
	}
}

func TestFormatSignedPct(t *testing.T) {
	if got := FormatSignedPct(20.0); got != "+20.00%" {
		t.Errorf("expected +20.00%%, got %s", got)
	}
	if got := FormatSignedPct(-1.5); got != "-1.50%" {
		t.Errorf("expected -1.50%%, got %s", got)
	}
}
