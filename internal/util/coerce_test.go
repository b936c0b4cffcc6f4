package util

import "testing"

func TestZeroPad(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"40", "000040"},
		{" 40 ", "000040"},
		{"000040", "000040"},
		{"1234567", "1234567"},
	}
	for _, c := range cases {
		if got := ZeroPad(c.in, 6); got != c.want {
			t.Fatalf("ZeroPad(%q)=%q, want %q", c.in, got, c.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2024-01-04", "2024/01/04", "20240104", "2024-01-04 15:04:05"} {
		d, ok := ParseDate(in)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", in)
		}
		if d.Year() != 2024 || int(d.Month()) != 1 || d.Day() != 4 {
			t.Fatalf("ParseDate(%q)=%v", in, d)
		}
	}
	for _, in := range []string{"", "暂无数据", "04-01"} {
		if _, ok := ParseDate(in); ok {
			t.Fatalf("ParseDate(%q) should fail", in)
		}
	}
}

func TestParseDecimal(t *testing.T) {
	d, ok := ParseDecimal("1,234.5")
	if !ok || d.String() != "1234.5" {
		t.Fatalf("got %v %v", d, ok)
	}
	if _, ok := ParseDecimal(""); ok {
		t.Fatal("empty should fail")
	}
	if _, ok := ParseDecimal("--"); ok {
		t.Fatal("placeholder should fail")
	}
}
