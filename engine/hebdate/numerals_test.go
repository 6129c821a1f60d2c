package hebdate

import "testing"

func TestDecodeNumeral(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"ג'", 3},
		{`י"א`, 11},
		{`כ"ה`, 25},
		{"ת", 400},
		{`תשפ"ו`, 786},
		{"א", 1},
		{"יב", 12},
	}
	for _, tt := range tests {
		got, ok := DecodeNumeral(tt.in)
		if !ok {
			t.Errorf("DecodeNumeral(%q) failed, want %d", tt.in, tt.want)
			continue
		}
		if got != tt.want {
			t.Errorf("DecodeNumeral(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestDecodeNumeral_OrderIndependent(t *testing.T) {
	a, okA := DecodeNumeral("יא")
	b, okB := DecodeNumeral("אי")
	if !okA || !okB || a != b {
		t.Errorf("additive decode should ignore order: %d (%v) vs %d (%v)", a, okA, b, okB)
	}
}

func TestDecodeNumeral_Invalid(t *testing.T) {
	for _, in := range []string{"", "'", `"`, "abc", "י2", "ם", "תשרי5"} {
		if v, ok := DecodeNumeral(in); ok {
			t.Errorf("DecodeNumeral(%q) = %d, want failure", in, v)
		}
	}
}
