package compliance

import "testing"

func TestZeroValueIsStrict(t *testing.T) {
	var m Mode
	if !m.IsStrict() {
		t.Fatalf("zero Mode must be strict")
	}
	if Lenient.IsStrict() {
		t.Fatalf("Lenient must not be strict")
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": Strict, "strict": Strict, "lenient": Lenient, "permissive": Lenient}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseMode(%q) = %s want %s", in, got, want)
		}
	}
	if _, err := ParseMode("loose"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
