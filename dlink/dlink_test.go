package dlink

import "testing"

func TestAddCheckDigitAndZeroPad(t *testing.T) {
	cases := []struct {
		in     string
		length int
		want   string
	}{
		{"7447010150", 14, "00074470101505"},
		{"7447010150", 0, "00074470101505"},
		{"0061414111111", 14, "00614141111114"},
		{"0614141123452", 18, "000006141411234524"},
		{"061414112345", 13, "0614141123452"},
		{"12A4", 6, "012A40"},
	}
	for _, tc := range cases {
		if got := AddCheckDigitAndZeroPad(tc.in, tc.length); got != tc.want {
			t.Fatalf("AddCheckDigitAndZeroPad(%q, %d) = %q want %q", tc.in, tc.length, got, tc.want)
		}
	}
}

func TestCheckDigit(t *testing.T) {
	if got := CheckDigit("061414112345"); got != 2 {
		t.Fatalf("GLN check digit = %d want 2", got)
	}
	if got := CheckDigit("3"); got != 1 {
		t.Fatalf("single digit check = %d want 1", got)
	}
	if got := CheckDigit("x123"); got != 0 {
		t.Fatalf("non-digit must fall back to 0, got %d", got)
	}
	if got := CheckDigit(""); got != 0 {
		t.Fatalf("empty must give 0, got %d", got)
	}
}

func TestNormalize_URNGrammars(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"urn:epc:id:sgtin:0614141.011111.987", "https://id.gs1.org/01/00614141111114/21/987"},
		{"urn:epc:id:sgtin:0614141.112345.400", "https://id.gs1.org/01/10614141123459/21/400"},
		{"urn:epc:id:sscc:0614141.1234567890", "https://id.gs1.org/00/106141412345678908"},
		{"urn:epc:id:sgln:0614141.12345.0", "https://id.gs1.org/414/0614141123452"},
		{"urn:epc:id:sgln:0614141.12345.5678", "https://id.gs1.org/414/0614141123452/254/5678"},
		{"urn:epc:id:grai:0614141.12345.400", "https://id.gs1.org/8003/00614141123452400"},
		{"urn:epc:id:giai:0614141.12345400", "https://id.gs1.org/8004/061414112345400"},
		{"urn:epc:id:gsrn:0614141.1234567890", "https://id.gs1.org/8018/061414112345678902"},
		{"urn:epc:id:gsrnp:0614141.1234567890", "https://id.gs1.org/8017/061414112345678902"},
		{"urn:epc:id:gdti:0614141.12345.400", "https://id.gs1.org/253/0614141123452400"},
		{"urn:epc:id:cpi:0614141.123ABC.123456789", "https://id.gs1.org/8010/0614141123ABC/8011/123456789"},
		{"urn:epc:id:sgcn:4012345.67890.04711", "https://id.gs1.org/255/401234567890104711"},
		{"urn:epc:id:ginc:0614141.xyz47%2F11", "https://id.gs1.org/401/0614141xyz47%2F11"},
		{"urn:epc:id:gsin:0614141.123456789", "https://id.gs1.org/402/06141411234567890"},
		{"urn:epc:id:itip:4012345.012345.01.02.987", "https://id.gs1.org/8006/040123451234560102/21/987"},
		{"urn:epc:id:upui:1234567.089456.51qIgY)%3C%26Jp3*j7'SDB", "https://id.gs1.org/01/01234567894560/235/51qIgY%29%3C%26Jp3%2Aj7'SDB"},
		{"urn:epc:id:pgln:1234567.89012", "https://id.gs1.org/417/1234567890128"},
		{"urn:epc:class:lgtin:4012345.012345.998877", "https://id.gs1.org/01/04012345123456/10/998877"},
		{"urn:epc:idpat:sgtin:4012345.012345.*", "https://id.gs1.org/01/04012345123456"},
		{"urn:epc:idpat:grai:4012345.12345.*", "https://id.gs1.org/8003/04012345123456"},
		{"urn:epc:idpat:gdti:4012345.12345.*", "https://id.gs1.org/253/4012345123456"},
		{"urn:epc:idpat:sgcn:4012345.67890.*", "https://id.gs1.org/255/4012345678901"},
		{"urn:epc:idpat:cpi:4012345.ABC.*", "https://id.gs1.org/8010/4012345ABC"},
		{"urn:epc:idpat:itip:4012345.012345.01.02.*", "https://id.gs1.org/8006/040123451234560102"},
		{"urn:epc:idpat:upui:4012345.012345.*", "https://id.gs1.org/01/04012345123456"},
	}
	for _, tc := range cases {
		got, ok := Canonical(tc.in, true)
		if !ok {
			t.Fatalf("Canonical(%q) not recognized", tc.in)
		}
		if got != tc.want {
			t.Fatalf("Canonical(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_ReservedCharactersEncoded(t *testing.T) {
	got := Normalize("urn:epc:id:sgtin:0614141.011111.a!b(c)d*e+f,g:h", true)
	want := "https://id.gs1.org/01/00614141111114/21/a%21b%28c%29d%2Ae%2Bf%2Cg%3Ah"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNormalize_Unrecognized(t *testing.T) {
	for _, in := range []string{
		"",
		"hello world",
		"urn:epcglobal:cbv:bizstep:shipping",
		"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		"urn:epc:id:unknown:0614141.1.1",
		"urn:epc:id:sgtin:0614141.011111",        // missing serial
		"urn:epc:id:sgtin:06141.011111.1",        // prefix too short
		"urn:epc:id:sgtin:0614141012345678.0.1",  // prefix too long
		"urn:epc:idpat:sgtin:0614141.*.*",        // too coarse
		"urn:epc:idpat:sgtin:0614141.011111.987", // pattern without wildcard
		"https://example.com/some/page",
		"https://example.com/01/ABC",
		"https://example.org/rules/253/v2",
		"https://example.com/docs/401/intro",
		"https://example.com/a/8004/12/b",
		"https://example.com/01/123456789",          // not a GTIN length
		"urn:epc:id:sgtin:0614141.01111122.987",     // reference too long for the partition
		"urn:epc:id:sscc:0614141.123456789",         // reference too short
		"urn:epc:id:itip:4012345.012345.1.02.987",   // piece must be two digits
		"https://id.gs1.org/01/00614141111114/99/x", // unknown qualifier
		"ni:///sha-256;abc?ver=CBV2.0",
	} {
		got, ok := Canonical(in, true)
		if ok {
			t.Fatalf("Canonical(%q) unexpectedly recognized as %q", in, got)
		}
		if got != in {
			t.Fatalf("Canonical(%q) must return input unchanged, got %q", in, got)
		}
	}
}

func TestNormalize_MalformedDigitsFallBackToZeroCheckDigit(t *testing.T) {
	got := Normalize("urn:epc:id:sgtin:06141A1.011111.987", false)
	want := "https://id.gs1.org/01/006141A1111110/21/987"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNormalize_SchemeCaseFolded(t *testing.T) {
	in := "URN:EPC:id:sgtin:0614141.011111.987"
	want := "https://id.gs1.org/01/00614141111114/21/987"
	for _, strict := range []bool{true, false} {
		if got := Normalize(in, strict); got != want {
			t.Fatalf("strict=%v: got %q want %q", strict, got, want)
		}
	}
}

func TestNormalize_Resolvable(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://id.gs1.org/01/00614141111114/21/987", "https://id.gs1.org/01/00614141111114/21/987"},
		{"https://example.com/01/614141111114/21/987", "https://id.gs1.org/01/00614141111114/21/987"},
		{"http://brand.example.com/some/prefix/gtin/00614141111114/ser/987?linkType=all", "https://id.gs1.org/01/00614141111114/21/987"},
		{"https://id.gs1.org/01/00614141111114/10/LOT1/21/987", "https://id.gs1.org/01/00614141111114/21/987"},
		{"https://id.gs1.org/01/00614141111114/22/2A/10/LOT1", "https://id.gs1.org/01/00614141111114/10/LOT1"},
		{"https://id.gs1.org/01/12345670", "https://id.gs1.org/01/00000012345670"},
		{"https://id.gs1.org/414/4012345000054/254/12", "https://id.gs1.org/414/4012345000054/254/12"},
		{"https://id.gs1.org/gln/4012345000054#frag", "https://id.gs1.org/414/4012345000054"},
		{"https://id.gs1.org/00/106141412345678908", "https://id.gs1.org/00/106141412345678908"},
		{"https://id.gs1.org/8010/0614141123ABC/8011/123456789", "https://id.gs1.org/8010/0614141123ABC/8011/123456789"},
		{"https://id.gs1.org/01/00614141111114/21/a!b", "https://id.gs1.org/01/00614141111114/21/a%21b"},
		{"https://id.gs1.org/01/00614141111114/21/a%21b", "https://id.gs1.org/01/00614141111114/21/a%21b"},
		{"HTTPS://ID.GS1.ORG/01/00614141111114", "https://id.gs1.org/01/00614141111114"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in, true); got != tc.want {
			t.Fatalf("Normalize(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_URNAndResolvableAgree(t *testing.T) {
	a := Normalize("urn:epc:id:sgtin:0614141.011111.987", true)
	b := Normalize("https://id.gs1.org/01/00614141111114/21/987", true)
	if a != b {
		t.Fatalf("expected identical canonical identifiers: %q vs %q", a, b)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	for _, in := range []string{
		"urn:epc:id:sgtin:0614141.011111.a!b",
		"urn:epc:id:sgln:0614141.12345.5678",
		"urn:epc:class:lgtin:4012345.012345.998877",
		"https://example.com/gtin/614141111114/lot/A%2fB",
	} {
		once := Normalize(in, true)
		if twice := Normalize(once, true); twice != once {
			t.Fatalf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestEncodePayload(t *testing.T) {
	cases := map[string]string{
		"abc":      "abc",
		"a!b":      "a%21b",
		"(x)":      "%28x%29",
		"a/b":      "a/b",
		"a%2fb":    "a%2fb",
		"a%21b":    "a%21b",
		"100%":     "100%",
		"x y":      "x y",
		"a&b":      "a&b",
		"café":     "café",
		"-._'":     "-._'",
		"Ab12=;$":  "Ab12=;$",
		"1:2,3+4*": "1%3A2%2C3%2B4%2A",
	}
	for in, want := range cases {
		if got := EncodePayload(in); got != want {
			t.Fatalf("EncodePayload(%q) = %q want %q", in, got, want)
		}
	}
}

func TestNormalize_SerialOutsideReservedSetKept(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://id.gs1.org/01/09521234543213/21/café", "https://id.gs1.org/01/09521234543213/21/café"},
		{"https://id.gs1.org/01/09521234543213/21/a&b", "https://id.gs1.org/01/09521234543213/21/a&b"},
		{"https://id.gs1.org/01/09521234543213/21/a%2fb", "https://id.gs1.org/01/09521234543213/21/a%2fb"},
		{"urn:epc:id:sgtin:0614141.011111.café", "https://id.gs1.org/01/00614141111114/21/café"},
		{"urn:epc:id:sgtin:0614141.011111.a&b!", "https://id.gs1.org/01/00614141111114/21/a&b%21"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in, true); got != tc.want {
			t.Fatalf("Normalize(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalize_ResolvableKeyGrammar(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://example.com/docs/8004/061414112345400", "https://id.gs1.org/8004/061414112345400"},
		{"https://example.com/253/4012345123456ABC", "https://id.gs1.org/253/4012345123456ABC"},
		{"https://example.com/401/0614141xyz", "https://id.gs1.org/401/0614141xyz"},
		{"https://example.com/x/253/v2/01/614141111114", "https://id.gs1.org/01/00614141111114"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in, true); got != tc.want {
			t.Fatalf("Normalize(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}
