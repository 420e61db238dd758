package cbv

import "testing"

func TestExpand_ShortCodes(t *testing.T) {
	tab := Default()
	cases := []struct {
		v    Vocabulary
		in   string
		want string
	}{
		{BizStep, "shipping", "https://ref.gs1.org/cbv/BizStep-shipping"},
		{Disposition, "in_transit", "https://ref.gs1.org/cbv/Disp-in_transit"},
		{BizTransactionType, "po", "https://ref.gs1.org/cbv/BTT-po"},
		{SourceDestType, "owning_party", "https://ref.gs1.org/cbv/SDT-owning_party"},
		{ErrorReason, "incorrect_data", "https://ref.gs1.org/cbv/ER-incorrect_data"},
		{MeasurementType, "Temperature", "https://gs1.org/voc/MT-Temperature"},
		{SensorAlertType, "ALARM_CONDITION", "https://gs1.org/voc/SensorAlertType-ALARM_CONDITION"},
		{Component, "latitude", "https://ref.gs1.org/cbv/Comp-latitude"},
	}
	for _, tc := range cases {
		if got := tab.Expand(tc.v, tc.in); got != tc.want {
			t.Fatalf("Expand(%s, %q) = %q want %q", tc.v, tc.in, got, tc.want)
		}
	}
}

func TestExpand_OnlyExactMatch(t *testing.T) {
	tab := Default()
	for _, in := range []string{"Shipping", " shipping", "shipping ", "https://example.com/bizstep/shipping", ""} {
		if got := tab.Expand(BizStep, in); got != in {
			t.Fatalf("Expand(%q) = %q, expected unchanged", in, got)
		}
	}
	// A code from another vocabulary is not expanded.
	if got := tab.Expand(BizStep, "in_transit"); got != "in_transit" {
		t.Fatalf("cross-vocabulary expansion: %q", got)
	}
}

func TestExpand_URNAndCompactForms(t *testing.T) {
	tab := Default()
	if got := tab.Expand(BizStep, "urn:epcglobal:cbv:bizstep:receiving"); got != "https://ref.gs1.org/cbv/BizStep-receiving" {
		t.Fatalf("urn form: %q", got)
	}
	if got := tab.Expand(Disposition, "urn:epcglobal:cbv:disp:not_a_code"); got != "urn:epcglobal:cbv:disp:not_a_code" {
		t.Fatalf("unknown urn code must be unchanged: %q", got)
	}
	if got := tab.Expand(MeasurementType, "gs1:MT-Temperature"); got != "https://gs1.org/voc/MT-Temperature" {
		t.Fatalf("compact gs1 form: %q", got)
	}
	if got := tab.Expand(BizStep, "cbv:BizStep-shipping"); got != "https://ref.gs1.org/cbv/BizStep-shipping" {
		t.Fatalf("compact cbv form: %q", got)
	}
}

func TestExpand_Idempotent(t *testing.T) {
	tab := Default()
	once := tab.Expand(BizStep, "shipping")
	if twice := tab.Expand(BizStep, once); twice != once {
		t.Fatalf("not idempotent: %q -> %q", once, twice)
	}
}

func TestNilTable(t *testing.T) {
	var tab *Table
	if got := tab.Expand(BizStep, "shipping"); got != "shipping" {
		t.Fatalf("nil table must pass through: %q", got)
	}
	if tab.Has(BizStep, "shipping") {
		t.Fatalf("nil table has no codes")
	}
}
