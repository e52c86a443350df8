package payment

import (
	"errors"
	"testing"

	"taskease/internal/domain"
)

func TestVerifyCodes(t *testing.T) {
	cases := map[string]bool{
		"0":    true,
		"800":  true,
		"801":  true,
		"802":  true,
		" 0 ":  true,
		"1":    false,
		"99":   false,
		"803":  false,
		"":     false,
		"ok":   false,
		"-800": false,
	}
	for code, want := range cases {
		if got := Verify(code).Success; got != want {
			t.Fatalf("Verify(%q).Success = %v, want %v", code, got, want)
		}
	}
}

func TestNormalizePayerID(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		invalid bool
	}{
		{in: "12345678901", want: "12345678901"},
		{in: "123-456 789.01", want: "12345678901"},
		{in: "42", want: "00000000042"},
		{in: "0012345678901", want: "12345678901"},
		{in: "123456789012", invalid: true},
		{in: "12a45", invalid: true},
		{in: "  ", invalid: true},
	}
	for _, tc := range cases {
		got, err := NormalizePayerID(tc.in, 11)
		if tc.invalid {
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("NormalizePayerID(%q): expected ValidationError, got %q, %v", tc.in, got, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("NormalizePayerID(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestConvertAndValidateAmount(t *testing.T) {
	if got := ConvertAmount(5, 32.5); got != 162.5 {
		t.Fatalf("ConvertAmount(5, 32.5) = %v", got)
	}
	if got := ConvertAmount(1.111, 3); got != 3.33 {
		t.Fatalf("ConvertAmount(1.111, 3) = %v", got)
	}
	if err := ValidateAmount(162.5, 10000); err != nil {
		t.Fatalf("ValidateAmount: %v", err)
	}
	for _, bad := range []float64{0, -1, 10000, 12000} {
		if err := ValidateAmount(bad, 10000); err == nil {
			t.Fatalf("ValidateAmount(%v) accepted", bad)
		}
	}
}

func TestCallbackSignature(t *testing.T) {
	sig := CallbackSignature("s3cret", "order-1", "0")
	if !VerifyCallback("s3cret", "order-1", "0", sig) {
		t.Fatal("valid signature rejected")
	}
	if VerifyCallback("s3cret", "order-1", "1", sig) {
		t.Fatal("signature accepted for a different code")
	}
	if VerifyCallback("", "order-1", "0", CallbackSignature("", "order-1", "0")) {
		t.Fatal("empty secret must reject")
	}
}

func TestLoadDefaultCatalog(t *testing.T) {
	c, err := LoadCatalog("")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	plans := c.Plans()
	if len(plans) == 0 {
		t.Fatal("default catalog is empty")
	}
	for i := 1; i < len(plans); i++ {
		if plans[i-1].Price > plans[i].Price {
			t.Fatal("plans not sorted by price")
		}
	}
	if p, ok := c.Plan("monthly"); !ok || p.Kind != domain.PlanSubscription {
		t.Fatalf("monthly plan = %+v, %v", p, ok)
	}
}

func TestParseCatalogRejects(t *testing.T) {
	cases := map[string]string{
		"unknown_key":  "[[plans]]\nid = \"a\"\nkind = \"credits\"\ncredits = 1\nprice = 1.0\ncolour = \"red\"\n",
		"bad_kind":     "[[plans]]\nid = \"a\"\nkind = \"lifetime\"\nprice = 1.0\n",
		"zero_credits": "[[plans]]\nid = \"a\"\nkind = \"credits\"\nprice = 1.0\n",
		"duplicate":    "[[plans]]\nid = \"a\"\nkind = \"subscription\"\nprice = 1.0\n[[plans]]\nid = \"a\"\nkind = \"subscription\"\nprice = 2.0\n",
		"empty":        "",
	}
	for name, raw := range cases {
		if _, err := ParseCatalog(raw); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
