package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseRole(t *testing.T) {
	for _, in := range []string{"government", "pharmacy", "admin", " Admin "} {
		if _, err := ParseRole(in); err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", in, err)
		}
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrInvalidIdentity) {
		t.Fatalf("expected ErrInvalidIdentity, got %v", err)
	}
}

func TestApprovedAtCreation(t *testing.T) {
	if !ApprovedAtCreation(RoleAdmin) {
		t.Fatalf("admins must be approved at creation")
	}
	if ApprovedAtCreation(RolePharmacy) || ApprovedAtCreation(RoleGovernment) {
		t.Fatalf("only admins are approved at creation")
	}
}

func TestNormalizeUsername(t *testing.T) {
	cases := map[string]string{
		"Alpha":                   "alpha",
		"  Rajesh Medical Store ": "rajesh_medical_store",
		"City   Pharmacy":         "city_pharmacy",
	}
	for in, want := range cases {
		if got := NormalizeUsername(in); got != want {
			t.Fatalf("NormalizeUsername(%q) = %q, want %q", in, got, want)
		}
	}
	if got := DisambiguatedUsername("alpha", 0); got != "alpha" {
		t.Fatalf("unexpected first candidate %q", got)
	}
	if got := DisambiguatedUsername("alpha", 1); got != "alpha_1" {
		t.Fatalf("unexpected second candidate %q", got)
	}
}

func TestStockEntry_Validate(t *testing.T) {
	valid := StockEntry{
		MedicineName: "Paracetamol 500mg",
		Quantity:     0,
		Price:        decimal.Zero,
		ExpiryDate:   time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
		BatchNumber:  "BATCH1000",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("zero quantity and price must be accepted: %v", err)
	}

	negQty := valid
	negQty.Quantity = -1
	if err := negQty.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for negative quantity, got %v", err)
	}

	negPrice := valid
	negPrice.Price = decimal.NewFromFloat(-0.01)
	if err := negPrice.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for negative price, got %v", err)
	}

	noExpiry := valid
	noExpiry.ExpiryDate = time.Time{}
	if err := noExpiry.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry for missing expiry, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-11-14")
	if err != nil {
		t.Fatalf("ParseDate returned error: %v", err)
	}
	if d.Year() != 2026 || d.Month() != time.November || d.Day() != 14 {
		t.Fatalf("unexpected date %v", d)
	}
	if _, err := ParseDate("14/11/2026"); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}
