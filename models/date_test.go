package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMyDateStringUnmarshal(t *testing.T) {
	var d MyDateString
	if err := d.UnmarshalJSON([]byte(`"2026-02-14"`)); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	parsed := d.Time()
	if parsed.Year() != 2026 || parsed.Month() != time.February || parsed.Day() != 14 {
		t.Fatalf("unexpected parse result: %s", parsed)
	}

	if err := d.UnmarshalJSON([]byte(`"14/02/2026"`)); err == nil {
		t.Fatalf("expected parse error for non-ISO date")
	}
	if err := d.UnmarshalJSON([]byte(`20260214`)); err == nil {
		t.Fatalf("expected error for non-string date")
	}
}

func TestMyDateStringDayBoundaries(t *testing.T) {
	start, err := ParseDateString("2026-02-14")
	if err != nil {
		t.Fatalf("ParseDateString: %v", err)
	}
	if err := start.StartOfDayUTCTime(); err != nil {
		t.Fatalf("StartOfDayUTCTime: %v", err)
	}
	// Bangkok is UTC+7: local midnight is 17:00 UTC the previous day.
	want := time.Date(2026, 2, 13, 17, 0, 0, 0, time.UTC)
	if !start.Time().Equal(want) {
		t.Fatalf("expected %s; got %s", want, start.Time())
	}

	end, err := ParseDateString("2026-02-14")
	if err != nil {
		t.Fatalf("ParseDateString: %v", err)
	}
	if err := end.EndOfDayUTCTime(); err != nil {
		t.Fatalf("EndOfDayUTCTime: %v", err)
	}
	if !end.Time().After(start.Time()) {
		t.Fatalf("end of day must be after start of day")
	}
	if got := end.Time().Sub(start.Time()); got >= 24*time.Hour {
		t.Fatalf("day window too wide: %s", got)
	}
}

func TestInventoryTransactionSignedQuantity(t *testing.T) {
	cases := []struct {
		entryType InventoryTransactionType
		quantity  string
		want      string
	}{
		{InventoryTransactionTypePurchase, "5", "5"},
		{InventoryTransactionTypeAdjustmentIn, "2.5", "2.5"},
		{InventoryTransactionTypeUsage, "3", "-3"},
		{InventoryTransactionTypeWaste, "1.25", "-1.25"},
		{InventoryTransactionTypeAdjustmentOut, "4", "-4"},
	}
	for _, c := range cases {
		transaction := InventoryTransaction{Type: c.entryType, Quantity: decimal.RequireFromString(c.quantity)}
		if got := transaction.SignedQuantity(); got.Cmp(decimal.RequireFromString(c.want)) != 0 {
			t.Errorf("%s: expected %s; got %s", c.entryType, c.want, got)
		}
	}
}
