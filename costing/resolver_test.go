package costing

import (
	"testing"

	"github.com/shopspring/decimal"
)

func testRules() MapRuleSource {
	return MapRuleSource{
		"g|kg":    decimal.RequireFromString("0.001"),
		"ml|l":    decimal.RequireFromString("0.001"),
		"tsp|ml":  decimal.RequireFromString("5"),
		"tbsp|ml": decimal.RequireFromString("15"),
		"cup|ml":  decimal.RequireFromString("240"),
	}
}

func TestConvertIdentity(t *testing.T) {
	r := NewResolver(testRules())

	qty := decimal.RequireFromString("12.5")
	got, ok := r.Convert(qty, "kg", "kg")
	if !ok {
		t.Fatalf("identity conversion must always succeed")
	}
	if !got.Equal(qty) {
		t.Fatalf("Convert(12.5, kg, kg) = %s, want 12.5", got)
	}

	// same unit spelled with different case
	got, ok = r.Convert(qty, "KG", "kg")
	if !ok || !got.Equal(qty) {
		t.Fatalf("Convert(12.5, KG, kg) = %s ok=%v, want 12.5 true", got, ok)
	}
}

func TestConvertDirectRule(t *testing.T) {
	r := NewResolver(testRules())

	got, ok := r.Convert(decimal.NewFromInt(500), "g", "kg")
	if !ok {
		t.Fatalf("g -> kg should be convertible")
	}
	if want := decimal.RequireFromString("0.5"); !got.Equal(want) {
		t.Fatalf("Convert(500, g, kg) = %s, want %s", got, want)
	}
}

func TestConvertInverseRule(t *testing.T) {
	r := NewResolver(testRules())

	// only g->kg is stored; kg->g must use the inverse
	got, ok := r.Convert(decimal.NewFromInt(2), "kg", "g")
	if !ok {
		t.Fatalf("kg -> g should be convertible through the inverse rule")
	}
	if want := decimal.NewFromInt(2000); !got.Equal(want) {
		t.Fatalf("Convert(2, kg, g) = %s, want %s", got, want)
	}
}

func TestConvertUnknownPair(t *testing.T) {
	r := NewResolver(testRules())

	if _, ok := r.Convert(decimal.NewFromInt(1), "g", "ml"); ok {
		t.Fatalf("g -> ml has no rule and must not be convertible")
	}
}

func TestConvertRoundTrip(t *testing.T) {
	r := NewResolver(testRules())

	pairs := [][2]string{{"g", "kg"}, {"tsp", "ml"}, {"cup", "ml"}, {"tbsp", "ml"}}
	x := decimal.RequireFromString("123.4567")
	for _, p := range pairs {
		there, ok := r.Convert(x, p[0], p[1])
		if !ok {
			t.Fatalf("%s -> %s should convert", p[0], p[1])
		}
		back, ok := r.Convert(there, p[1], p[0])
		if !ok {
			t.Fatalf("%s -> %s should convert", p[1], p[0])
		}
		if !back.Round(QuantityPlaces).Equal(x.Round(QuantityPlaces)) {
			t.Fatalf("round trip %s<->%s: got %s, want %s", p[0], p[1], back, x)
		}
	}
}

func TestCanConvertSymmetry(t *testing.T) {
	r := NewResolver(testRules())

	units := []string{"g", "kg", "ml", "l", "tsp", "tbsp", "cup", "pcs"}
	for _, a := range units {
		for _, b := range units {
			if r.CanConvert(a, b) != r.CanConvert(b, a) {
				t.Fatalf("CanConvert(%s,%s) != CanConvert(%s,%s)", a, b, b, a)
			}
		}
	}

	if !r.CanConvert("pcs", "pcs") {
		t.Fatalf("CanConvert must be true for identical units with no rules at all")
	}
	if r.CanConvert("pcs", "kg") {
		t.Fatalf("pcs -> kg has no rule and must not be convertible")
	}
}
