package catalog

import (
	"strings"
	"testing"

	"github.com/nildiert/checho/sizes"
)

const sampleSheet = `Link Foto,Precio de venta,TIEMPO DE ENTREGA,Talla,Genero,Tipo,fecha,Logo,Texto Personalizado
https://example.com/a.png,125000,inmediata,38 39 40,,numero,,,
,99000,5,S M,mujer,talla,01/12/2026,nike,
https://example.com/b.png,,8.0,M S,MUJER,talla,24/12/2026,Footlocker,Solo por hoy
https://example.com/c.png,$45.900,navidad,nan,nan,dimensiones,nan,nan,nan
`

func TestDecodeDropsRowsWithoutPhoto(t *testing.T) {
	products, err := Decode(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 products, got %d", len(products))
	}
	for i, p := range products {
		if p.Index != i {
			t.Fatalf("product %d has index %d", i, p.Index)
		}
	}
	// the second kept row keeps its own price (absent) rather than the dropped row's 99000
	if products[1].HasPrice() {
		t.Fatalf("row b must not inherit a price from the dropped row: %v", *products[1].Price)
	}
}

func TestDecodeNormalizesFields(t *testing.T) {
	products, err := Decode(strings.NewReader(sampleSheet))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	a, b, c := products[0], products[1], products[2]

	if a.Price == nil || *a.Price != 125000 {
		t.Fatalf("price a: %v", a.Price)
	}
	if a.Gender != DefaultGender {
		t.Fatalf("gender default: got %q", a.Gender)
	}
	if a.Delivery.Kind != DeliveryImmediate {
		t.Fatalf("delivery a: %+v", a.Delivery)
	}
	if a.SizeKind != sizes.Numeric || a.ValidUntil != nil {
		t.Fatalf("a: kind=%v validUntil=%v", a.SizeKind, a.ValidUntil)
	}

	if b.Delivery.Kind != DeliveryDays || b.Delivery.Days != "8" {
		t.Fatalf("delivery b: %+v", b.Delivery)
	}
	if b.Gender != "mujer" || b.LogoKey != "footlocker" || b.CustomText != "Solo por hoy" {
		t.Fatalf("b: %+v", b)
	}
	if b.ValidUntil == nil || b.ValidUntil.Day() != 24 || b.ValidUntil.Month() != 12 {
		t.Fatalf("date b: %v", b.ValidUntil)
	}

	if c.Price == nil || *c.Price != 45900 {
		t.Fatalf("price c: %v", c.Price)
	}
	if c.Delivery.Kind != DeliveryChristmas || c.SizeSpec != "" || c.SizeKind != sizes.Dimensiones {
		t.Fatalf("c: %+v", c)
	}
	if c.LogoKey != "" || c.CustomText != "" || c.Gender != DefaultGender {
		t.Fatalf("nan cells must be blank: %+v", c)
	}
}

func TestFormatCOP(t *testing.T) {
	cases := map[int64]string{
		0:       "$0",
		999:     "$999",
		1000:    "$1.000",
		125000:  "$125.000",
		1250000: "$1.250.000",
		-45900:  "$-45.900",
	}
	for in, want := range cases {
		if got := FormatCOP(in); got != want {
			t.Fatalf("FormatCOP(%d) = %q want %q", in, got, want)
		}
	}
	if got := PriceText(125000.9); got != "$125.000" {
		t.Fatalf("PriceText truncation: %q", got)
	}
}

func TestParsePrice(t *testing.T) {
	for raw, want := range map[string]float64{"125000": 125000, "125000.0": 125000, "125.000": 125000, "$ 1.250.000": 1250000} {
		got := ParsePrice(raw)
		if got == nil || *got != want {
			t.Fatalf("ParsePrice(%q) = %v want %v", raw, got, want)
		}
	}
	for _, raw := range []string{"", "nan", "consultar", "-1000", "$ -125.000", "inf"} {
		if got := ParsePrice(raw); got != nil {
			t.Fatalf("ParsePrice(%q) = %v want nil", raw, *got)
		}
	}
}
