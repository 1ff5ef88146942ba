package layout

import (
	"time"

	"github.com/nildiert/checho/binding"
	"github.com/nildiert/checho/catalog"
)

// Labels are the Spanish text templates drawn on cards; placeholders are resolved with binding.Interpolate.
type Labels struct {
	SizesAvailable    string `json:"sizesAvailable"`
	ValidToday        string `json:"validToday"`
	ValidUntil        string `json:"validUntil"`
	DeliveryImmediate string `json:"deliveryImmediate"`
	DeliveryChristmas string `json:"deliveryChristmas"`
	DeliveryDays      string `json:"deliveryDays"`
}

// DateLayout renders validity dates day first.
const DateLayout = "02/01/2006"

// DefaultLabels returns the stock flyer texts.
func DefaultLabels() Labels {
	return Labels{
		SizesAvailable:    "Tallas disponibles para ${gender|capitalize}:",
		ValidToday:        "Válido hasta hoy",
		ValidUntil:        "Válido hasta el ${date}",
		DeliveryImmediate: "Entrega Inmediata.",
		DeliveryChristmas: "Entrega antes de Navidad.",
		DeliveryDays:      "Entrega en ${days} días aprox.",
	}
}

// SizesLabel renders the "available sizes" caption for a gender.
func (l Labels) SizesLabel(gender string) string {
	return binding.Interpolate(l.SizesAvailable, map[string]any{"gender": gender})
}

// ValidityText renders the validity banner text. ok is false when there is no date, in which case no banner
// is drawn at all.
func (l Labels) ValidityText(validUntil *time.Time, today time.Time) (text string, ok bool) {
	if validUntil == nil {
		return "", false
	}
	if sameDay(*validUntil, today) {
		return l.ValidToday, true
	}
	return binding.Interpolate(l.ValidUntil, map[string]any{"date": validUntil.Format(DateLayout)}), true
}

// DeliveryText renders the delivery banner text.
func (l Labels) DeliveryText(d catalog.Delivery) string {
	switch d.Kind {
	case catalog.DeliveryImmediate:
		return l.DeliveryImmediate
	case catalog.DeliveryChristmas:
		return l.DeliveryChristmas
	default:
		return binding.Interpolate(l.DeliveryDays, map[string]any{"days": d.Days})
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
