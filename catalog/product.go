package catalog

import (
	"strconv"
	"time"

	"github.com/nildiert/checho/sizes"
)

// DefaultGender is used when the sheet leaves the gender column blank.
const DefaultGender = "hombre"

// Product is one flyer-eligible row, normalized once at load time.
type Product struct {
	Index      int        `json:"index"` // position among rows that carry a photo URL
	PhotoURL   string     `json:"photoUrl"`
	Price      *float64   `json:"price,omitempty"`
	Delivery   Delivery   `json:"delivery"`
	SizeSpec   string     `json:"sizeSpec"`
	SizeKind   sizes.Kind `json:"sizeKind"`
	Gender     string     `json:"gender"`
	ValidUntil *time.Time `json:"validUntil,omitempty"`
	LogoKey    string     `json:"logoKey,omitempty"`
	CustomText string     `json:"customText,omitempty"`
}

// HasPrice reports whether the row can be used in a price-visible layout.
func (p Product) HasPrice() bool { return p.Price != nil }

// Key addresses the product's downloaded photo and cutout.
func (p Product) Key() string { return strconv.Itoa(p.Index) }

// DeliveryKind distinguishes the delivery column's keywords from a number of days.
type DeliveryKind int

const (
	DeliveryDays DeliveryKind = iota
	DeliveryImmediate
	DeliveryChristmas
)

// Delivery is the parsed "TIEMPO DE ENTREGA" column.
type Delivery struct {
	Kind DeliveryKind `json:"kind"`
	Days string       `json:"days,omitempty"` // whole days when numeric, raw text otherwise
}
