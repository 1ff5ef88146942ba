package layout

import "image"

// This file defines the scene model shared by the card/flyer builders, the canvas renderer and debug JSON.

// Scene is an ordered list of elements drawn over a base raster of Width x Height pixels.
// Order matters: later elements paint over earlier ones.
type Scene struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Elements []Element `json:"elements"`
	Warnings []string  `json:"warnings,omitempty"`
}

// ElementKind tags which payload of an Element is set.
type ElementKind string

const (
	KindImage ElementKind = "image"
	KindRect  ElementKind = "rect"
	KindPie   ElementKind = "pie"
	KindText  ElementKind = "text"
)

// Element roles used by the builders; tests and debug output key on them.
const (
	RoleCutout         = "cutout"
	RoleLogo           = "logo"
	RoleIcon           = "icon"
	RolePrice          = "price"
	RoleSizesLabel     = "sizes.label"
	RoleDimensions     = "sizes.dimensions"
	RoleChip           = "chip"
	RoleChipLabel      = "chip.label"
	RoleValidityBanner = "banner.validity"
	RoleValidityText   = "banner.validity.text"
	RoleDeliveryBanner = "banner.delivery"
	RoleDeliveryText   = "banner.delivery.text"
	RoleCard           = "card"
)

// Element is one drawing instruction. Exactly one payload is set, matching Kind.
type Element struct {
	Kind  ElementKind `json:"kind"`
	Role  string      `json:"role,omitempty"`
	Image *ImageBox   `json:"image,omitempty"`
	Rect  *Rect       `json:"rect,omitempty"`
	Pie   *Pie        `json:"pie,omitempty"`
	Text  *TextBox    `json:"text,omitempty"`
}

// ImageBox pastes Source resized to Width x Height with its top-left corner at X, Y.
// The source's own alpha channel is the paste mask.
type ImageBox struct {
	Name   string      `json:"name"`
	Source image.Image `json:"-"`
	X      int         `json:"x"`
	Y      int         `json:"y"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
}

// Rect is a filled axis-aligned rectangle.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Fill   Color   `json:"fill"`
}

// Pie is a filled circular sector. Angles are in degrees, measured clockwise from the positive x axis
// (y grows downwards), Start < End.
type Pie struct {
	CX    float64 `json:"cx"`
	CY    float64 `json:"cy"`
	R     float64 `json:"r"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Fill  Color   `json:"fill"`
}

// TextBox is a single line of text whose ink box starts at X, Y (top-left).
type TextBox struct {
	Content  string       `json:"content"`
	X        float64      `json:"x"`
	Y        float64      `json:"y"`
	Width    float64      `json:"width"`
	Height   float64      `json:"height"`
	Font     FontResource `json:"font"`
	FontSize float64      `json:"fontSize"` // px
	Color    Color        `json:"color"`
}

// TextLine is one line produced by Wrap with its measured extent.
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// FontResource describes a font: src may be a file path or a bundled "embed:" name.
type FontResource struct {
	Name  string `json:"name"`
	Src   string `json:"src"`
	Style string `json:"style,omitempty"`
}

// Color uses 0-255 RGB values; A of 0 is treated as opaque.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
	A int `json:"a,omitempty"`
}

// Alpha returns the effective alpha channel.
func (c Color) Alpha() int {
	if c.A == 0 {
		return 255
	}
	return c.A
}

// AddImage appends an image element.
func (s *Scene) AddImage(role string, box ImageBox) {
	s.Elements = append(s.Elements, Element{Kind: KindImage, Role: role, Image: &box})
}

// AddRect appends a rectangle element.
func (s *Scene) AddRect(role string, rc Rect) {
	s.Elements = append(s.Elements, Element{Kind: KindRect, Role: role, Rect: &rc})
}

// AddPie appends a pie element.
func (s *Scene) AddPie(role string, p Pie) {
	s.Elements = append(s.Elements, Element{Kind: KindPie, Role: role, Pie: &p})
}

// AddText appends a text element.
func (s *Scene) AddText(role string, tb TextBox) {
	s.Elements = append(s.Elements, Element{Kind: KindText, Role: role, Text: &tb})
}

// Texts returns the text boxes with the given role, in drawing order.
func (s *Scene) Texts(role string) []TextBox {
	var out []TextBox
	for _, el := range s.Elements {
		if el.Kind == KindText && el.Role == role {
			out = append(out, *el.Text)
		}
	}
	return out
}

// Images returns the image boxes with the given role, in drawing order.
func (s *Scene) Images(role string) []ImageBox {
	var out []ImageBox
	for _, el := range s.Elements {
		if el.Kind == KindImage && el.Role == role {
			out = append(out, *el.Image)
		}
	}
	return out
}

// Count returns how many elements carry role.
func (s *Scene) Count(role string) int {
	n := 0
	for _, el := range s.Elements {
		if el.Role == role {
			n++
		}
	}
	return n
}
