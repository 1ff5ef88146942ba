package layout

import (
	"fmt"
	"image"
	"math"
	"time"

	"github.com/nildiert/checho/catalog"
)

// Three-up geometry.
const (
	CardsPerFlyer    = 3
	threeUpTopMargin = 50
	threeUpCardGap   = 20
)

// Square geometry, in px of the scaled template.
const (
	SquareWidth = 1080

	squareMargin        = 60
	squareBannerWidth   = 440
	squareBannerHeight  = 110
	squareBannerBottom  = 70
	squareBannerRadius  = 18
	squareBannerPadding = 24
	squareZoneTop       = 230
	squareZoneGap       = 30
	squareZoneMargin    = 80

	squareValidityFontSize = 30
	squareLineHeight       = 1.2
	squareDeliveryFontSize = 32
	squarePriceFontSize    = 110
	squarePriceMinSize     = 36
	squarePriceGap         = 20

	squareLogoWidth     = 200
	squareWideLogoWidth = 280
	squareIconWidth     = 140
)

// CardSlot returns where card number slot (0-based) goes on a three-up template: horizontally centered,
// top_margin + slot * (card_height + gap) from the top.
func CardSlot(templateW, cardW, cardH, slot int) image.Point {
	return image.Pt((templateW-cardW)/2, threeUpTopMargin+slot*(cardH+threeUpCardGap))
}

// SlotCard is a rendered card waiting to be pasted into its slot.
type SlotCard struct {
	Slot  int
	Name  string
	Image image.Image
}

// BuildThreeUp lays rendered cards onto a template. Slots without a card stay empty.
func BuildThreeUp(templateW, templateH int, cards []SlotCard) (*Scene, error) {
	s := &Scene{Width: templateW, Height: templateH}
	for _, c := range cards {
		if c.Slot < 0 || c.Slot >= CardsPerFlyer {
			return nil, fmt.Errorf("layout: card slot %d out of range", c.Slot)
		}
		if c.Image == nil {
			continue
		}
		b := c.Image.Bounds()
		pt := CardSlot(templateW, b.Dx(), b.Dy(), c.Slot)
		s.AddImage(RoleCard, ImageBox{Name: c.Name, Source: c.Image, X: pt.X, Y: pt.Y, Width: b.Dx(), Height: b.Dy()})
	}
	return s, nil
}

// SquareSize scales a square template to SquareWidth, keeping its aspect ratio.
func SquareSize(w, h int) (int, int) {
	if w <= 0 {
		return SquareWidth, 0
	}
	return SquareWidth, floorPx(float64(h) * SquareWidth / float64(w))
}

// SquareOptions carries everything BuildSquare needs besides the product and its cutout.
type SquareOptions struct {
	Palette Palette
	Today   time.Time
	Fonts   Fonts
	Labels  Labels
	LogoKey string
	Logo    image.Image
	Icon    image.Image
}

// FitInside scales w x h by the smaller of the two axis factors so it fits maxW x maxH on both axes.
func FitInside(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 || maxW <= 0 || maxH <= 0 {
		return 0, 0
	}
	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return floorPx(float64(w) * scale), floorPx(float64(h) * scale)
}

// BuildSquare lays out one product on a scaled square template of width x height: the cutout centered in the
// zone between the top anchor and the banners, a left banner with the product's custom text (only when it has
// one), the delivery banner on the right, the price auto-fitted to the delivery banner width, then logo and icon.
func BuildSquare(ts Typesetter, p catalog.Product, cutout image.Image, width, height int, opts SquareOptions) (*Scene, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: missing Typesetter")
	}
	if cutout == nil {
		return nil, fmt.Errorf("layout: product %d has no cutout", p.Index)
	}
	s := &Scene{Width: width, Height: height}
	pal := opts.Palette

	bannerTop := height - squareBannerBottom - squareBannerHeight
	zoneX, zoneY := squareZoneMargin, squareZoneTop
	zoneW, zoneH := width-2*squareZoneMargin, bannerTop-squareZoneGap-squareZoneTop
	b := cutout.Bounds()
	nw, nh := FitInside(b.Dx(), b.Dy(), zoneW, zoneH)
	s.AddImage(RoleCutout, ImageBox{
		Name:   "cutout-" + p.Key(),
		Source: cutout,
		X:      zoneX + (zoneW-nw)/2,
		Y:      zoneY + (zoneH-nh)/2,
		Width:  nw,
		Height: nh,
	})

	top := float64(bannerTop)
	if p.CustomText != "" {
		if err := addWrappedBanner(s, ts, p.CustomText, squareMargin, top, opts); err != nil {
			return nil, err
		}
	}

	rightX := float64(width - squareMargin - squareBannerWidth)
	RoundedRect(s, RoleDeliveryBanner, rightX, top, rightX+squareBannerWidth, top+squareBannerHeight, squareBannerRadius, pal.Banner2)
	tb, err := CenteredText(ts, opts.Labels.DeliveryText(p.Delivery), opts.Fonts.Body, squareDeliveryFontSize, pal.BannerText, rightX, top, squareBannerWidth, squareBannerHeight)
	if err != nil {
		return nil, err
	}
	s.AddText(RoleDeliveryText, tb)

	if p.Price != nil {
		text := catalog.PriceText(*p.Price)
		size, err := FitFontSize(ts, text, opts.Fonts.Heading, squarePriceFontSize, squareBannerWidth, squarePriceMinSize)
		if err != nil {
			return nil, err
		}
		ext, err := ts.Measure(text, opts.Fonts.Heading, size)
		if err != nil {
			return nil, err
		}
		s.AddText(RolePrice, TextBox{
			Content:  text,
			X:        rightX + squareBannerWidth - ext.Width,
			Y:        top - squarePriceGap - ext.Height,
			Width:    ext.Width,
			Height:   ext.Height,
			Font:     opts.Fonts.Heading,
			FontSize: size,
			Color:    pal.Price,
		})
	}

	if opts.Logo != nil {
		lw := squareLogoWidth
		if opts.LogoKey == WideLogoKey {
			lw = squareWideLogoWidth
		}
		s.AddImage(RoleLogo, scaledBox("logo-"+opts.LogoKey, opts.Logo, squareMargin, squareMargin, lw))
	}
	if opts.Icon != nil {
		s.AddImage(RoleIcon, scaledBox("icon", opts.Icon, width-squareMargin-squareIconWidth, squareMargin, squareIconWidth))
	}
	return s, nil
}

// addWrappedBanner draws the left banner with user text wrapped to the banner's inner width; the block of lines
// is centered vertically and each line horizontally.
func addWrappedBanner(s *Scene, ts Typesetter, text string, x, y float64, opts SquareOptions) error {
	pal := opts.Palette
	RoundedRect(s, RoleValidityBanner, x, y, x+squareBannerWidth, y+squareBannerHeight, squareBannerRadius, pal.Banner1)
	lines, err := Wrap(ts, text, opts.Fonts.Body, squareValidityFontSize, squareBannerWidth-2*squareBannerPadding)
	if err != nil {
		return err
	}
	lineH := math.Floor(squareValidityFontSize * squareLineHeight)
	startY := y + math.Floor((squareBannerHeight-lineH*float64(len(lines)))/2)
	for i, ln := range lines {
		tb, err := CenteredText(ts, ln.Content, opts.Fonts.Body, squareValidityFontSize, pal.BannerText, x, startY+float64(i)*lineH, squareBannerWidth, lineH)
		if err != nil {
			return err
		}
		s.AddText(RoleValidityText, tb)
	}
	return nil
}

func scaledBox(name string, img image.Image, x, y, width int) ImageBox {
	b := img.Bounds()
	h := 0
	if b.Dx() > 0 {
		h = floorPx(float64(width) * float64(b.Dy()) / float64(b.Dx()))
	}
	return ImageBox{Name: name, Source: img, X: x, Y: y, Width: width, Height: h}
}
