package layout

import (
	"fmt"
	"image"
	"time"

	"github.com/nildiert/checho/catalog"
	"github.com/nildiert/checho/sizes"
)

// Card geometry in px, tuned to the card assets.
const (
	cutoutTargetWidth = 450
	cutoutMaxHeight   = 340
	cutoutLeft        = 60
	cutoutBottom      = 70

	tallaBoxX      = 40
	tallaBoxBottom = 40
	tallaBoxWidth  = 470
	tallaBoxHeight = 380

	priceX        = 517
	priceY        = 14
	priceFontSize = 48

	logoX         = 20
	logoY         = 14
	logoWidth     = 110
	wideLogoWidth = 170

	sizesLabelGap      = 13
	sizesLabelFontSize = 20
	chipTopGap         = 11
	chipSize           = 44
	chipGapX           = 9
	chipGapY           = 5
	chipRadius         = 5
	chipFontSize       = 18
	chipRightMargin    = 20

	bannerWidth       = 327
	bannerHeight      = 41
	bannerRadius      = 5
	bannerRightMargin = 28
	bannerBottom      = 28
	bannerGap         = 5
	bannerFontSize    = 15
)

// WideLogoKey renders wider than the other logos on cards and square flyers.
const WideLogoKey = "footlocker"

// CardOptions carries everything BuildCard needs besides the product and its cutout.
type CardOptions struct {
	Palette      Palette
	PriceVisible bool
	Today        time.Time
	Fonts        Fonts
	Labels       Labels
	LogoKey      string
	Logo         image.Image // nil when the record has no logo or the mode has no asset for it
}

// FitCutout resizes w x h proportionally to targetWidth; when the result is taller than maxHeight it is
// resized by height instead, so the height limit always wins.
func FitCutout(w, h, targetWidth, maxHeight int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	ratio := float64(w) / float64(h)
	nw := targetWidth
	nh := floorPx(float64(nw) / ratio)
	if nh > maxHeight {
		nh = maxHeight
		nw = floorPx(float64(nh) * ratio)
	}
	return nw, nh
}

// LogoWidth returns the rendered width of a logo key on a card.
func LogoWidth(key string) int {
	if key == WideLogoKey {
		return wideLogoWidth
	}
	return logoWidth
}

// BuildCard lays out one product on a card of cardW x cardH: cutout, price, logo, sizes caption, chips or
// dimension text, then the validity and delivery banners stacked at the bottom-right corner.
// Size parse problems never fail the card; they are reported in Scene.Warnings.
func BuildCard(ts Typesetter, p catalog.Product, cutout image.Image, cardW, cardH int, opts CardOptions) (*Scene, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: missing Typesetter")
	}
	if cutout == nil {
		return nil, fmt.Errorf("layout: product %d has no cutout", p.Index)
	}
	s := &Scene{Width: cardW, Height: cardH}
	pal := opts.Palette

	b := cutout.Bounds()
	nw, nh := FitCutout(b.Dx(), b.Dy(), cutoutTargetWidth, cutoutMaxHeight)
	var x, y int
	if p.SizeKind == sizes.Talla {
		boxY := cardH - tallaBoxBottom - tallaBoxHeight
		x = tallaBoxX + (tallaBoxWidth-nw)/2
		y = boxY + (tallaBoxHeight-nh)/2
	} else {
		x = cutoutLeft
		y = cardH - cutoutBottom - nh
	}
	s.AddImage(RoleCutout, ImageBox{Name: "cutout-" + p.Key(), Source: cutout, X: x, Y: y, Width: nw, Height: nh})

	if opts.PriceVisible && p.Price != nil {
		tb, err := PlainText(ts, catalog.PriceText(*p.Price), opts.Fonts.Heading, priceFontSize, pal.Price, priceX, priceY)
		if err != nil {
			return nil, err
		}
		s.AddText(RolePrice, tb)
	}

	if opts.Logo != nil {
		s.AddImage(RoleLogo, scaledBox("logo-"+opts.LogoKey, opts.Logo, logoX, logoY, LogoWidth(opts.LogoKey)))
	}

	if err := addSizes(s, ts, p, opts); err != nil {
		return nil, err
	}
	if err := addCardBanners(s, ts, p, opts); err != nil {
		return nil, err
	}
	return s, nil
}

func addSizes(s *Scene, ts Typesetter, p catalog.Product, opts CardOptions) error {
	tokens, err := sizes.Parse(p.SizeSpec, p.SizeKind)
	if err != nil {
		s.Warnings = append(s.Warnings, err.Error())
	}
	if len(tokens) == 0 {
		return nil
	}
	pal := opts.Palette
	labelY := float64(priceY + priceFontSize + sizesLabelGap)
	label, err := PlainText(ts, opts.Labels.SizesLabel(p.Gender), opts.Fonts.Body, sizesLabelFontSize, pal.Text, priceX, labelY)
	if err != nil {
		return err
	}
	s.AddText(RoleSizesLabel, label)

	chipY := labelY + sizesLabelFontSize + chipTopGap
	if p.SizeKind == sizes.Dimensiones {
		tb, err := PlainText(ts, tokens[0].String(), opts.Fonts.Body, sizesLabelFontSize, pal.Text, priceX, chipY)
		if err != nil {
			return err
		}
		s.AddText(RoleDimensions, tb)
		return nil
	}
	_, err = PackChips(s, ts, sizes.Labels(tokens), ChipGrid{
		X0:       priceX,
		Y0:       chipY,
		XMax:     float64(s.Width - chipRightMargin),
		Size:     chipSize,
		GapX:     chipGapX,
		GapY:     chipGapY,
		Radius:   chipRadius,
		Fill:     pal.ChipFill(p.Gender),
		Text:     pal.Text,
		Font:     opts.Fonts.Body,
		FontSize: chipFontSize,
	})
	return err
}

// addCardBanners draws the lower validity banner first, then the delivery banner above it. The delivery
// banner keeps its slot even when there is no validity date.
func addCardBanners(s *Scene, ts Typesetter, p catalog.Product, opts CardOptions) error {
	pal := opts.Palette
	x := float64(s.Width - bannerRightMargin - bannerWidth)
	lowerY := float64(s.Height - bannerBottom - bannerHeight)
	upperY := lowerY - bannerHeight - bannerGap

	if text, ok := opts.Labels.ValidityText(p.ValidUntil, opts.Today); ok {
		if err := addBanner(s, ts, RoleValidityBanner, RoleValidityText, text, x, lowerY, pal.Banner1, pal.BannerText, opts.Fonts.Body); err != nil {
			return err
		}
	}
	return addBanner(s, ts, RoleDeliveryBanner, RoleDeliveryText, opts.Labels.DeliveryText(p.Delivery), x, upperY, pal.Banner2, pal.BannerText, opts.Fonts.Body)
}

func addBanner(s *Scene, ts Typesetter, role, textRole, text string, x, y float64, fill, textColor Color, font FontResource) error {
	RoundedRect(s, role, x, y, x+bannerWidth, y+bannerHeight, bannerRadius, fill)
	tb, err := CenteredText(ts, text, font, bannerFontSize, textColor, x, y, bannerWidth, bannerHeight)
	if err != nil {
		return err
	}
	s.AddText(textRole, tb)
	return nil
}
