package layout

import (
	"fmt"
	"math"
	"strings"
)

// Wrap breaks text into lines no wider than maxWidth using greedy word wrapping: words accumulate while the
// trial line fits, and the overflowing word starts the next line. Words are never split, so a single word
// wider than maxWidth becomes its own (overflowing) line. At least one line is always returned.
func Wrap(ts Typesetter, text string, font FontResource, size, maxWidth float64) ([]TextLine, error) {
	if ts == nil {
		return nil, fmt.Errorf("layout: missing Typesetter")
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		ext, err := ts.Measure("", font, size)
		if err != nil {
			return nil, err
		}
		return []TextLine{{Content: "", Width: 0, Height: ext.Height}}, nil
	}

	var contents []string
	current := words[0]
	for _, word := range words[1:] {
		trial := current + " " + word
		ext, err := ts.Measure(trial, font, size)
		if err != nil {
			return nil, err
		}
		if ext.Width <= maxWidth {
			current = trial
			continue
		}
		contents = append(contents, current)
		current = word
	}
	contents = append(contents, current)

	lines := make([]TextLine, 0, len(contents))
	for _, c := range contents {
		ext, err := ts.Measure(c, font, size)
		if err != nil {
			return nil, err
		}
		lines = append(lines, TextLine{Content: c, Width: ext.Width, Height: ext.Height})
	}
	return lines, nil
}

// FitFontSize shrinks startSize so text fits maxWidth with one proportional step:
// floor(startSize * maxWidth / measuredWidth), clamped to minSize. It is a single-shot approximation, not a
// search, so the result may still be a pixel off.
func FitFontSize(ts Typesetter, text string, font FontResource, startSize, maxWidth, minSize float64) (float64, error) {
	if ts == nil {
		return 0, fmt.Errorf("layout: missing Typesetter")
	}
	ext, err := ts.Measure(text, font, startSize)
	if err != nil {
		return 0, err
	}
	if ext.Width <= maxWidth || ext.Width <= 0 {
		return startSize, nil
	}
	size := math.Floor(startSize * maxWidth / ext.Width)
	if size < minSize {
		size = minSize
	}
	return size, nil
}

// CenteredText measures content and places it centered inside the box (x, y, w, h), flooring offsets the way
// integer pixel division does.
func CenteredText(ts Typesetter, content string, font FontResource, size float64, col Color, x, y, w, h float64) (TextBox, error) {
	ext, err := ts.Measure(content, font, size)
	if err != nil {
		return TextBox{}, err
	}
	return TextBox{
		Content:  content,
		X:        x + math.Floor((w-ext.Width)/2),
		Y:        y + math.Floor((h-ext.Height)/2),
		Width:    ext.Width,
		Height:   ext.Height,
		Font:     font,
		FontSize: size,
		Color:    col,
	}, nil
}

// PlainText measures content and anchors it at (x, y).
func PlainText(ts Typesetter, content string, font FontResource, size float64, col Color, x, y float64) (TextBox, error) {
	ext, err := ts.Measure(content, font, size)
	if err != nil {
		return TextBox{}, err
	}
	return TextBox{
		Content:  content,
		X:        x,
		Y:        y,
		Width:    ext.Width,
		Height:   ext.Height,
		Font:     font,
		FontSize: size,
		Color:    col,
	}, nil
}
