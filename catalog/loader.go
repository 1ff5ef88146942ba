package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/nildiert/checho/sizes"
)

// Row mirrors the spreadsheet columns as exported to CSV.
type Row struct {
	PhotoURL   string `csv:"Link Foto"`
	Price      string `csv:"Precio de venta"`
	Delivery   string `csv:"TIEMPO DE ENTREGA"`
	Sizes      string `csv:"Talla"`
	Gender     string `csv:"Genero"`
	Kind       string `csv:"Tipo"`
	Date       string `csv:"fecha"`
	Logo       string `csv:"Logo"`
	CustomText string `csv:"Texto Personalizado"`
}

var thousandsPattern = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// LoadCSV reads the sheet export at path and returns normalized products.
func LoadCSV(path string) ([]Product, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sheet %s: %w", path, err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads CSV rows from r and returns normalized products.
func Decode(r io.Reader) ([]Product, error) {
	decoder, err := csvutil.NewDecoder(csv.NewReader(r))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}
	var rows []Row
	if err := decoder.Decode(&rows); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode CSV: %w", err)
	}
	return Normalize(rows), nil
}

// Normalize converts raw rows into products. A row without a photo URL is dropped as a whole, so every other
// column of a kept product always comes from the same row.
func Normalize(rows []Row) []Product {
	products := make([]Product, 0, len(rows))
	for _, row := range rows {
		url := clean(row.PhotoURL)
		if url == "" {
			continue
		}
		gender := strings.ToLower(clean(row.Gender))
		if gender == "" {
			gender = DefaultGender
		}
		products = append(products, Product{
			Index:      len(products),
			PhotoURL:   url,
			Price:      ParsePrice(row.Price),
			Delivery:   ParseDelivery(row.Delivery),
			SizeSpec:   clean(row.Sizes),
			SizeKind:   sizes.ParseKind(row.Kind),
			Gender:     gender,
			ValidUntil: ParseDate(row.Date),
			LogoKey:    strings.ToLower(clean(row.Logo)),
			CustomText: clean(row.CustomText),
		})
	}
	return products
}

// ParsePrice accepts "125000", "125000.0", "125.000" and "$125.000"; blanks and negative amounts yield nil.
func ParsePrice(raw string) *float64 {
	s := strings.TrimSpace(strings.TrimPrefix(clean(raw), "$"))
	if s == "" {
		return nil
	}
	if thousandsPattern.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ParseDelivery resolves the delivery keywords; anything else is a number of days.
func ParseDelivery(raw string) Delivery {
	s := clean(raw)
	switch strings.ToLower(s) {
	case "inmediata":
		return Delivery{Kind: DeliveryImmediate}
	case "navidad":
		return Delivery{Kind: DeliveryChristmas}
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return Delivery{Kind: DeliveryDays, Days: strconv.Itoa(int(v))}
	}
	return Delivery{Kind: DeliveryDays, Days: s}
}

// ParseDate reads day-first dates; unparseable values are treated as absent.
func ParseDate(raw string) *time.Time {
	s := clean(raw)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006", "2006-01-02", "2006-01-02 15:04:05"} {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}
	return nil
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "nan") {
		return ""
	}
	return s
}
