package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// Bundled font names accepted by Load.
const (
	Regular = "Go-Regular"
	Medium  = "Go-Medium"
	Bold    = "Go-Bold"
)

var bundled = map[string][]byte{
	Regular: goregular.TTF,
	Medium:  gomedium.TTF,
	Bold:    gobold.TTF,
}

// Load returns the TTF bytes of a bundled font. path may be written as "embed:Go-Bold" or just "Go-Bold";
// a ".ttf" suffix is ignored.
func Load(path string) ([]byte, error) {
	name := strings.TrimPrefix(path, "embed:")
	name = strings.TrimSuffix(name, ".ttf")
	data, ok := bundled[name]
	if !ok {
		return nil, fmt.Errorf("bundled font %s not found", name)
	}
	return data, nil
}

// Names lists the bundled font names.
func Names() []string {
	return []string{Regular, Medium, Bold}
}
