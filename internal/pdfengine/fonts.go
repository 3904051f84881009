package pdfengine

import "fmt"

// coreFonts are the standard Type 1 fonts every PDF reader provides; they
// need no embedding.
var coreFonts = map[string]struct{}{
	"Courier":               {},
	"Courier-Bold":          {},
	"Courier-BoldOblique":   {},
	"Courier-Oblique":       {},
	"Helvetica":             {},
	"Helvetica-Bold":        {},
	"Helvetica-BoldOblique": {},
	"Helvetica-Oblique":     {},
	"Symbol":                {},
	"Times-Bold":            {},
	"Times-BoldItalic":      {},
	"Times-Italic":          {},
	"Times-Roman":           {},
	"ZapfDingbats":          {},
}

// IsCoreFont reports whether name is one of the 14 standard PDF fonts.
func IsCoreFont(name string) bool {
	_, ok := coreFonts[name]
	return ok
}

func checkFont(name string) error {
	if !IsCoreFont(name) {
		return fmt.Errorf("font %q is not a standard PDF font", name)
	}
	return nil
}
