package report

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const filenamePrefix = "Informe_Salud_"

// Filename names the exported document after the profile and the UTC date
// of generation. Each whitespace rune becomes an underscore.
func Filename(name string, now time.Time) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, norm.NFC.String(name))
	return filenamePrefix + name + "_" + now.UTC().Format("2006-01-02")
}
