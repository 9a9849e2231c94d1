package importer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s and strips diacritics ("Dimensão" becomes "dimensao").
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, s)
	if err != nil {
		result = s
	}
	return strings.ToLower(strings.TrimSpace(result))
}

// NormalizeKey folds a document key and removes every whitespace character,
// so "Valor Total" and "valortotal" compare equal.
func NormalizeKey(key string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, Fold(key))
}

// DecodeText returns data as UTF-8. Windows-1252 is assumed for anything else,
// which is how spreadsheet tools on Brazilian desktops save CSV files.
func DecodeText(data []byte) string {
	if utf8.Valid(data) {
		return strings.TrimPrefix(string(data), "\ufeff")
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		log.Warnf("could not decode upload as windows-1252: %v", err)
		return string(data)
	}
	return string(decoded)
}
