package currency

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrInvalidAmount = errors.New("valor monetário inválido")

var (
	symbolRegex     = regexp.MustCompile(`(?i)R\$`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	formattingRegex = regexp.MustCompile(`[^0-9,.\-]`)
	numberRegex     = regexp.MustCompile(`^[-+]?(\d+\.?\d*|\.\d+)$`)
	prefixRegex     = regexp.MustCompile(`^[-+]?(\d+(\.\d+)?|\.\d+)`)
)

// Parser converts monetary text such as "R$ 1.234,56" or "1234.56" into an amount.
// A lenient parser reads the leading number and ignores what follows it, so
// "100,00 (estimado)" is 100. Text with no leading number is 0.
type Parser struct {
	Lenient bool
}

func NewParser(lenient bool) Parser {
	return Parser{Lenient: lenient}
}

var defaultParser = Parser{Lenient: true}

// Parse is the lenient parser used by bulk imports. It never fails.
func Parse(text string) float64 {
	value, _ := defaultParser.Parse(text)
	return value
}

func (p Parser) Parse(text string) (float64, error) {
	cleaned := normalize(text)
	if cleaned == "" || cleaned == "0" {
		return 0, nil
	}
	if p.Lenient {
		return leadingNumber(text, cleaned), nil
	}
	if !numberRegex.MatchString(cleaned) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return toFloat(text, cleaned)
}

func leadingNumber(text string, cleaned string) float64 {
	prefix := prefixRegex.FindString(cleaned)
	if prefix == "" {
		log.Debugf("could not parse amount %q, using 0", text)
		return 0
	}
	if prefix != cleaned {
		log.Debugf("ignoring trailing text of amount %q", text)
	}
	value, err := toFloat(text, prefix)
	if err != nil {
		log.Debugf("could not parse amount %q, using 0", text)
		return 0
	}
	return value
}

func toFloat(text string, number string) (float64, error) {
	value, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	return value, nil
}

// normalize drops the currency symbol and whitespace and leaves a dot as the
// only decimal separator.
func normalize(text string) string {
	cleaned := symbolRegex.ReplaceAllString(text, "")
	cleaned = whitespaceRegex.ReplaceAllString(cleaned, "")

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = decimalComma(cleaned)
	case lastComma >= 0 && lastDot >= 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	case lastComma >= 0:
		cleaned = decimalComma(cleaned)
	}
	return cleaned
}

// decimalComma keeps the last comma as the decimal point and drops the others.
func decimalComma(s string) string {
	last := strings.LastIndex(s, ",")
	integer := strings.ReplaceAll(s[:last], ",", "")
	return integer + "." + s[last+1:]
}

// StripFormatting keeps only digits, separators and the minus sign.
func StripFormatting(text string) string {
	return formattingRegex.ReplaceAllString(text, "")
}

var printer = message.NewPrinter(language.BrazilianPortuguese)

// Format renders an amount the way Brazilian reports show money, e.g. "R$ 1.234,56".
func Format(value float64) string {
	return printer.Sprintf("R$ %.2f", value)
}

// FormatNumber renders an amount with pt-BR separators and no currency symbol.
func FormatNumber(value float64) string {
	return printer.Sprintf("%.2f", value)
}
