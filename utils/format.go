package utils

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders a count with thousands grouping, e.g. 125430 -> "125,430".
func FormatCount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatMillions renders a dollar amount in millions with one decimal.
// Halves round away from zero, so 250,000 is "$0.3M".
func FormatMillions(v float64) string {
	return fmt.Sprintf("$%.1fM", math.Round(v/100_000)/10)
}

// FormatThousands renders a dollar amount in whole thousands.
// Halves round away from zero, so 340,500 is "$341K".
func FormatThousands(v float64) string {
	return fmt.Sprintf("$%.0fK", math.Round(v/1_000))
}

func FormatPercent(v float64) string {
	return FormatPlain(v) + "%"
}

// FormatPlain renders v without trailing zeros.
func FormatPlain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
