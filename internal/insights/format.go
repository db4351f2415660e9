package insights

import (
	"fmt"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const rupee = "₹"

var inPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatNumber groups digits the Indian way (12,34,567.5) with at most three
// fraction digits.
func FormatNumber(v float64) string {
	return inPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(3)))
}

// FormatINR is FormatNumber with the rupee sign.
func FormatINR(v float64) string {
	return rupee + FormatNumber(v)
}

// FormatCompactINR abbreviates to crore, lakh or thousand.
func FormatCompactINR(v float64) string {
	switch {
	case v >= 1e7:
		return fmt.Sprintf("%s%.1fCr", rupee, v/1e7)
	case v >= 1e5:
		return fmt.Sprintf("%s%.1fL", rupee, v/1e5)
	case v >= 1e3:
		return fmt.Sprintf("%s%.1fK", rupee, v/1e3)
	default:
		return fmt.Sprintf("%s%.0f", rupee, v)
	}
}

func fixed2(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// percentage prints a rate the way it is stored: 75 not 75.00.
func percentage(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}
