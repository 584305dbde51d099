package types

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is safe for concurrent use, a cases.Caser is not and is created per call
var printer = message.NewPrinter(language.English)

// FormatDateTime converts an RFC3339 datetime string to YYYY-MM-DD HH:MM
func FormatDateTime(dateString string) string {
	t, err := time.Parse(time.RFC3339, dateString)
	if err != nil {
		return dateString
	}
	return t.Format("2006-01-02 15:04")
}

// FormatDate converts a YYYY-MM-DD date into a short readable form (Mon 02 Jan 2006)
func FormatDate(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Mon 02 Jan 2006")
}

// FormatMoney formats an amount with thousands separators and two decimals, prefixed by the currency code if known
func FormatMoney(amount float64, currency string) string {
	s := printer.Sprintf("%.2f", amount)
	if currency == "" {
		return s
	}
	return strings.ToUpper(currency) + " " + s
}

// FormatLabel turns API values such as "in_progress" or "pending" into display labels
func FormatLabel(value string) string {
	value = strings.NewReplacer("_", " ", "-", " ").Replace(value)
	return cases.Title(language.English).String(value)
}

// FormatStars renders a 1-5 rating as filled and empty stars
func FormatStars(rating int) string {
	rating = max(0, min(rating, 5))
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
