package utils

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var nonDigitRe = regexp.MustCompile(`\D`)

// FormatPhone приводит десятизначный номер к виду "(555) 123-4567", остальное возвращает как есть.
func FormatPhone(phone string) string {
	d := nonDigitRe.ReplaceAllString(phone, "")
	if len(d) != 10 {
		return phone
	}
	return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
}

// FormatDate — "June 14, 2025".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

func TruncateText(text string, maxLength int) string {
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	return string([]rune(text)[:maxLength]) + "..."
}

func Capitalize(text string) string {
	if text == "" {
		return text
	}
	r := []rune(strings.ToLower(text))
	return strings.ToUpper(string(r[0])) + string(r[1:])
}
