package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^\+?[\d\s\-()]{10,}$`)
)

const (
	MinPasswordLength    = 8
	MinDisplayNameLength = 2
	MaxDisplayNameLength = 50
)

func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsValidPassword: минимум 8 символов, есть строчная, заглавная буква и цифра.
// Допустимы латинские буквы, цифры и @$!%*?&.
func IsValidPassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune("@$!%*?&", r):
		default:
			return false
		}
	}
	return lower && upper && digit
}

func IsValidPhone(phone string) bool {
	return phoneRe.MatchString(phone)
}

func IsValidDisplayName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= MinDisplayNameLength && n <= MaxDisplayNameLength
}

func IsRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

// Validator собирает ошибки по полям; пустой Validator означает, что данные корректны.
type Validator struct {
	Errors map[string]string
}

func NewValidator() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

// Check добавляет сообщение для поля, если ok == false. Первая ошибка поля сохраняется.
func (v *Validator) Check(ok bool, field, message string) {
	if ok {
		return
	}
	if _, exists := v.Errors[field]; !exists {
		v.Errors[field] = message
	}
}
