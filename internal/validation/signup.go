// Package validation содержит проверки пользовательского ввода при регистрации.
package validation

import (
	"regexp"
	"unicode"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// IsValidEmail проверяет базовую форму адреса электронной почты.
func IsValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// IsStrongPassword проверяет минимальные требования к паролю:
// не короче 8 символов, есть строчная и заглавная буквы, цифра и спецсимвол.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSymbol = true
		}
	}

	return hasLower && hasUpper && hasDigit && hasSymbol
}

// IsAlphanumericUsername проверяет, что имя пользователя непустое и состоит
// только из латинских букв и цифр.
func IsAlphanumericUsername(username string) bool {
	if username == "" {
		return false
	}

	for _, r := range username {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return false
		}
	}

	return true
}
