package services

import (
	"errors"
	"sort"
	"strings"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrEmailAlreadyConfirmed = errors.New("email already confirmed")
	ErrResetTokenExpired     = errors.New("password reset link has expired")
	ErrInvalidImage          = errors.New("uploaded file is not a supported image")
	ErrEventReferenceInvalid = errors.New("tour or location does not exist")
	ErrSideGamesRequired     = errors.New("Please select at least one side game")
	ErrEntryFeeTooLow        = errors.New("Each side game must have an entrance fee of at least $5.00.")
	ErrUnknownSideGame       = errors.New("unknown side game")
	ErrSideGameNotOffered    = errors.New("side game is not offered for this event")
	ErrEntryClosed           = errors.New("Entry for this event is closed")
	ErrEventNotSelected      = errors.New("Please select an event")
	ErrCartEmpty             = errors.New("There are no items in the cart.")
	ErrInvalidPaymentMethod  = errors.New("Please select a valid payment method")
	ErrInvalidMonth          = errors.New("month must be in YYYY-MM format")

	// Ошибки конфликтов
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrTourNameConflict     = errors.New("tour name already exists")
	ErrTourInUse            = errors.New("tour is used by events and cannot be deleted")
	ErrLocationInUse        = errors.New("location is used by events and cannot be deleted")
	ErrTourLocationConflict = errors.New("location is already linked to the tour")
	ErrUserTourConflict     = errors.New("you have already joined this tour")
	ErrEventHasPurchases    = errors.New("cannot delete an event that has purchases")
	ErrEventAlreadyInCart   = errors.New("Event is already in cart")

	// Ошибки аутентификации и авторизации
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound         = errors.New("user not found")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrTourNotFound         = errors.New("tour not found")
	ErrLocationNotFound     = errors.New("location not found")
	ErrTourLocationNotFound = errors.New("location is not linked to the tour")
	ErrUserTourNotFound     = errors.New("you are not a member of this tour")
	ErrSideGameNotFound     = errors.New("side game not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrCartItemNotFound     = errors.New("cart item not found")

	// Внешние зависимости
	ErrStorageUnavailable = errors.New("avatar uploads are not available")
)

// ValidationError — ошибки по полям. errors.Is(err, ErrValidationFailed) для неё истинно.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

func newValidationError(fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
