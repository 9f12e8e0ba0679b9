package models

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись для аутентификации. Публичные данные пользователя живут в Profile.
type User struct {
	ID                     uuid.UUID  `json:"id" db:"id"`
	Email                  string     `json:"email" db:"email"`
	PasswordHash           string     `json:"-" db:"password_hash"`
	EmailConfirmedAt       *time.Time `json:"email_confirmed_at,omitempty" db:"email_confirmed_at"`
	ConfirmationToken      *string    `json:"-" db:"confirmation_token"`
	PasswordResetToken     *string    `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt *time.Time `json:"-" db:"password_reset_expires_at"`
	LastSignInAt           *time.Time `json:"last_sign_in_at,omitempty" db:"last_sign_in_at"`
	CreatedAt              time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time  `json:"updated_at" db:"updated_at"`
}

// SessionUser — то, что клиент видит как "текущего пользователя": учётная запись + профиль.
type SessionUser struct {
	ID                  uuid.UUID  `json:"id"`
	Email               string     `json:"email"`
	DisplayName         string     `json:"displayName"`
	About               string     `json:"about,omitempty"`
	ImageURL            string     `json:"imageUrl,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	TourLeague          string     `json:"tourLeague,omitempty"`
	Location            string     `json:"location,omitempty"`
	FirstName           string     `json:"firstName,omitempty"`
	LastName            string     `json:"lastName,omitempty"`
	Address             string     `json:"address,omitempty"`
	Apartment           string     `json:"apartment,omitempty"`
	Country             string     `json:"country,omitempty"`
	Region              string     `json:"region,omitempty"`
	PostalCode          string     `json:"postalCode,omitempty"`
	MakePrivate         bool       `json:"makePrivate"`
	EnableNotifications bool       `json:"enableNotifications"`
	AllowSMS            bool       `json:"allowSMS"`
	AllowEmail          bool       `json:"allowEmail"`
	EmailConfirmedAt    *time.Time `json:"emailConfirmedAt,omitempty"`
	LastSignInAt        *time.Time `json:"lastSignInAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// NewSessionUser склеивает учётную запись и профиль. Профиль может отсутствовать.
func NewSessionUser(u *User, p *Profile) *SessionUser {
	s := &SessionUser{
		ID:               u.ID,
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		LastSignInAt:     u.LastSignInAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if p == nil {
		return s
	}
	s.DisplayName = p.DisplayName
	s.About = deref(p.About)
	s.ImageURL = deref(p.ImageURL)
	s.Phone = deref(p.Phone)
	s.TourLeague = deref(p.TourLeague)
	s.Location = deref(p.Location)
	s.FirstName = deref(p.FirstName)
	s.LastName = deref(p.LastName)
	s.Address = deref(p.Address)
	s.Apartment = deref(p.Apartment)
	s.Country = deref(p.Country)
	s.Region = deref(p.Region)
	s.PostalCode = deref(p.PostalCode)
	s.MakePrivate = p.MakePrivate
	s.EnableNotifications = p.EnableNotifications
	s.AllowSMS = p.AllowSMS
	s.AllowEmail = p.AllowEmail
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
