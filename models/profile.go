package models

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Email               string    `json:"email" db:"email"`
	DisplayName         string    `json:"display_name" db:"display_name"`
	About               *string   `json:"about,omitempty" db:"about"`
	ImageURL            *string   `json:"image_url,omitempty" db:"image_url"`
	FirstName           *string   `json:"first_name,omitempty" db:"first_name"`
	LastName            *string   `json:"last_name,omitempty" db:"last_name"`
	Address             *string   `json:"address,omitempty" db:"address"`
	Apartment           *string   `json:"apartment,omitempty" db:"apartment"`
	Country             *string   `json:"country,omitempty" db:"country"`
	Region              *string   `json:"region,omitempty" db:"region"`
	PostalCode          *string   `json:"postal_code,omitempty" db:"postal_code"`
	Phone               *string   `json:"phone,omitempty" db:"phone"`
	TourLeague          *string   `json:"tour_league,omitempty" db:"tour_league"`
	Location            *string   `json:"location,omitempty" db:"location"`
	MakePrivate         bool      `json:"make_private" db:"make_private"`
	EnableNotifications bool      `json:"enable_notifications" db:"enable_notifications"`
	AllowSMS            bool      `json:"allow_sms" db:"allow_sms"`
	AllowEmail          bool      `json:"allow_email" db:"allow_email"`
	ShowEmail           bool      `json:"show_email" db:"show_email"`
	ShowFirstName       bool      `json:"show_first_name" db:"show_first_name"`
	ShowLastName        bool      `json:"show_last_name" db:"show_last_name"`
	ShowPhone           bool      `json:"show_phone" db:"show_phone"`
	ImageKey            *string   `json:"-" db:"image_key"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// PublicView возвращает копию профиля, которую можно показать другому пользователю.
// Приватный профиль раскрывает только имя для показа и аватар; флаги show_* управляют
// контактными полями открытого профиля.
func (p Profile) PublicView() Profile {
	out := Profile{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		ImageURL:    p.ImageURL,
		MakePrivate: p.MakePrivate,
		CreatedAt:   p.CreatedAt,
	}
	if p.MakePrivate {
		return out
	}
	out.About = p.About
	out.TourLeague = p.TourLeague
	out.Location = p.Location
	if p.ShowEmail {
		out.Email = p.Email
	}
	if p.ShowFirstName {
		out.FirstName = p.FirstName
	}
	if p.ShowLastName {
		out.LastName = p.LastName
	}
	if p.ShowPhone {
		out.Phone = p.Phone
	}
	return out
}

// NotificationPreferences — флаги со страницы уведомлений.
type NotificationPreferences struct {
	MakePrivate         bool `json:"makePrivate"`
	EnableNotifications bool `json:"enableNotifications"`
	AllowSMS            bool `json:"allowSMS"`
	AllowEmail          bool `json:"allowEmail"`
}
