package models

import (
	"time"

	"github.com/google/uuid"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
)

type PaymentMethod string

const (
	PaymentApplePay  PaymentMethod = "apple-pay"
	PaymentGooglePay PaymentMethod = "google-pay"
	PaymentPayPal    PaymentMethod = "paypal"
	PaymentVenmo     PaymentMethod = "venmo"
	PaymentCashApp   PaymentMethod = "cash-app"
	PaymentCard      PaymentMethod = "card"
)

// PaymentMethods — способы оплаты, которые принимает checkout.
var PaymentMethods = []PaymentMethod{
	PaymentApplePay, PaymentGooglePay, PaymentPayPal, PaymentVenmo, PaymentCashApp, PaymentCard,
}

func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

type Purchase struct {
	ID               int64          `json:"id" db:"id"`
	UserID           uuid.UUID      `json:"user_id" db:"user_id"`
	EventID          int64          `json:"event_id" db:"event_id"`
	SideGamesData    SideGamesData  `json:"side_games_data" db:"side_games_data"`
	TotalCost        Cents          `json:"total_cost" db:"total_cost"`
	Status           PurchaseStatus `json:"status" db:"status"`
	PaymentMethod    *string        `json:"payment_method,omitempty" db:"payment_method"`
	PaymentReference *string        `json:"payment_reference,omitempty" db:"payment_reference"`
	PurchaseDate     time.Time      `json:"purchase_date" db:"purchase_date"`

	Event *Event `json:"event,omitempty" db:"-"`
}

// PurchasedKeys — ключи игр из строк покупки (как есть, без нормализации).
func (p Purchase) PurchasedKeys() []string {
	rows := p.SideGamesData.SelectedRows()
	keys := make([]string, 0, len(rows))
	for _, r := range rows {
		if r.Key != "" {
			keys = append(keys, r.Key)
		} else {
			keys = append(keys, r.Name)
		}
	}
	return keys
}

// EnteredEvent — событие, в котором пользователь участвует, с первой покупкой.
type EnteredEvent struct {
	Event      Event     `json:"event"`
	PurchaseID int64     `json:"purchase_id"`
	TotalCost  Cents     `json:"total_cost"`
	Purchased  time.Time `json:"purchase_date"`
}

// MyEvents — события пользователя: куда записан и какие создал.
type MyEvents struct {
	Entered []EnteredEvent `json:"entered"`
	Created []Event        `json:"created"`
}
