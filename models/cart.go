package models

import (
	"database/sql/driver"
	"time"

	"github.com/google/uuid"
)

// SideGameRow — строка выбранной побочной игры в корзине или покупке.
type SideGameRow struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Cost     Cents  `json:"cost"`
	Selected bool   `json:"selected"`
}

// SideGamesData — выбор игр для одного события с итоговой стоимостью.
// Net/Division/SuperSkins дублируют выбор для клиента: какой net, какой дивизион.
type SideGamesData struct {
	Net        *string       `json:"net"`
	Division   *string       `json:"division"`
	SuperSkins bool          `json:"superSkins"`
	Rows       []SideGameRow `json:"rows"`
	TotalCost  Cents         `json:"totalCost"`
}

// SelectedRows возвращает только отмеченные строки.
func (d SideGamesData) SelectedRows() []SideGameRow {
	out := make([]SideGameRow, 0, len(d.Rows))
	for _, r := range d.Rows {
		if r.Selected {
			out = append(out, r)
		}
	}
	return out
}

func (d *SideGamesData) Scan(src interface{}) error {
	return jsonbScan(src, d)
}

func (d SideGamesData) Value() (driver.Value, error) {
	return jsonbValue(d)
}

// EventSummary — событие в корзине вместе с подписями тура и поля.
type EventSummary struct {
	SelectedEvent Event   `json:"selectedEvent"`
	TourLabel     *string `json:"tourLabel"`
	LocationLabel *string `json:"locationLabel"`
}

type CartItem struct {
	EventSummary  EventSummary  `json:"eventSummary"`
	SideGamesData SideGamesData `json:"sideGamesData"`
}

// EventID — удобный доступ к идентификатору события позиции.
func (i CartItem) EventID() int64 {
	return i.EventSummary.SelectedEvent.ID
}

// CartItems — содержимое колонки cart.cart_items (jsonb).
type CartItems []CartItem

func (c *CartItems) Scan(src interface{}) error {
	items := CartItems{}
	if err := jsonbScan(src, &items); err != nil {
		return err
	}
	*c = items
	return nil
}

func (c CartItems) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	return jsonbValue([]CartItem(c))
}

// Cart — строка таблицы cart; ID совпадает с идентификатором пользователя.
type Cart struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Items     CartItems `json:"cart_items" db:"cart_items"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FeeBreakdown — итог корзины: подытог, сервисный сбор, к оплате.
type FeeBreakdown struct {
	Subtotal Cents `json:"subtotal"`
	Fee      Cents `json:"fee"`
	Total    Cents `json:"total"`
}

// CartView — корзина вместе с расчётом суммы для ответа API.
type CartView struct {
	Items   CartItems    `json:"items"`
	Summary FeeBreakdown `json:"summary"`
}
