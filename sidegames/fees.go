package sidegames

import "github.com/sidegames-golf/sidegames/models"

const (
	DefaultPercentBasisPoints = 300
	DefaultFlatCents          = 60
)

// MinimumEntryFee — минимальный взнос включённой игры события.
const MinimumEntryFee models.Cents = 500

// Fees — сервисный сбор: процент от подытога (в базисных пунктах) плюс фиксированная часть.
type Fees struct {
	PercentBasisPoints int64
	FlatCents          models.Cents
}

func DefaultFees() Fees {
	return Fees{PercentBasisPoints: DefaultPercentBasisPoints, FlatCents: DefaultFlatCents}
}

// Compute считает сбор для подытога. Процентная часть округляется до цента
// половиной вверх. Пустая корзина ничего не стоит, фиксированная часть не берётся.
func (f Fees) Compute(subtotal models.Cents) models.FeeBreakdown {
	if subtotal <= 0 {
		return models.FeeBreakdown{}
	}
	percent := (int64(subtotal)*f.PercentBasisPoints + 5000) / 10000
	fee := models.Cents(percent) + f.FlatCents
	return models.FeeBreakdown{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal + fee,
	}
}

// ItemTotal — сумма стоимости отмеченных строк.
func ItemTotal(rows []models.SideGameRow) models.Cents {
	var total models.Cents
	for _, r := range rows {
		if r.Selected {
			total += r.Cost
		}
	}
	return total
}

// Subtotal — сумма итогов всех позиций корзины.
func Subtotal(items models.CartItems) models.Cents {
	var total models.Cents
	for _, item := range items {
		total += item.SideGamesData.TotalCost
	}
	return total
}
