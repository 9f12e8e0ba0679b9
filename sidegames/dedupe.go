package sidegames

import "github.com/sidegames-golf/sidegames/models"

// FilterPurchased отбрасывает отмеченные строки, чей ключ (или имя, если ключа нет)
// уже есть среди купленных. Возвращает оставшиеся строки и имена пропущенных.
func FilterPurchased(rows []models.SideGameRow, purchased KeySet) (kept []models.SideGameRow, skipped []string) {
	for _, r := range rows {
		if !r.Selected {
			continue
		}
		if purchased.Has(rowKey(r)) {
			skipped = append(skipped, r.Name)
			continue
		}
		kept = append(kept, r)
	}
	return kept, skipped
}

// PurchasedByEvent собирает нормализованные ключи купленных игр по событиям.
func PurchasedByEvent(purchases []models.Purchase) map[int64]KeySet {
	out := make(map[int64]KeySet)
	for _, p := range purchases {
		set, ok := out[p.EventID]
		if !ok {
			set = KeySet{}
			out[p.EventID] = set
		}
		for _, k := range p.PurchasedKeys() {
			set.Add(k)
		}
	}
	return out
}

func rowKey(r models.SideGameRow) string {
	if r.Key != "" {
		return r.Key
	}
	return r.Name
}
