package sidegames

import (
	"fmt"
	"strings"
	"time"
)

const (
	entryCloseHour = 22
	StatusClosed   = "Closed"
)

// EntryDeadline — 22:00 вечера накануне события в зоне loc.
func EntryDeadline(eventDate time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	y, m, d := eventDate.Date()
	return time.Date(y, m, d-1, entryCloseHour, 0, 0, 0, loc)
}

// EntryOpen сообщает, принимаются ли ещё записи на событие.
func EntryOpen(eventDate, now time.Time) bool {
	return now.Before(EntryDeadline(eventDate, now.Location()))
}

// EntryStatus возвращает "Closed" или оставшееся время в виде "3 days 5 hours".
func EntryStatus(eventDate, now time.Time) string {
	deadline := EntryDeadline(eventDate, now.Location())
	if !now.Before(deadline) {
		return StatusClosed
	}
	remaining := deadline.Sub(now)
	days := int(remaining / (24 * time.Hour))
	hours := int((remaining % (24 * time.Hour)) / time.Hour)
	return fmt.Sprintf("%d days %d hours", days, hours)
}

// DefaultSelected — игры каталога 01_..08_ включены по умолчанию при настройке события.
func DefaultSelected(key string) bool {
	if len(key) < 3 || key[2] != '_' || !strings.HasPrefix(key, "0") {
		return false
	}
	return key[1] >= '1' && key[1] <= '8'
}
