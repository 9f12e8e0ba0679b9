package models

import (
	"database/sql/driver"
	"sort"
	"time"

	"github.com/google/uuid"
)

// DateLayout — формат даты события (колонка date).
const DateLayout = "2006-01-02"

// Event — конкретное проведение тура на поле в определённый день.
type Event struct {
	ID          int64      `json:"id" db:"id"`
	TourID      int64      `json:"tour_id" db:"tour_id"`
	LocationID  int64      `json:"location_id" db:"location_id"`
	Name        string     `json:"name" db:"name"`
	EventDate   time.Time  `json:"event_date" db:"event_date"`
	Year        int        `json:"year" db:"year"`
	CourseName  *string    `json:"course_name,omitempty" db:"course_name"`
	Description *string    `json:"description,omitempty" db:"description"`
	CreatedBy   *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// DateString возвращает дату события в виде "2006-01-02".
func (e Event) DateString() string {
	return e.EventDate.Format(DateLayout)
}

// SideGameSetting — пара "включено + взнос" для одной игры каталога.
type SideGameSetting struct {
	Enabled bool  `json:"enabled"`
	Fee     Cents `json:"fee"`
}

// SideGameSettings — настройки побочных игр события по ключу каталога (jsonb).
type SideGameSettings map[string]SideGameSetting

func (s *SideGameSettings) Scan(src interface{}) error {
	m := SideGameSettings{}
	if err := jsonbScan(src, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

func (s SideGameSettings) Value() (driver.Value, error) {
	if s == nil {
		return "{}", nil
	}
	return jsonbValue(map[string]SideGameSetting(s))
}

// EnabledKeys возвращает включённые ключи в порядке каталога (сортировка по ключу).
func (s SideGameSettings) EnabledKeys() []string {
	keys := make([]string, 0, len(s))
	for k, v := range s {
		if v.Enabled {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// EventSideGames — строка event_side_games.
type EventSideGames struct {
	EventID   int64            `json:"event_id" db:"event_id"`
	Games     SideGameSettings `json:"games" db:"games"`
	UpdatedAt time.Time        `json:"updated_at" db:"updated_at"`
}

// EventSideGame — игра, доступная на событии: запись каталога + взнос события.
type EventSideGame struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Fee         Cents   `json:"fee"`
}

// EventDetails — событие вместе с подписями тура/поля, играми и статусом записи.
type EventDetails struct {
	Event
	TourName     string          `json:"tour_name,omitempty"`
	LocationName string          `json:"location_name,omitempty"`
	SideGames    []EventSideGame `json:"side_games"`
	EntryStatus  string          `json:"entry_status"`
	EntryOpen    bool            `json:"entry_open"`
}

// CalendarEntry — элемент календаря со ссылкой на выбор события в дашборде.
type CalendarEntry struct {
	Title      string `json:"title"`
	Start      string `json:"start"`
	EventID    int64  `json:"event_id"`
	TourID     int64  `json:"tour_id"`
	LocationID int64  `json:"location_id"`
	Link       string `json:"link"`
}
