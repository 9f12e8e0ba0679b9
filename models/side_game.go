package models

import "time"

// SideGame — запись каталога побочных игр. Value — взнос по умолчанию.
type SideGame struct {
	ID          int64     `json:"id" db:"id"`
	Key         string    `json:"key" db:"key"`
	Name        string    `json:"name" db:"name"`
	Value       Cents     `json:"value" db:"value"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
