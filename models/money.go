package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cents хранит денежную сумму в центах. В JSON и в Postgres (numeric(10,2))
// значение представлено долларами с двумя знаками после запятой.
type Cents int64

// Dollars создаёт сумму из значения в долларах с округлением до цента.
func Dollars(v float64) Cents {
	return Cents(math.Round(v * 100))
}

func (c Cents) Float64() float64 {
	return float64(c) / 100
}

// String форматирует сумму как "12.34" (без знака валюты).
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Format форматирует сумму для показа пользователю: "$1,234.50".
func (c Cents) Format() string {
	s := c.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Cents) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*c = 0
		return nil
	}
	// Строковое представление "12.50" тоже принимаем.
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	v, err := parseDollars(s)
	if err != nil {
		return fmt.Errorf("invalid money amount %s: %w", string(data), err)
	}
	*c = v
	return nil
}

// Scan реализует sql.Scanner для колонок numeric.
func (c *Cents) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*c = 0
		return nil
	case []byte:
		parsed, err := parseDollars(string(v))
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case string:
		parsed, err := parseDollars(v)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	case float64:
		*c = Dollars(v)
		return nil
	case int64:
		*c = Cents(v * 100)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Cents", src)
	}
}

// Value реализует driver.Valuer: в базу уходит строка "12.34".
func (c Cents) Value() (driver.Value, error) {
	return c.String(), nil
}

func parseDollars(s string) (Cents, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount is not finite")
	}
	return Dollars(f), nil
}

// jsonbScan разбирает jsonb-колонку в dst.
func jsonbScan(src interface{}, dst interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into jsonb value", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}

func jsonbValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
