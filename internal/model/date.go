package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// dateLayout は暦日のシリアライズ形式。
const dateLayout = "2006-01-02"

// Date は時刻を持たない暦日を表す。
// JSONでは"YYYY-MM-DD"、PostgreSQLではDATE型として扱う。
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate はDateを生成する。
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf はtime.Timeの暦日部分を取り出す。
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate は"YYYY-MM-DD"形式の文字列を解析する。
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// IsZero は未設定の日付かどうかを返す。
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// Time はUTC 0時のtime.Timeに変換する。
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) String() string {
	return d.Time().Format(dateLayout)
}

// MarshalJSON は"YYYY-MM-DD"形式で出力する。
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON は"YYYY-MM-DD"形式を解析する。
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value はdriver.Valuerを実装する。
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan はsql.Scannerを実装する。
// lib/pqはDATE列をtime.Timeとして返す。
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		parsed, err := ParseDate(v)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case []byte:
		parsed, err := ParseDate(string(v))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
