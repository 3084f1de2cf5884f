package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Timestamp is stored as fractional unix seconds (REAL). The zero value
// maps to NULL.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// FromUnix converts fractional unix seconds.
func FromUnix(sec float64) Timestamp {
	if sec == 0 {
		return Timestamp{}
	}
	whole, frac := math.Modf(sec)
	return Timestamp{Time: time.Unix(int64(whole), int64(frac*1e9))}
}

// Unix returns fractional unix seconds, 0 for the zero value.
func (t Timestamp) Unix() float64 {
	if t.IsZero() {
		return 0
	}
	return float64(t.UnixNano()) / 1e9
}

func (t Timestamp) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return t.Unix(), nil
}

func (t *Timestamp) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = Timestamp{}
	case float64:
		*t = FromUnix(v)
	case int64:
		*t = FromUnix(float64(v))
	case time.Time:
		*t = Timestamp{Time: v}
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported timestamp type %T", value)
	}
	return nil
}

// parse accepts numeric seconds or the sqlite CURRENT_TIMESTAMP layout.
func (t *Timestamp) parse(s string) error {
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*t = FromUnix(f)
		return nil
	}
	parsed, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		return fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	*t = Timestamp{Time: parsed}
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return err
	}
	*t = Timestamp{Time: parsed}
	return nil
}
