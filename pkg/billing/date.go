package billing

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const dateLayout = "2006-01-02"

// Date is a civil calendar date with no time component. The zero value is the
// "not yet computable" sentinel and marshals to an empty string.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func Today() Date {
	return FromTime(time.Now().UTC())
}

func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return FromTime(t), nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(dateLayout)
}

func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool {
	return d.Time().Before(other.Time())
}

func (d Date) After(other Date) bool {
	return d.Time().After(other.Time())
}

// AddMonths adds whole calendar months, carrying the year as needed. When the
// start day does not exist in the target month (Jan 31 + 1 month), the result
// clamps to the last day of the target month, leap years included. The clamp
// uses day 0 of the month after the target, which the time package resolves
// to the target month's final day.
func (d Date) AddMonths(months int) Date {
	first := time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.UTC)
	shifted := first.AddDate(0, months, 0)

	lastDay := time.Date(shifted.Year(), shifted.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := d.Day
	if day > lastDay {
		day = lastDay
	}

	return Date{Year: shifted.Year(), Month: shifted.Month(), Day: day}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(d.String())
}

func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	var s string
	if err := raw.Unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
