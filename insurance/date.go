package insurance

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const DateLayout = "2006-01-02"

// Date is a calendar day, encoded in JSON as YYYY-MM-DD.
type Date time.Time

func NewDate(year int, month time.Month, day int) Date {
	return Date(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf drops the clock part of t.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errors.Wrapf(err, "invalid date %q", s)
	}
	return Date(t), nil
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) After(o Date) bool {
	return d.Time().After(o.Time())
}

func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.Wrapf(err, "invalid date %s", data)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Datatype() datatypes.Date {
	return datatypes.Date(d.Time())
}

// DatatypePtr converts an optional date into its column value.
func DatatypePtr(d *Date) *datatypes.Date {
	if d == nil {
		return nil
	}
	v := d.Datatype()
	return &v
}

func FromDatatype(d datatypes.Date) Date {
	return DateOf(time.Time(d))
}

func FromDatatypePtr(d *datatypes.Date) *Date {
	if d == nil {
		return nil
	}
	v := FromDatatype(*d)
	return &v
}
