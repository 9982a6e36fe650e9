package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Gender is the closed set of genders a user may declare.
// It is persisted and serialised by its canonical name.
type Gender int8

const (
	GenderMale Gender = iota + 1
	GenderFemale
	GenderOther
)

var genderNames = map[Gender]string{
	GenderMale:   "MALE",
	GenderFemale: "FEMALE",
	GenderOther:  "OTHER",
}

var gendersByName = func() map[string]Gender {
	byName := make(map[string]Gender, len(genderNames))
	for g, name := range genderNames {
		byName[name] = g
	}
	return byName
}()

func (g Gender) String() string {
	if name, ok := genderNames[g]; ok {
		return name
	}
	return fmt.Sprintf("Gender(%d)", int8(g))
}

// ParseGender returns the Gender whose canonical name equals s.
// The comparison is case-sensitive.
func ParseGender(s string) (Gender, error) {
	if g, ok := gendersByName[s]; ok {
		return g, nil
	}
	return 0, fmt.Errorf("unknown gender %q", s)
}

func (g Gender) MarshalText() ([]byte, error) {
	if _, ok := genderNames[g]; !ok {
		return nil, fmt.Errorf("unknown gender %d", int8(g))
	}
	return []byte(g.String()), nil
}

func (g *Gender) UnmarshalText(text []byte) error {
	parsed, err := ParseGender(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Value stores the gender as its canonical name.
func (g Gender) Value() (driver.Value, error) {
	return g.String(), nil
}

func (g *Gender) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return g.UnmarshalText([]byte(v))
	case []byte:
		return g.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Gender", src)
	}
}

const dateLayout = "2006-01-02"

// Date is a calendar date without a time of day, e.g. a birth date.
// The zero value is 0001-01-01; request fields that may be absent use
// OptionalDate instead.
type Date struct {
	time.Time
}

// NewDate builds the Date for the given year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar date of t as seen in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Before reports whether d is a strictly earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// AddYears shifts d by n years, normalising Feb 29 the way time.AddDate does.
func (d Date) AddYears(n int) Date {
	return DateOf(d.AddDate(n, 0, 0))
}

// YearsUntil returns the number of whole years elapsed from d to other.
func (d Date) YearsUntil(other Date) int {
	years := other.Year() - d.Year()
	if other.Month() < d.Month() || (other.Month() == d.Month() && other.Day() < d.Day()) {
		years--
	}
	return years
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	*d = parsed
	return nil
}

func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = DateOf(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// User is the persisted user account.
type User struct {
	ID              int64
	Username        string
	Gender          Gender
	BirthDate       Date
	AccountCreation time.Time
}

// OptionalDate is a Date that may be absent from a JSON document.
// A missing field, null and "" all decode as absent.
type OptionalDate struct {
	Date  Date
	Valid bool
}

func (o *OptionalDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		*o = OptionalDate{}
		return nil
	}
	var d Date
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*o = OptionalDate{Date: d, Valid: true}
	return nil
}

// Ptr returns the date, or nil when it is absent.
func (o OptionalDate) Ptr() *Date {
	if !o.Valid {
		return nil
	}
	d := o.Date
	return &d
}
