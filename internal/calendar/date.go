// Package calendar implements the day/month/year values that booking ledgers are keyed by.
package calendar

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidDate     = apperror.New(http.StatusBadRequest, "invalid date")
	ErrUnknownLeapRule = apperror.New(http.StatusBadRequest, "unknown leap year rule")
)

// MaxYear is the largest year a ledger can key; it matches the bookings.year column.
const MaxYear = math.MaxInt32

// monthDays is indexed by month; February holds its common-year length.
var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date is a calendar day without time or zone.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

func New(day, month, year int) Date {
	return Date{Day: day, Month: month, Year: year}
}

// Equal reports structural equality.
func (d Date) Equal(o Date) bool {
	return d.Day == o.Day && d.Month == o.Month && d.Year == o.Year
}

// Before orders dates chronologically. It does not validate either side.
func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

// String renders the date as YYYY-MM-DD.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Parse reads a YYYY-MM-DD string. Only the shape is checked here, so
// "2023-02-30" parses and is later rejected by Validate.
func Parse(s string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return Date{}, ErrInvalidDate
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Date{}, apperror.Wrap(err, http.StatusBadRequest, ErrInvalidDate.Message)
		}
		nums[i] = n
	}
	return New(nums[2], nums[1], nums[0]), nil
}

// LeapRule decides whether a year has a 29th of February.
type LeapRule func(year int) bool

// Gregorian is the full rule: every fourth year, except centuries not divisible by 400.
func Gregorian(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// Legacy treats every year divisible by 4 as a leap year. Kept for ledgers whose dates
// were recorded under that rule (1900 and 2100 get a 29th of February).
func Legacy(year int) bool {
	return year%4 == 0
}

// ParseLeapRule maps a configuration value to a rule.
func ParseLeapRule(name string) (LeapRule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gregorian":
		return Gregorian, nil
	case "legacy":
		return Legacy, nil
	default:
		return nil, ErrUnknownLeapRule
	}
}

// Calendar bundles the date arithmetic with a leap year rule.
type Calendar struct {
	leap LeapRule
}

// NewCalendar returns a calendar using rule; a nil rule means Gregorian.
func NewCalendar(rule LeapRule) Calendar {
	if rule == nil {
		rule = Gregorian
	}
	return Calendar{leap: rule}
}

// Default is the Gregorian calendar.
var Default = NewCalendar(Gregorian)

func (c Calendar) IsLeapYear(year int) bool {
	if c.leap == nil {
		return Gregorian(year)
	}
	return c.leap(year)
}

// DaysInMonth returns the length of month in year, or 0 when month is out of range.
func (c Calendar) DaysInMonth(month, year int) int {
	if month < 1 || month > 12 {
		return 0
	}
	if month == 2 && c.IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// Validate returns ErrInvalidDate unless d names a real day with a year in 1..MaxYear.
func (c Calendar) Validate(d Date) error {
	if d.Year < 1 || d.Year > MaxYear || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return ErrInvalidDate
	}
	if d.Day > c.DaysInMonth(d.Month, d.Year) {
		return ErrInvalidDate
	}
	return nil
}

// NextDay returns the day after d, rolling over month and year ends.
// The last day of MaxYear has no successor.
func (c Calendar) NextDay(d Date) (Date, error) {
	if err := c.Validate(d); err != nil {
		return Date{}, err
	}
	if d.Day < c.DaysInMonth(d.Month, d.Year) {
		return New(d.Day+1, d.Month, d.Year), nil
	}
	if d.Month < 12 {
		return New(1, d.Month+1, d.Year), nil
	}
	if d.Year == MaxYear {
		return Date{}, ErrInvalidDate
	}
	return New(1, 1, d.Year+1), nil
}

func IsLeapYear(year int) bool {
	return Default.IsLeapYear(year)
}

func DaysInMonth(month, year int) int {
	return Default.DaysInMonth(month, year)
}

func Validate(d Date) error {
	return Default.Validate(d)
}

func NextDay(d Date) (Date, error) {
	return Default.NextDay(d)
}
