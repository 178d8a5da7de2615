package calendar

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextDay(t *testing.T) {
	tests := []struct {
		name string
		in   Date
		want Date
	}{
		{"February end in common year", New(28, 2, 2023), New(1, 3, 2023)},
		{"February 28 in leap year", New(28, 2, 2024), New(29, 2, 2024)},
		{"February 29 in leap year", New(29, 2, 2024), New(1, 3, 2024)},
		{"Year end", New(31, 12, 2022), New(1, 1, 2023)},
		{"30-day month end", New(30, 4, 2022), New(1, 5, 2022)},
		{"31-day month end", New(31, 1, 2022), New(1, 2, 2022)},
		{"Mid month", New(14, 7, 2022), New(15, 7, 2022)},
		{"November 30", New(30, 11, 2022), New(1, 12, 2022)},
		{"Century common year", New(28, 2, 1900), New(1, 3, 1900)},
		{"Quadricentennial leap year", New(28, 2, 2000), New(29, 2, 2000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextDay(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "NextDay(%v) = %v, want %v", tt.in, got, tt.want)
		})
	}
}

func TestNextDayWalksWholeYear(t *testing.T) {
	for _, year := range []int{2022, 2024} {
		d := New(1, 1, year)
		days := 1
		for {
			next, err := NextDay(d)
			require.NoError(t, err)
			if next.Year != year {
				assert.Equal(t, New(1, 1, year+1), next)
				break
			}
			d = next
			days++
		}
		want := 365
		if IsLeapYear(year) {
			want = 366
		}
		assert.Equal(t, want, days, "year %d", year)
	}
}

func TestNextDayRejectsInvalidInput(t *testing.T) {
	_, err := NextDay(New(30, 2, 2022))
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestNextDayAtLastRepresentableYear(t *testing.T) {
	next, err := NextDay(New(30, 12, MaxYear))
	require.NoError(t, err)
	assert.Equal(t, New(31, 12, MaxYear), next)

	_, err = NextDay(New(31, 12, MaxYear))
	assert.ErrorIs(t, err, ErrInvalidDate)

	assert.ErrorIs(t, Validate(New(1, 1, MaxYear+1)), ErrInvalidDate)
	assert.ErrorIs(t, Validate(New(1, 1, math.MaxInt)), ErrInvalidDate)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Date
		wantErr bool
	}{
		{"Ordinary date", New(1, 1, 2022), false},
		{"Leap day", New(29, 2, 2024), false},
		{"Leap day in common year", New(29, 2, 2023), true},
		{"Day zero", New(0, 1, 2022), true},
		{"Month zero", New(1, 0, 2022), true},
		{"Month thirteen", New(1, 13, 2022), true},
		{"April 31", New(31, 4, 2022), true},
		{"Year zero", New(1, 1, 0), true},
		{"Negative year", New(1, 1, -5), true},
		{"Day 32", New(32, 1, 2022), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDate)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(1, 2022))
	assert.Equal(t, 28, DaysInMonth(2, 2022))
	assert.Equal(t, 29, DaysInMonth(2, 2024))
	assert.Equal(t, 30, DaysInMonth(9, 2022))
	assert.Equal(t, 31, DaysInMonth(12, 2022))
	assert.Equal(t, 0, DaysInMonth(13, 2022))
}

func TestLeapRules(t *testing.T) {
	assert.True(t, Gregorian(2024))
	assert.True(t, Gregorian(2000))
	assert.False(t, Gregorian(1900))
	assert.False(t, Gregorian(2023))

	assert.True(t, Legacy(1900))
	assert.True(t, Legacy(2024))
	assert.False(t, Legacy(2023))

	legacy := NewCalendar(Legacy)
	assert.NoError(t, legacy.Validate(New(29, 2, 2100)))
	assert.ErrorIs(t, Default.Validate(New(29, 2, 2100)), ErrInvalidDate)

	next, err := legacy.NextDay(New(28, 2, 1900))
	require.NoError(t, err)
	assert.Equal(t, New(29, 2, 1900), next)
}

func TestParseLeapRule(t *testing.T) {
	rule, err := ParseLeapRule("legacy")
	require.NoError(t, err)
	assert.True(t, rule(1900))

	rule, err = ParseLeapRule("")
	require.NoError(t, err)
	assert.False(t, rule(1900))

	_, err = ParseLeapRule("julian")
	assert.ErrorIs(t, err, ErrUnknownLeapRule)
}

func TestParse(t *testing.T) {
	d, err := Parse("2022-01-04")
	require.NoError(t, err)
	assert.Equal(t, New(4, 1, 2022), d)
	assert.Equal(t, "2022-01-04", d.String())

	// Shape only: range checks belong to Validate.
	d, err = Parse("2023-02-30")
	require.NoError(t, err)
	assert.ErrorIs(t, Validate(d), ErrInvalidDate)

	_, err = Parse("04/01/2022")
	assert.ErrorIs(t, err, ErrInvalidDate)
	_, err = Parse("2022-xx-01")
	assert.Error(t, err)
}

func TestBeforeAndEqual(t *testing.T) {
	assert.True(t, New(31, 12, 2021).Before(New(1, 1, 2022)))
	assert.True(t, New(1, 1, 2022).Before(New(1, 2, 2022)))
	assert.False(t, New(2, 1, 2022).Before(New(1, 1, 2022)))
	assert.True(t, New(1, 1, 2022).Equal(New(1, 1, 2022)))
	assert.False(t, New(1, 1, 2022).Equal(New(2, 1, 2022)))
}
