// Package amount holds the unsigned quantities attached to calls: arbitrary-precision
// payments and 64-bit counters such as gas.
package amount

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strings"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var ErrInvalidAmount = apperror.New(http.StatusBadRequest, "amount must be a non-negative integer")

// MaxDigits is the longest decimal amount accepted; Postgres NUMERIC stores no more.
const MaxDigits = 131072

// NEAR is one whole token expressed in yocto units.
var NEAR = MustParse("1000000000000000000000000")

// Amount is an immutable unsigned integer of any size. The zero value is 0.
type Amount struct {
	v *big.Int
}

func FromUint64(n uint64) Amount {
	return Amount{v: new(big.Int).SetUint64(n)}
}

// Parse reads a base-10 string of at most MaxDigits digits. Signs, fractions and
// exponents are rejected.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > MaxDigits {
		return Amount{}, ErrInvalidAmount
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return Amount{}, ErrInvalidAmount
		}
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{v: v}, nil
}

func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic("amount: invalid literal " + s)
	}
	return a
}

func (a Amount) int() *big.Int {
	if a.v == nil {
		return new(big.Int)
	}
	return a.v
}

// Cmp returns -1, 0 or +1.
func (a Amount) Cmp(b Amount) int {
	return a.int().Cmp(b.int())
}

func (a Amount) Less(b Amount) bool {
	return a.Cmp(b) < 0
}

func (a Amount) IsZero() bool {
	return a.int().Sign() == 0
}

func (a Amount) Add(b Amount) Amount {
	return Amount{v: new(big.Int).Add(a.int(), b.int())}
}

// Mul scales a by n, e.g. amount.NEAR.Mul(10).
func (a Amount) Mul(n uint64) Amount {
	return Amount{v: new(big.Int).Mul(a.int(), new(big.Int).SetUint64(n))}
}

// Sum adds all amounts; an empty list sums to zero.
func Sum(amounts ...Amount) Amount {
	total := new(big.Int)
	for _, a := range amounts {
		total.Add(total, a.int())
	}
	return Amount{v: total}
}

func (a Amount) String() string {
	return a.int().String()
}

// MarshalJSON encodes the amount as a decimal string so values beyond 2^53 survive JS clients.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a decimal string or a bare JSON integer.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidAmount
		}
	} else {
		s = string(data)
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
