package amount

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
)

var ErrInvalidU64 = apperror.New(http.StatusBadRequest, "value must be an unsigned 64-bit integer")

// U64 is a uint64 that also decodes from a decimal string, which is how clients send
// values past 2^53 such as gas budgets ("300000000000000").
type U64 uint64

func (u *U64) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return ErrInvalidU64
		}
		s = strings.TrimSpace(s)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return ErrInvalidU64
	}
	*u = U64(n)
	return nil
}

// Uint64Ptr converts an optional field, keeping nil as nil.
func (u *U64) Uint64Ptr() *uint64 {
	if u == nil {
		return nil
	}
	v := uint64(*u)
	return &v
}
