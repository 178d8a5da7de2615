package amount

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	a, err := Parse("1000")
	require.NoError(t, err)
	assert.Equal(t, "1000", a.String())

	big, err := Parse("340282366920938463463374607431768211456") // 2^128
	require.NoError(t, err)
	assert.Equal(t, "340282366920938463463374607431768211456", big.String())

	for _, bad := range []string{"", "-1", "1.5", "1e3", "+4", "abc"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestParseDigitLimit(t *testing.T) {
	_, err := Parse(strings.Repeat("9", MaxDigits))
	assert.NoError(t, err)

	_, err = Parse("1" + strings.Repeat("0", MaxDigits))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var a Amount
	err = json.Unmarshal([]byte(`"`+strings.Repeat("1", MaxDigits+1)+`"`), &a)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestCompareAndSum(t *testing.T) {
	small := FromUint64(999)
	price := FromUint64(1000)

	assert.True(t, small.Less(price))
	assert.False(t, price.Less(price))
	assert.Equal(t, 0, price.Cmp(FromUint64(1000)))
	assert.Equal(t, 1, price.Cmp(small))

	assert.Equal(t, "1999", small.Add(price).String())
	assert.Equal(t, "0", Sum().String())
	assert.Equal(t, "3000", Sum(price, price, price).String())
	assert.Equal(t, "10000000000000000000000000", NEAR.Mul(10).String())
}

func TestZeroValue(t *testing.T) {
	var a Amount
	assert.True(t, a.IsZero())
	assert.Equal(t, "0", a.String())
	assert.True(t, a.Less(FromUint64(1)))
}

func TestJSON(t *testing.T) {
	type payload struct {
		Price Amount `json:"price"`
	}

	out, err := json.Marshal(payload{Price: NEAR.Mul(15)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":"15000000000000000000000000"}`, string(out))

	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"price":"42"}`), &p))
	assert.Equal(t, "42", p.Price.String())

	require.NoError(t, json.Unmarshal([]byte(`{"price":1000}`), &p))
	assert.Equal(t, "1000", p.Price.String())

	assert.Error(t, json.Unmarshal([]byte(`{"price":"-3"}`), &p))
}

func TestU64AcceptsNumbersAndStrings(t *testing.T) {
	var v struct {
		Gas   U64  `json:"gas"`
		Rooms *U64 `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"gas": "300000000000000", "rooms": 3}`), &v))
	assert.Equal(t, U64(300000000000000), v.Gas)
	require.NotNil(t, v.Rooms)
	assert.Equal(t, uint64(3), *v.Rooms.Uint64Ptr())

	require.NoError(t, json.Unmarshal([]byte(`{"gas": 18446744073709551615}`), &v))
	assert.Equal(t, U64(18446744073709551615), v.Gas)

	var absent struct {
		Rooms *U64 `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.Nil(t, absent.Rooms.Uint64Ptr())

	for _, bad := range []string{`"-1"`, `"1.5"`, `-3`, `"18446744073709551616"`, `""`, `true`} {
		var u U64
		assert.ErrorIs(t, json.Unmarshal([]byte(bad), &u), ErrInvalidU64, "input %s", bad)
	}
}
