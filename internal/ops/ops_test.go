package ops

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/booking"
	"github.com/nekogravitycat/stay-booking-backend/internal/calendar"
	"github.com/nekogravitycat/stay-booking-backend/internal/logging"
	"github.com/nekogravitycat/stay-booking-backend/internal/metrics"
	"github.com/nekogravitycat/stay-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/stay-booking-backend/internal/registry"
)

func newDispatcher(t *testing.T) *Dispatcher {
	t.Helper()
	m := metrics.New(prometheus.NewRegistry())
	reg, err := registry.New(context.Background(), registry.NewMemoryRepository(), "brian.near", registry.Config{
		Address:     "stays.testnet",
		CreationFee: amount.FromUint64(10),
		Metrics:     m,
		Logger:      logging.Discard(),
	})
	require.NoError(t, err)
	bookings := booking.NewService(reg, booking.NewMemoryRepository(), calendar.Default, booking.Deps{Metrics: m, Logger: logging.Discard()})
	return NewDispatcher(reg, bookings, logging.Discard())
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name   string
		method Method
		args   string
		want   Request
	}{
		{"Check name", MethodCheckNameAvailable, `{"name":"villa_7"}`, CheckNameAvailable{Name: "villa_7"}},
		{"List without args", MethodListResources, ``, ListResources{}},
		{"Owner with null args", MethodGetOwner, `null`, GetOwner{}},
		{"Book", MethodBook, `{"resource":"villa_7","date":{"day":1,"month":1,"year":2022}}`, Book{Resource: "villa_7", Date: calendar.New(1, 1, 2022)}},
		{"Info", MethodInfo, `{"resource":"villa_7"}`, Info{Resource: "villa_7"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := Decode(tt.method, json.RawMessage(tt.args))
			require.NoError(t, err)
			assert.Equal(t, tt.want, req)
			assert.Equal(t, tt.method, req.Method())
		})
	}
}

func TestDecodeCreateResource(t *testing.T) {
	req, err := Decode(MethodCreateResource, json.RawMessage(
		`{"name":"villa_7","price":"1000","rooms":"300","location":"-1.2,36.9","features":["Wifi"],"image":null}`))
	require.NoError(t, err)

	create, ok := req.(CreateResource)
	require.True(t, ok)
	assert.Equal(t, "villa_7", create.Name)
	assert.Equal(t, "1000", create.Price.String())
	require.NotNil(t, create.Rooms)
	assert.Equal(t, uint64(300), *create.toRegistry().Rooms)
	assert.Nil(t, create.Image)

	_, err = Decode(MethodCreateResource, json.RawMessage(`{"name":"villa_7","rooms":"many"}`))
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestEnvelopeGasAsStringOrNumber(t *testing.T) {
	for _, body := range []string{
		`{"method":"getOwner","gas":"300000000000000","deposit":"10"}`,
		`{"method":"getOwner","gas":300000000000000,"deposit":10}`,
	} {
		var env Envelope
		require.NoError(t, json.Unmarshal([]byte(body), &env), body)
		call := env.Call()
		assert.Equal(t, uint64(300000000000000), call.Gas, body)
		assert.Equal(t, "10", call.Deposit.String(), body)
	}

	var env Envelope
	assert.Error(t, json.Unmarshal([]byte(`{"method":"getOwner","gas":"-1"}`), &env))
}

func TestDecodeRejects(t *testing.T) {
	_, err := Decode("deleteEverything", nil)
	assert.ErrorIs(t, err, ErrUnknownMethod)

	_, err = Decode(MethodBook, json.RawMessage(`{"resource":"villa_7","when":"today"}`))
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))

	_, err = Decode(MethodCheckNameAvailable, json.RawMessage(`["villa_7"]`))
	assert.Equal(t, http.StatusBadRequest, apperror.StatusOf(err))
}

func TestExecuteVilla7Scenario(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher(t)
	bob := Session{Caller: "bob.near"}
	alice := Session{Caller: "alice.near"}
	fee := Call{Gas: 300_000_000_000_000, Deposit: amount.FromUint64(10)}
	pay := func(n uint64) Call { return Call{Gas: 300_000_000_000_000, Deposit: amount.FromUint64(n)} }
	newYear := calendar.New(1, 1, 2022)

	resp, err := d.Execute(ctx, bob, fee, CreateResource{
		Name: "villa_7", Price: amount.FromUint64(1000), Location: "-1.227807,36.989969",
	})
	require.NoError(t, err)
	assert.Equal(t, AddressResponse{Address: "villa_7.stays.testnet"}, resp)

	resp, err = d.Execute(ctx, alice, Call{}, CheckNameAvailable{Name: "villa_7"})
	require.NoError(t, err)
	assert.Equal(t, BoolResponse{Value: false}, resp)

	_, err = d.Execute(ctx, alice, pay(999), Book{Resource: "villa_7", Date: newYear})
	assert.ErrorIs(t, err, booking.ErrInsufficientPayment)

	resp, err = d.Execute(ctx, alice, pay(1000), Book{Resource: "villa_7", Date: newYear})
	require.NoError(t, err)
	assert.Equal(t, BoolResponse{Value: true}, resp)

	resp, err = d.Execute(ctx, alice, Call{}, IsAvailable{Resource: "villa_7", Date: newYear})
	require.NoError(t, err)
	assert.Equal(t, BoolResponse{Value: false}, resp)

	_, err = d.Execute(ctx, bob, pay(1000), Book{Resource: "villa_7", Date: newYear})
	assert.ErrorIs(t, err, booking.ErrDateAlreadyBooked)

	resp, err = d.Execute(ctx, bob, Call{}, Verify{Resource: "villa_7", Date: newYear})
	require.NoError(t, err)
	assert.Equal(t, BoolResponse{Value: true}, resp)

	resp, err = d.Execute(ctx, bob, Call{}, Verify{Resource: "villa_7", Date: calendar.New(4, 2, 2022)})
	require.NoError(t, err)
	assert.Equal(t, BoolResponse{Value: false}, resp)

	resp, err = d.Execute(ctx, alice, Call{}, Info{Resource: "villa_7"})
	require.NoError(t, err)
	info, ok := resp.(InfoResponse)
	require.True(t, ok)
	assert.Equal(t, "villa_7", info.Name)
	assert.Equal(t, int64(1), info.Bookings)

	resp, err = d.Execute(ctx, alice, Call{}, ListResources{})
	require.NoError(t, err)
	assert.Equal(t, ResourcesResponse{Resources: []registry.Handle{{Name: "villa_7", Address: "villa_7.stays.testnet"}}}, resp)

	resp, err = d.Execute(ctx, alice, Call{}, GetOwner{})
	require.NoError(t, err)
	assert.Equal(t, OwnerResponse{Owner: "brian.near"}, resp)
}

func TestExecuteErrors(t *testing.T) {
	ctx := context.Background()
	d := newDispatcher(t)

	_, err := d.Execute(ctx, Session{}, Call{Deposit: amount.FromUint64(10)}, CreateResource{
		Name: "villa_7", Price: amount.FromUint64(1), Location: "0,0",
	})
	assert.ErrorIs(t, err, registry.ErrUnauthorized)

	_, err = d.Execute(ctx, Session{Caller: "bob.near"}, Call{Deposit: amount.FromUint64(9)}, CreateResource{
		Name: "villa_7", Price: amount.FromUint64(1), Location: "0,0",
	})
	assert.ErrorIs(t, err, registry.ErrInsufficientPayment)

	_, err = d.Execute(ctx, Session{Caller: "bob.near"}, Call{}, IsAvailable{Resource: "nowhere", Date: calendar.New(1, 1, 2022)})
	assert.ErrorIs(t, err, registry.ErrResourceNotFound)
}
