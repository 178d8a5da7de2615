package registry

import (
	"bytes"
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/stay-booking-backend/internal/amount"
	"github.com/nekogravitycat/stay-booking-backend/internal/events"
	"github.com/nekogravitycat/stay-booking-backend/internal/logging"
	"github.com/nekogravitycat/stay-booking-backend/internal/metrics"
)

const (
	testRegistry = "stays.testnet"
	testOwner    = "brian.near"
	testCaller   = "bob.near"
)

type fixture struct {
	svc      Service
	repo     Repository
	recorder *events.Recorder
	metrics  *metrics.Metrics
}

func newFixture(t *testing.T, policy CreationPolicy) fixture {
	t.Helper()
	repo := NewMemoryRepository()
	rec := events.NewRecorder()
	m := metrics.New(prometheus.NewRegistry())
	svc, err := New(context.Background(), repo, testOwner, Config{
		Address:     testRegistry,
		CreationFee: DefaultCreationFee,
		Policy:      policy,
		Publisher:   rec,
		Metrics:     m,
		Logger:      logging.Discard(),
	})
	require.NoError(t, err)
	return fixture{svc: svc, repo: repo, recorder: rec, metrics: m}
}

func villa(name string) CreateRequest {
	image := "https://example.com/villa.jpg"
	return CreateRequest{
		Name:     name,
		Price:    amount.FromUint64(1000),
		Location: "-1.227807,36.989969",
		Features: []string{"Wifi", " 2 Swimming pools ", ""},
		Image:    &image,
	}
}

func TestCreateResource(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	available, err := f.svc.CheckNameAvailable(ctx, "villa_7")
	require.NoError(t, err)
	assert.True(t, available)

	h, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa("villa_7"))
	require.NoError(t, err)
	assert.Equal(t, "villa_7", h.Name)
	assert.Equal(t, "villa_7.stays.testnet", h.Address)

	available, err = f.svc.CheckNameAvailable(ctx, "villa_7")
	require.NoError(t, err)
	assert.False(t, available)

	rec, err := f.svc.Get(ctx, "villa_7")
	require.NoError(t, err)
	assert.Equal(t, testCaller, rec.Owner)
	assert.Equal(t, "1000", rec.Price.String())
	assert.Equal(t, []string{"Wifi", "2 Swimming pools"}, rec.Features)
	require.NotNil(t, rec.Image)
	assert.Equal(t, DefaultCreationFee.String(), rec.Deposit.String())

	assert.Equal(t, []string{events.KeyResourceCreated}, f.recorder.Keys())
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ResourcesCreated))
}

func TestCreateFlatKeepsRoomCount(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	rooms := uint64(300)
	req := villa("borwe_towers")
	req.Rooms = &rooms
	_, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, req)
	require.NoError(t, err)
	rooms = 1

	rec, err := f.svc.Get(ctx, "borwe_towers")
	require.NoError(t, err)
	require.NotNil(t, rec.Rooms)
	assert.Equal(t, uint64(300), *rec.Rooms)

	house, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa("villa_7"))
	require.NoError(t, err)
	rec, err = f.svc.Get(ctx, house.Name)
	require.NoError(t, err)
	assert.Nil(t, rec.Rooms)
}

func TestCreateResourceNameIsNeverReassigned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	_, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa("villa_7"))
	require.NoError(t, err)

	_, err = f.svc.CreateResource(ctx, "carol.near", DefaultCreationFee, villa("villa_7"))
	assert.ErrorIs(t, err, ErrNameUnavailable)

	rec, err := f.svc.Get(ctx, "villa_7")
	require.NoError(t, err)
	assert.Equal(t, testCaller, rec.Owner, "original owner is kept")

	list, err := f.svc.ListResources(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateResourceRejectionsLeaveRegistryUnchanged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	noPrice := villa("free_house")
	noPrice.Price = amount.Amount{}
	badLocation := villa("lost_house")
	badLocation.Location = "1.000,1.000,1.000"
	notFloat := villa("lost_house")
	notFloat.Location = "north,south"
	var zero, tooMany uint64 = 0, math.MaxInt64 + 1
	noRooms := villa("empty_flat")
	noRooms.Rooms = &zero
	hugeFlat := villa("huge_flat")
	hugeFlat.Rooms = &tooMany

	tests := []struct {
		name    string
		caller  string
		deposit amount.Amount
		req     CreateRequest
		wantErr error
	}{
		{"Anonymous caller", "", DefaultCreationFee, villa("villa_8"), ErrUnauthorized},
		{"Name with dot", testCaller, DefaultCreationFee, villa("villa.8"), ErrInvalidName},
		{"Empty name", testCaller, DefaultCreationFee, villa(""), ErrInvalidName},
		{"Name with surrounding space", testCaller, DefaultCreationFee, villa(" villa_8"), ErrInvalidName},
		{"Zero price", testCaller, DefaultCreationFee, noPrice, ErrInvalidPrice},
		{"Three coordinates", testCaller, DefaultCreationFee, badLocation, ErrInvalidLocation},
		{"Non numeric coordinates", testCaller, DefaultCreationFee, notFloat, ErrInvalidLocation},
		{"Flat without rooms", testCaller, DefaultCreationFee, noRooms, ErrInvalidRooms},
		{"Rooms beyond storage range", testCaller, DefaultCreationFee, hugeFlat, ErrInvalidRooms},
		{"Deposit below fee", testCaller, amount.NEAR.Mul(9), villa("villa_8"), ErrInsufficientPayment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateResource(ctx, tt.caller, tt.deposit, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	list, err := f.svc.ListResources(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, f.recorder.Messages())
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.ResourcesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CreateRejected.WithLabelValues("insufficient_payment")))

	available, err := f.svc.CheckNameAvailable(ctx, "villa_8")
	require.NoError(t, err)
	assert.True(t, available)
}

func TestOwnerOnlyPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OwnerOnlyPolicy{})

	_, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa("villa_7"))
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.CreateResource(ctx, testOwner, DefaultCreationFee, villa("villa_7"))
	assert.NoError(t, err)
}

func TestConcurrentCreateHasSingleWinner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	const racers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa("villa_7"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrNameUnavailable):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, racers-1, conflicts)
}

func TestListResourcesKeepsRegistrationOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	for _, name := range []string{"villa_7", "borwe_towers", "alpha"} {
		_, err := f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa(name))
		require.NoError(t, err)
	}

	list, err := f.svc.ListResources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Handle{
		{Name: "villa_7", Address: "villa_7.stays.testnet"},
		{Name: "borwe_towers", Address: "borwe_towers.stays.testnet"},
		{Name: "alpha", Address: "alpha.stays.testnet"},
	}, list)
}

func TestGetOwnerAndSingleConstruction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	owner, err := f.svc.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	cfg := Config{Address: testRegistry, Metrics: metrics.New(prometheus.NewRegistry())}
	_, err = New(ctx, f.repo, "mallory.near", cfg)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)

	// Bootstrap attaches to the stored registry and keeps its owner, even without a logger.
	svc, err := Bootstrap(ctx, f.repo, "mallory.near", cfg)
	require.NoError(t, err)
	owner, err = svc.GetOwner(ctx)
	require.NoError(t, err)
	assert.Equal(t, testOwner, owner)

	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn", "text")
	require.NoError(t, err)
	cfg.Logger = logger
	_, err = Bootstrap(ctx, f.repo, "mallory.near", cfg)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "configured registry owner ignored")
	assert.Contains(t, buf.String(), "configured_owner=mallory.near")
}

func TestCheckNameAvailablePredictsCreation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, OpenPolicy{})

	for _, name := range []string{"villa_7", " villa_7", "villa_7 ", "Villa_7", "villa.7", ""} {
		available, err := f.svc.CheckNameAvailable(ctx, name)
		require.NoError(t, err)

		_, err = f.svc.CreateResource(ctx, testCaller, DefaultCreationFee, villa(name))
		assert.Equal(t, available, err == nil, "name %q: available=%v create err=%v", name, available, err)
	}

	list, err := f.svc.ListResources(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Handle{{Name: "villa_7", Address: "villa_7.stays.testnet"}}, list)
}

func TestBootstrapCreatesOnFirstStart(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	cfg := Config{Address: testRegistry, Metrics: metrics.New(prometheus.NewRegistry())}

	_, err := Open(ctx, repo, cfg)
	assert.ErrorIs(t, err, ErrNotInitialized)

	svc, err := Bootstrap(ctx, repo, testOwner, cfg)
	require.NoError(t, err)
	assert.Equal(t, testRegistry, svc.Address())

	_, err = New(ctx, repo, "not an id", Config{Address: "other.testnet", Metrics: cfg.Metrics})
	assert.ErrorIs(t, err, ErrInvalidOwner)
	_, err = New(ctx, repo, testOwner, Config{Address: "Bad Address", Metrics: cfg.Metrics})
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestGetUnknownResource(t *testing.T) {
	f := newFixture(t, OpenPolicy{})
	_, err := f.svc.Get(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrResourceNotFound)
}
