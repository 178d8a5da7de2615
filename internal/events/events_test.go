package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()

	require.NoError(t, r.PublishJSON(ctx, KeyResourceCreated, map[string]string{"name": "villa_7"}))
	require.NoError(t, r.PublishJSON(ctx, KeyBookingCreated, map[string]int{"day": 1}))

	assert.Equal(t, []string{KeyResourceCreated, KeyBookingCreated}, r.Keys())

	var body map[string]string
	require.NoError(t, json.Unmarshal(r.Messages()[0].Body, &body))
	assert.Equal(t, "villa_7", body["name"])

	assert.Error(t, r.PublishJSON(ctx, "bad", func() {}))
	assert.Len(t, r.Messages(), 2)
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.PublishJSON(context.Background(), KeyBookingCreated, struct{}{}))
	assert.NoError(t, p.Close())
}
