package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// xaddRecorder captures the arguments of XAdd and forwards nothing.
type xaddRecorder struct {
	redis.Cmdable
	args []*redis.XAddArgs
	err  error
}

func (r *xaddRecorder) XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd {
	r.args = append(r.args, a)
	return redis.NewStringResult("1-0", r.err)
}

func TestPublisher_XAddArgs(t *testing.T) {
	tests := []struct {
		name       string
		maxLen     int64
		wantMaxLen int64
		wantApprox bool
	}{
		{name: "capped stream", maxLen: 10000, wantMaxLen: 10000, wantApprox: true},
		{name: "uncapped stream", maxLen: 0, wantMaxLen: 0, wantApprox: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &xaddRecorder{}
			p := NewPublisher(rec, tt.maxLen)

			err := p.Publish(context.Background(), UserEventsStream, UserDeleted, UserDeletedEvent{UserID: 7})
			require.NoError(t, err)

			require.Len(t, rec.args, 1)
			args := rec.args[0]
			require.Equal(t, UserEventsStream, args.Stream)
			require.Equal(t, tt.wantMaxLen, args.MaxLen)
			require.Equal(t, tt.wantApprox, args.Approx)

			values, ok := args.Values.(map[string]any)
			require.True(t, ok)
			require.Equal(t, UserDeleted, values["type"])
		})
	}
}

func TestPublisher_XAddFailure(t *testing.T) {
	rec := &xaddRecorder{err: errors.New("READONLY")}
	p := NewPublisher(rec, 100)

	err := p.Publish(context.Background(), UserEventsStream, UserCreated, UserCreatedEvent{UserID: 1})
	require.ErrorContains(t, err, "failed to publish event")
}

func TestPublisher_AppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	p := NewPublisher(client, 0)
	require.NoError(t, p.Publish(ctx, UserEventsStream, UserCreated, UserCreatedEvent{
		UserID: 1, Username: "BohnJo", Gender: "MALE",
	}))
	require.NoError(t, p.Publish(ctx, UserEventsStream, UserUpdated, UserUpdatedEvent{
		UserID: 1, ChangedFields: []string{"gender"},
	}))

	entries, err := client.XRange(ctx, UserEventsStream, "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, UserCreated, entries[0].Values["type"])
	var created struct {
		Type string           `json:"type"`
		Data UserCreatedEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(entries[0].Values["event"].(string)), &created))
	require.Equal(t, UserCreated, created.Type)
	require.Equal(t, UserCreatedEvent{UserID: 1, Username: "BohnJo", Gender: "MALE"}, created.Data)

	require.Equal(t, UserUpdated, entries[1].Values["type"])
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), UserEventsStream, UserDeleted, nil))
}
