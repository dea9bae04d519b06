package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSpinEvents_FanOut(t *testing.T) {
	events := NewLocalSpinEvents()
	ctx := context.Background()

	a, unsubscribeA, err := events.Subscribe(ctx)
	require.NoError(t, err)
	b, unsubscribeB, err := events.Subscribe(ctx)
	require.NoError(t, err)
	defer unsubscribeB()

	require.NoError(t, events.Publish(ctx, SpinEvent{Type: SpinEventStart, By: "mia", Tier: 50}))

	assert.Equal(t, "mia", receiveEvent(t, a).By)
	assert.Equal(t, "mia", receiveEvent(t, b).By)

	unsubscribeA()
	unsubscribeA()
	_, open := <-a
	assert.False(t, open, "unsubscribe closes the channel")

	require.NoError(t, events.Publish(ctx, SpinEvent{Type: SpinEventResult, Popup: &SpinPopup{Title: "Mug"}}))
	got := receiveEvent(t, b)
	require.NotNil(t, got.Popup)
	assert.Equal(t, "Mug", got.Popup.Title)
}

func TestLocalSpinEvents_SlowSubscriberDoesNotBlock(t *testing.T) {
	events := NewLocalSpinEvents()
	_, unsubscribe, err := events.Subscribe(context.Background())
	require.NoError(t, err)
	defer unsubscribe()

	for i := 0; i < 100; i++ {
		require.NoError(t, events.Publish(context.Background(), SpinEvent{Type: SpinEventStart}))
	}
}

func TestRedisSpinEvents_PublishSubscribe(t *testing.T) {
	f := newWheelFixture(t)
	events := NewRedisSpinEvents(f.redis)
	ctx := context.Background()

	ch, unsubscribe, err := events.Subscribe(ctx)
	require.NoError(t, err)
	defer unsubscribe()

	// malformed payloads are skipped
	require.NoError(t, f.redis.Publish(ctx, spinEventsChannel, "not json"))

	popup := &SpinPopup{By: "nora", Tier: 200, Title: "500 coins", Kind: "prize", CoinDelta: 500}
	require.NoError(t, events.Publish(ctx, SpinEvent{Type: SpinEventResult, Popup: popup}))

	got := receiveEvent(t, ch)
	assert.Equal(t, SpinEventResult, got.Type)
	assert.Equal(t, popup, got.Popup)

	unsubscribe()
	for range ch {
	}
}
