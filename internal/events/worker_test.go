package events

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerDrainsInbox(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	channel := NewChannel(8, logger)
	sink := NewMemory()
	worker := NewWorker(sink, channel.Inbox(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = worker.Run(ctx)
		close(done)
	}()

	require.NoError(t, channel.Publish(ctx, Event{ID: "1", Type: TypeLeaseRegistered}))
	require.NoError(t, channel.Publish(ctx, Event{ID: "2", Type: TypeLeaseRenewed}))

	assert.Eventually(t, func() bool {
		return len(sink.Events()) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestChannelDropsWhenFull(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	channel := NewChannel(1, logger)
	ctx := context.Background()

	require.NoError(t, channel.Publish(ctx, Event{ID: "kept"}))
	// No worker is draining; the second publish must not block.
	require.NoError(t, channel.Publish(ctx, Event{ID: "dropped"}))

	assert.Len(t, channel.inbox, 1)
}

func TestStampFillsGeneratedFields(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	stamped := Stamp(Event{Type: TypeFeeUpdated, Amount: 100}, now)
	assert.NotEmpty(t, stamped.ID)
	assert.Equal(t, now, stamped.Timestamp)

	// Caller-provided fields survive.
	again := Stamp(stamped, now.Add(time.Hour))
	assert.Equal(t, stamped.ID, again.ID)
	assert.Equal(t, now, again.Timestamp)
}
