package sched

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakyStore struct {
	fail  atomic.Bool
	calls atomic.Int32
}

func (s *flakyStore) Ping(ctx context.Context) error {
	s.calls.Add(1)
	if s.fail.Load() {
		return errors.New("server selection timeout")
	}
	return nil
}

func TestStoreProbe_LogsTransitionsOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	store := &flakyStore{}
	p := NewStoreProbe(time.Second, store, &logger)

	store.fail.Store(true)
	assert.False(t, p.check(context.Background()))
	assert.False(t, p.check(context.Background()))
	store.fail.Store(false)
	assert.True(t, p.check(context.Background()))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "document store unreachable"))
	assert.Equal(t, 1, strings.Count(out, "document store reachable again"))
	assert.Equal(t, int32(3), store.calls.Load())
}

func TestStoreProbe_RunStopsWithContext(t *testing.T) {
	store := &flakyStore{}
	p := NewStoreProbe(10*time.Millisecond, store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return store.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not stop")
	}
}
