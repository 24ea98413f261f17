package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestEvery_RejectsNonPositive(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), discard())
	assert.Error(t, s.Every("sweep", 0, func(context.Context) (int, error) { return 0, nil }))
}

func TestEvery_Runs(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), discard())

	ran := make(chan struct{}, 4)
	require.NoError(t, s.Every("sweep", time.Second, func(context.Context) (int, error) {
		select {
		case ran <- struct{}{}:
		default:
		}
		return 1, nil
	}))
	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestWrap_LogsErrors(t *testing.T) {
	t.Parallel()
	s := New(context.Background(), discard())
	called := false
	s.wrap("purge", func(context.Context) (int, error) {
		called = true
		return 0, errors.New("store down")
	})()
	assert.True(t, called)
}
