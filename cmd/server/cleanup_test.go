package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCleanup_ShutsDownHealthServerBeforeClosingStore(t *testing.T) {
	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey("test"), "marker"))
	var callOrder []string

	health := &fakeHealthServer{calls: &callOrder}
	store := &fakeStore{calls: &callOrder}

	cleanup := newCleanup(ctx, time.Second, health, store)

	// The root context is gone by the time cleanup runs.
	cancel()
	cleanup()

	require.Equal(t, []string{"healthShutdown", "storeClose"}, callOrder)
	require.Equal(t, "marker", health.receivedCtx.Value(ctxKey("test")))
	assert.NoError(t, health.ctxErr, "shutdown context outlives the cancelled root context")
	_, hasDeadline := health.receivedCtx.Deadline()
	assert.True(t, hasDeadline)
}

func TestNewCleanup_ClosesStoreWhenShutdownFails(t *testing.T) {
	var callOrder []string
	health := &fakeHealthServer{calls: &callOrder, err: errors.New("stuck")}
	store := &fakeStore{calls: &callOrder}

	newCleanup(context.Background(), time.Second, health, store)()

	require.Equal(t, []string{"healthShutdown", "storeClose"}, callOrder)
}

func TestNewCleanup_NilDependencies(t *testing.T) {
	assert.NotPanics(t, newCleanup(context.Background(), time.Second, nil, nil))
}

type ctxKey string

type fakeHealthServer struct {
	calls       *[]string
	receivedCtx context.Context
	ctxErr      error
	err         error
}

func (f *fakeHealthServer) Shutdown(ctx context.Context) error {
	f.receivedCtx = ctx
	f.ctxErr = ctx.Err()
	*f.calls = append(*f.calls, "healthShutdown")
	return f.err
}

type fakeStore struct {
	calls *[]string
}

func (s *fakeStore) Close() error {
	*s.calls = append(*s.calls, "storeClose")
	return nil
}
