package bg

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeClient struct {
	err error
}

func (f fakeClient) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

func TestConnect(t *testing.T) {
	stop, err := Connect(context.Background(), fakeClient{})
	assert.NoError(t, err)
	assert.NoError(t, stop())
}

func TestConnectError(t *testing.T) {
	errDial := errors.New("dial error")
	stop, err := Connect(context.Background(), fakeClient{err: errDial})
	assert.ErrorIs(t, err, errDial)
	assert.NoError(t, stop())
}

func TestConnectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	blocking := blockingClient{}
	stop, err := Connect(ctx, blocking)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, stop())
}

type blockingClient struct{}

func (blockingClient) Run(ctx context.Context, _ func(ctx context.Context) error) error {
	<-ctx.Done()
	return ctx.Err()
}
