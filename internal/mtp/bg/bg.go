// Package bg runs the telegram client in background.
package bg

import (
	"context"
	"errors"
)

// Client abstracts telegram client.
type Client interface {
	Run(ctx context.Context, f func(ctx context.Context) error) error
}

// StopFunc closes Client and waits until Run returns.
type StopFunc func() error

// Connect calls client.Run in a goroutine and blocks until the client is
// connected, the connection fails, or ctx is cancelled.  The returned
// StopFunc must be called to close the connection.
func Connect(ctx context.Context, client Client) (StopFunc, error) {
	ctx, cancel := context.WithCancel(ctx)

	ready := make(chan struct{})
	errC := make(chan error, 1)
	go func() {
		defer close(errC)
		errC <- client.Run(ctx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		})
	}()

	select {
	case <-ctx.Done():
		cancel()
		return noop, ctx.Err()
	case err := <-errC:
		cancel()
		if err == nil {
			err = errors.New("client exited before connecting")
		}
		return noop, err
	case <-ready:
	}

	return func() error {
		cancel()
		return <-errC
	}, nil
}

func noop() error { return nil }
