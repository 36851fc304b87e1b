package utils

import (
	"context"
	"time"
)

// SleepFunc blocks for d or until ctx is done, whichever comes first. It
// returns ctx.Err() when the wait was cut short.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc backed by a real timer.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
