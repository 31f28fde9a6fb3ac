package poll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// DefaultInterval is the pause between two evaluations of a condition
const DefaultInterval = 250 * time.Millisecond

// ErrTimeout is wrapped by errors returned when a condition is not met in time
var ErrTimeout = errors.New("condition not met before timeout")

// Condition reports whether the awaited state has been reached. An error
// stops polling immediately.
type Condition func(ctx context.Context) (bool, error)

// Until evaluates cond right away and then every interval until it returns
// true, fails, or timeout elapses. what describes the condition in the
// timeout error.
func Until(ctx context.Context, what string, interval, timeout time.Duration, cond Condition) error {
	if interval <= 0 {
		interval = DefaultInterval
	}

	err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, wait.ConditionWithContextFunc(cond))
	switch {
	case err == nil:
		return nil
	case ctx.Err() != nil:
		return fmt.Errorf("waiting for %s: %w", what, ctx.Err())
	case wait.Interrupted(err):
		return fmt.Errorf("waiting for %s after %s: %w", what, timeout, ErrTimeout)
	default:
		return fmt.Errorf("waiting for %s: %w", what, err)
	}
}
