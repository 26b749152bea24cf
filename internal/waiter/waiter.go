// Package waiter blocks on remote state transitions by re-querying a
// status condition at a fixed interval.
package waiter

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	// execCommand is a variable to allow mocking of exec.CommandContext in tests
	execCommand = exec.CommandContext
)

// errNotReady marks a condition that is not satisfied yet, as opposed
// to a status query that failed.
var errNotReady = errors.New("condition not satisfied yet")

// Condition reports whether the awaited state has been reached. A
// non-nil error aborts the wait immediately; "not yet" is (false, nil).
type Condition func(ctx context.Context) (bool, error)

// Wait describes one blocking wait on a remote state transition.
type Wait struct {
	// Interval is the fixed delay between condition checks.
	Interval time.Duration
	// Waiting describes what is being waited for, e.g. `VM "web" to become ACTIVE`.
	Waiting string
	// Done is the message printed when the condition is satisfied.
	Done string
}

// Until polls cond at a fixed interval until it is satisfied. The wait
// is unbounded unless ctx carries a deadline or is cancelled; callers
// who want a bounded wait wrap ctx with a timeout.
func Until(ctx context.Context, w Wait, cond Condition) error {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Suffix = fmt.Sprintf(" Waiting for %s...", w.Waiting)
	s.Start()
	defer s.Stop()

	err := retry.Do(
		func() error {
			done, err := cond(ctx)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if !done {
				return errNotReady
			}
			return nil
		},
		retry.Context(ctx),
		// Attempts(0) retries until the condition holds.
		retry.Attempts(0),
		retry.Delay(w.Interval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.FinalMSG = color.RedString("✖ Timed out waiting for %s\n", w.Waiting)
			return fmt.Errorf("timed out waiting for %s: %w", w.Waiting, ctxErr)
		}
		s.FinalMSG = color.RedString("✖ Failed waiting for %s\n", w.Waiting)
		return err
	}

	s.FinalMSG = color.GreenString("✔ %s\n", w.Done)
	return nil
}

// Ping sends a single ICMP echo request to ip and reports whether a
// reply came back. It is the liveness probe gating VM creation.
func Ping(ctx context.Context, ip string) bool {
	cmd := execCommand(ctx, "ping", "-c", "1", ip)
	return cmd.Run() == nil
}
