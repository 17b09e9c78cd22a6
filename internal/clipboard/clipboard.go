// Package clipboard wraps the system clipboard for the yank/kill-ring
// commands of spec.md §4.4, dispatched through the scheduler as a
// KindClipboard job so a slow or unavailable clipboard backend never
// blocks the main loop.
package clipboard

import (
	"context"

	"github.com/atotto/clipboard"
	"github.com/pkg/errors"

	"github.com/zee-editor/zee/internal/scheduler"
)

// Copy schedules writing text to the system clipboard. The result posted
// to sched.Results carries no value on success.
func Copy(sched *scheduler.Scheduler, text string) {
	sched.Submit(scheduler.Key{Kind: scheduler.KindClipboard, ID: "write"}, func(ctx context.Context) (any, error) {
		if err := clipboard.WriteAll(text); err != nil {
			return nil, errors.Wrap(err, "clipboard: write")
		}
		return nil, nil
	})
}

// Paste schedules reading the system clipboard; the result's Value is a
// string on success.
func Paste(sched *scheduler.Scheduler) {
	sched.Submit(scheduler.Key{Kind: scheduler.KindClipboard, ID: "read"}, func(ctx context.Context) (any, error) {
		text, err := clipboard.ReadAll()
		if err != nil {
			return nil, errors.Wrap(err, "clipboard: read")
		}
		return text, nil
	})
}
