package workers

import (
	"context"
	"time"

	"github.com/bmarchant/imperium/pkg/notify"
	"github.com/bmarchant/imperium/pkg/queue"
	"github.com/sirupsen/logrus"
)

// NotifyWorker drains the engine's turn-notification queue and hands
// each entry to the notifier. Delivery is best-effort: a failed send
// is logged and dropped, never retried, and never blocks a commit.
type NotifyWorker struct {
	notifications queue.Queue
	notifier      notify.Notifier
	interval      time.Duration
}

// NewNotifyWorkerOptions contains options for creating a new
// NotifyWorker.
type NewNotifyWorkerOptions struct {
	Notifications queue.Queue
	Notifier      notify.Notifier
	Interval      time.Duration
}

// NewNotifyWorker creates a new NotifyWorker.
func NewNotifyWorker(opts NewNotifyWorkerOptions) *NotifyWorker {
	return &NotifyWorker{
		notifications: opts.Notifications,
		notifier:      opts.Notifier,
		interval:      opts.Interval,
	}
}

// Start runs the worker until the context is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.flush()
		}
	}
}

func (w *NotifyWorker) flush() {
	for _, item := range w.notifications.ReadAllMessages() {
		n, ok := item.(notify.TurnNotification)
		if !ok {
			logrus.Errorf("unexpected item in notification queue: %T", item)
			continue
		}
		if err := w.notifier.Notify(n); err != nil {
			logrus.Errorf("failed to notify %s: %v", n.Name, err)
		}
	}
}
