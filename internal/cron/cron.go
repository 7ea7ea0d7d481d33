// Package cron runs the daily maintenance pass: expiring jobs past their
// deadline and mailing the admin digest of new applications. Both tasks are
// fire-and-continue; a failed run is logged and retried next tick.
package cron

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hiringdesk/applicant-tracker/internal/db"
)

// Store is the slice of the persistence layer the maintenance pass needs.
type Store interface {
	ExpireJobs(ctx context.Context, now time.Time) (int64, error)
	ListApplications(ctx context.Context, filter db.ApplicationFilter) ([]db.Application, error)
}

// DigestSender delivers the admin digest mail.
type DigestSender interface {
	SendAdmin(ctx context.Context, subject, body string) bool
}

// Runner fires the maintenance pass once per interval.
type Runner struct {
	store    Store
	sender   DigestSender
	interval time.Duration
	log      *zap.Logger
}

// NewRunner creates a maintenance runner. interval defaults to 24h.
func NewRunner(store Store, sender DigestSender, interval time.Duration, log *zap.Logger) *Runner {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{store: store, sender: sender, interval: interval, log: log}
}

// Start runs the maintenance loop until ctx is cancelled.
func (r *Runner) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.RunOnce(ctx)
		}
	}
}

// RunOnce executes one maintenance pass. The two tasks are independent; one
// failing does not stop the other.
func (r *Runner) RunOnce(ctx context.Context) {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		expired, err := r.store.ExpireJobs(gctx, time.Now())
		if err != nil {
			r.log.Warn("job expiry pass failed", zap.Error(err))
			return nil
		}
		if expired > 0 {
			r.log.Info("jobs expired", zap.Int64("count", expired))
		}
		return nil
	})

	g.Go(func() error {
		r.sendDigest(gctx)
		return nil
	})

	_ = g.Wait()
}

// sendDigest mails the admin a summary of applications received since the
// last interval. No applications means no mail.
func (r *Runner) sendDigest(ctx context.Context) {
	since := time.Now().Add(-r.interval)
	apps, err := r.store.ListApplications(ctx, db.ApplicationFilter{CreatedAfter: &since})
	if err != nil {
		r.log.Warn("digest query failed", zap.Error(err))
		return
	}
	if len(apps) == 0 {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d new application(s) since %s:\n\n", len(apps), since.Format(time.RFC1123))
	for _, a := range apps {
		fmt.Fprintf(&sb, "  #%d  %s <%s>  for %s  [%s]\n",
			a.ID, a.Name, a.Email, a.JobTitle, a.Status)
	}

	subject := fmt.Sprintf("Application digest: %d new", len(apps))
	if ok := r.sender.SendAdmin(ctx, subject, sb.String()); !ok {
		r.log.Warn("digest mail not sent")
	}
}
