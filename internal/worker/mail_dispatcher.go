// Package worker runs background jobs outside the request path.
package worker

import (
	"context"
	"sync/atomic"
	"time"

	"talent-marketplace-backend/internal/domain"

	"go.uber.org/zap"
)

// SweepLock serializes sweeps across API instances. *redis.Lock satisfies it.
type SweepLock interface {
	Acquire(ctx context.Context) (release func(), ok bool, err error)
}

// SweepResult summarizes one pass over the outbox.
type SweepResult struct {
	Skipped bool
	Sent    int
	Failed  int
}

// MailDispatcher resends PENDING mails on a fixed interval. A mail that fails
// maxAttempts times stays PENDING and is no longer picked up.
type MailDispatcher struct {
	mails       domain.MailRepository
	sender      domain.MailSender
	interval    time.Duration
	maxAttempts int
	lock        SweepLock
	running     atomic.Bool
	log         *zap.Logger
}

// NewMailDispatcher returns a dispatcher. lock may be nil for single-instance deployments.
func NewMailDispatcher(
	mails domain.MailRepository,
	sender domain.MailSender,
	interval time.Duration,
	maxAttempts int,
	lock SweepLock,
	log *zap.Logger,
) *MailDispatcher {
	return &MailDispatcher{
		mails:       mails,
		sender:      sender,
		interval:    interval,
		maxAttempts: maxAttempts,
		lock:        lock,
		log:         log.With(zap.String("component", "mail_dispatcher")),
	}
}

// Run sweeps every interval until ctx is cancelled.
func (d *MailDispatcher) Run(ctx context.Context) error {
	d.log.Info("mail dispatcher started",
		zap.Duration("interval", d.interval),
		zap.Int("max_attempts", d.maxAttempts),
	)

	t := time.NewTicker(d.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info("mail dispatcher stopped")
			return nil
		case <-t.C:
			if _, err := d.Sweep(ctx); err != nil {
				d.log.Error("mail sweep failed", zap.Error(err))
			}
		}
	}
}

// Sweep makes one delivery attempt per eligible mail. It returns a skipped
// result while another sweep is running here or on another instance.
func (d *MailDispatcher) Sweep(ctx context.Context) (SweepResult, error) {
	if !d.running.CompareAndSwap(false, true) {
		return SweepResult{Skipped: true}, nil
	}
	defer d.running.Store(false)

	if d.lock != nil {
		release, ok, err := d.lock.Acquire(ctx)
		if err != nil {
			return SweepResult{}, err
		}
		if !ok {
			d.log.Debug("sweep lock held elsewhere, skipping")
			return SweepResult{Skipped: true}, nil
		}
		defer release()
	}

	pending, err := d.mails.ListPending(ctx, d.maxAttempts)
	if err != nil {
		return SweepResult{}, err
	}

	var result SweepResult
	for _, mail := range pending {
		if ctx.Err() != nil {
			break
		}

		if err := d.sender.TrySend(ctx, mail); err != nil {
			result.Failed++
			d.log.Warn("mail delivery failed",
				zap.String("mail_id", mail.ID),
				zap.Int("attempt", mail.Attempts+1),
				zap.Error(err),
			)
			if err := d.mails.IncrementAttempts(ctx, mail.ID); err != nil {
				d.log.Error("failed to record mail attempt", zap.String("mail_id", mail.ID), zap.Error(err))
			}
			continue
		}

		result.Sent++
		if err := d.mails.MarkSent(ctx, mail.ID); err != nil {
			d.log.Error("failed to mark mail sent", zap.String("mail_id", mail.ID), zap.Error(err))
		}
	}

	if len(pending) > 0 {
		d.log.Info("mail sweep finished", zap.Int("sent", result.Sent), zap.Int("failed", result.Failed))
	}
	return result, nil
}
