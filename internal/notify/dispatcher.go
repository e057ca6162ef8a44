package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/onproapp/website-backend/internal/domain"
	"github.com/onproapp/website-backend/internal/mail"
)

// SignupSource is the storage contract required by the dispatcher.
type SignupSource interface {
	ListUnconfirmedSignups(ctx context.Context, limit int) ([]domain.WaitlistSignup, error)
	MarkConfirmationSent(ctx context.Context, id string) error
}

// Dispatcher periodically picks up signups whose confirmation email has not
// been dispatched, sends the confirmation through the email provider, and
// marks them sent. It is the only component that mutates stored signups.
type Dispatcher struct {
	repo      SignupSource
	sender    mail.Sender
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
	workers   int
}

// New constructs a Dispatcher with the provided polling interval, batch size
// and send concurrency.
func New(repo SignupSource, sender mail.Sender, logger *slog.Logger, interval time.Duration, batchSize, workers int) *Dispatcher {
	if interval <= 0 {
		interval = time.Minute
	}
	if batchSize <= 0 {
		batchSize = 50
	}
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		repo:      repo,
		sender:    sender,
		logger:    logger,
		interval:  interval,
		batchSize: batchSize,
		workers:   workers,
	}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, err := d.DispatchPending(ctx)
			if err != nil {
				d.logger.Error("confirmation dispatch failed", "error", err)
				continue
			}
			if sent > 0 {
				d.logger.Info("confirmation emails dispatched", "count", sent)
			}
		}
	}
}

// DispatchPending processes one batch of unconfirmed signups concurrently
// and returns how many confirmations were sent and marked.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	signups, err := d.repo.ListUnconfirmedSignups(ctx, d.batchSize)
	if err != nil {
		return 0, fmt.Errorf("list pending confirmations: %w", err)
	}
	if len(signups) == 0 {
		return 0, nil
	}

	indexCh := make(chan int)
	sentCh := make(chan int, len(signups))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for idx := range indexCh {
			if err := d.dispatchOne(ctx, signups[idx]); err != nil {
				d.logger.Warn("confirmation not sent",
					"error", err,
					"signupId", signups[idx].ID,
				)
				continue
			}
			sentCh <- 1
		}
	}

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go worker()
	}

Loop:
	for i := 0; i < len(signups); i++ {
		select {
		case indexCh <- i:
		case <-ctx.Done():
			break Loop
		}
	}
	close(indexCh)
	wg.Wait()
	close(sentCh)

	sent := 0
	for range sentCh {
		sent++
	}
	return sent, nil
}

func (d *Dispatcher) dispatchOne(ctx context.Context, signup domain.WaitlistSignup) error {
	msg := mail.Message{
		To:      signup.Email,
		Subject: "You're on the list",
		Body:    fmt.Sprintf("Hi %s, thanks for joining the waitlist.", signup.Name),
	}
	if err := d.sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("send confirmation: %w", err)
	}
	// Marked only after a successful send; a failed mark leaves the signup
	// eligible for a duplicate email on the next batch.
	if err := d.repo.MarkConfirmationSent(ctx, signup.ID); err != nil {
		return err
	}
	return nil
}
