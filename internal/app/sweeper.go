/**
 * @description
 * Cron-driven expiry sweep for the invoice store. Abandoned invoices are also
 * evicted opportunistically on create; this background cadence bounds how long
 * a never-polled expired invoice can linger between creations.
 */

package app

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/satsforgood/donation-service/internal/store"
)

// Sweeper periodically removes expired, unpaid invoices from the store.
type Sweeper struct {
	cron     *cron.Cron
	invoices *store.InvoiceStore
	schedule string
}

// NewSweeper creates a sweeper running on the given cron schedule spec
// (e.g. "@every 1m").
func NewSweeper(invoices *store.InvoiceStore, schedule string) *Sweeper {
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(log.Default()))))
	return &Sweeper{
		cron:     c,
		invoices: invoices,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the scheduler.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("level=info component=sweeper msg=\"expiry sweep scheduled\" schedule=%q", s.schedule)
	return nil
}

func (s *Sweeper) run() {
	removed := s.invoices.Sweep(time.Now().UTC())
	if removed > 0 {
		log.Printf("level=info component=sweeper event=sweep_completed removed=%d remaining=%d", removed, s.invoices.Len())
	}
}

// Stop gracefully stops the scheduler. The returned context is done once any
// in-flight sweep has finished.
func (s *Sweeper) Stop() context.Context {
	return s.cron.Stop()
}
