package alert

import (
	"context"
	"log"
	"time"

	"github.com/SherClockHolmes/webpush-go"

	"janelas-backend/config"
	"janelas-backend/internal/store"
	"janelas-backend/internal/window"
)

// TableProvider yields the unified window table for one check cycle.
type TableProvider interface {
	Unified(ctx context.Context) ([]window.Record, error)
}

// Watcher polls the unified table and pushes an alert whenever a terminal's
// next window changes, so subscribers learn about a newly opened (or newly
// current) window without refreshing the dashboard.
type Watcher struct {
	cfg      *config.Config
	provider TableProvider
	pool     *WorkerPool
	tz       *time.Location
	now      func() time.Time

	// announced remembers the last alerted window per terminal, keyed by
	// date and label, so the same window is not pushed twice.
	announced map[window.Terminal]string
}

// NewWatcher creates the watcher and its delivery pool.
func NewWatcher(cfg *config.Config, provider TableProvider, s store.Store, tz *time.Location) *Watcher {
	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}

	return &Watcher{
		cfg:       cfg,
		provider:  provider,
		pool:      NewWorkerPool(cfg.WorkerPool.Size, s, webpushOptions),
		tz:        tz,
		now:       time.Now,
		announced: make(map[window.Terminal]string),
	}
}

// Run polls until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if !w.cfg.Alert.Enabled {
		log.Println("alert watcher is disabled, not starting")
		return
	}
	log.Println("starting alert watcher")

	w.pool.Start(ctx)

	w.CheckOnce(ctx)

	timer := time.NewTimer(w.cfg.Alert.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("alert watcher shutting down")
			return
		case <-timer.C:
			w.CheckOnce(ctx)
			timer.Reset(w.cfg.Alert.Interval)
		}
	}
}

// CheckOnce performs a single check cycle: recompute the next window of
// each terminal and dispatch an alert for every change.
func (w *Watcher) CheckOnce(ctx context.Context) {
	table, err := w.provider.Unified(ctx)
	if err != nil {
		log.Printf("alert check skipped: %v", err)
		return
	}

	clk := window.ClockAt(w.now().In(w.tz))
	for _, t := range window.Terminals {
		rec := window.Next(table, clk, t)
		if rec == nil {
			delete(w.announced, t)
			continue
		}

		key := rec.Date.Format("2006-01-02") + " " + rec.Range.Label
		if w.announced[t] == key {
			continue
		}
		w.announced[t] = key
		w.pool.Dispatch(Alert{Terminal: t, Record: *rec})
	}
}
