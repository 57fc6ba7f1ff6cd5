package alert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"janelas-backend/config"
	"janelas-backend/internal/window"
)

type stubProvider struct {
	table []window.Record
}

func (p *stubProvider) Unified(context.Context) ([]window.Record, error) {
	return p.table, nil
}

func windowOn(day int, label string, avail window.Availability) window.Record {
	return window.Record{
		Terminal:     window.TerminalMultirio,
		Date:         time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC),
		Range:        window.RangeOf(label),
		Availability: avail,
	}
}

func newTestWatcher(p TableProvider) *Watcher {
	cfg := &config.Config{
		Alert:      config.AlertConfig{Enabled: true, Interval: time.Minute},
		WorkerPool: config.WorkerPoolConfig{Size: 4},
	}
	w := NewWatcher(cfg, p, nil, time.UTC)
	w.now = func() time.Time {
		return time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)
	}
	return w
}

func dispatched(t *testing.T, w *Watcher) []Alert {
	t.Helper()
	var alerts []Alert
	for {
		select {
		case a := <-w.pool.jobs:
			alerts = append(alerts, a)
		default:
			return alerts
		}
	}
}

func TestCheckOnceAnnouncesNextWindow(t *testing.T) {
	p := &stubProvider{table: []window.Record{
		windowOn(2, "14:00 - 18:00", window.Availability{ECH: 3}),
	}}
	w := newTestWatcher(p)

	w.CheckOnce(context.Background())

	alerts := dispatched(t, w)
	require.Len(t, alerts, 1)
	assert.Equal(t, window.TerminalMultirio, alerts[0].Terminal)
	assert.Equal(t, "14:00 - 18:00", alerts[0].Record.Range.Label)
}

func TestCheckOnceDoesNotRepeatSameWindow(t *testing.T) {
	p := &stubProvider{table: []window.Record{
		windowOn(2, "14:00 - 18:00", window.Availability{ECH: 3}),
	}}
	w := newTestWatcher(p)

	w.CheckOnce(context.Background())
	w.CheckOnce(context.Background())

	assert.Len(t, dispatched(t, w), 1)
}

func TestCheckOnceAnnouncesChangedWindow(t *testing.T) {
	p := &stubProvider{table: []window.Record{
		windowOn(2, "14:00 - 18:00", window.Availability{ECH: 3}),
	}}
	w := newTestWatcher(p)

	w.CheckOnce(context.Background())

	// An earlier window shows up in the source; it becomes the next one.
	p.table = []window.Record{
		windowOn(2, "11:00 - 12:00", window.Availability{RCH: 2}),
		windowOn(2, "14:00 - 18:00", window.Availability{ECH: 3}),
	}
	w.CheckOnce(context.Background())

	alerts := dispatched(t, w)
	require.Len(t, alerts, 2)
	assert.Equal(t, "11:00 - 12:00", alerts[1].Record.Range.Label)
}

func TestCheckOnceSkipsWhenNothingRemains(t *testing.T) {
	p := &stubProvider{table: []window.Record{
		windowOn(2, "06:00 - 08:00", window.Availability{ECH: 3}),
	}}
	w := newTestWatcher(p)

	w.CheckOnce(context.Background())

	assert.Empty(t, dispatched(t, w))
}
