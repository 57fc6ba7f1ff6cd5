package alert

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"

	"janelas-backend/internal/store"
	"janelas-backend/internal/window"
)

// Alert is one next-window change to announce: the terminal and the window
// that just became its next one.
type Alert struct {
	Terminal window.Terminal
	Record   window.Record
}

// Sender defines the interface for sending a web push notification.
type Sender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is the real Sender backed by the webpush library.
type WebPushSender struct{}

func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans alert deliveries out over a fixed set of workers so a
// slow push endpoint never stalls the watcher loop.
type WorkerPool struct {
	size    int
	jobs    chan Alert
	store   store.Store
	webpush *webpush.Options
	sender  Sender
}

// NewWorkerPool creates a new worker pool.
func NewWorkerPool(size int, s store.Store, webpushOptions *webpush.Options) *WorkerPool {
	return &WorkerPool{
		size:    size,
		jobs:    make(chan Alert, size),
		store:   s,
		webpush: webpushOptions,
		sender:  &WebPushSender{},
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	for {
		select {
		case a := <-wp.jobs:
			wp.deliver(ctx, a)
		case <-ctx.Done():
			log.Printf("alert worker %d shutting down", id)
			return
		}
	}
}

// Dispatch queues an alert for delivery.
func (wp *WorkerPool) Dispatch(a Alert) {
	wp.jobs <- a
}

// deliver sends the alert to every subscription bound to the terminal.
func (wp *WorkerPool) deliver(ctx context.Context, a Alert) {
	subscriptions, err := wp.store.SubscriptionsForTerminal(ctx, string(a.Terminal))
	if err != nil {
		log.Printf("error fetching subscriptions for terminal %s: %v", a.Terminal, err)
		return
	}
	if len(subscriptions) == 0 {
		return
	}

	message := fmt.Sprintf("Próxima janela disponível no %s: %s",
		a.Terminal.DisplayName(), a.Record.Range.Label)
	log.Printf("sending %d alerts for terminal %s", len(subscriptions), a.Terminal)

	for _, sub := range subscriptions {
		wp.send(ctx, sub.Endpoint, sub.P256DH, sub.Auth, []byte(message))
	}
}

func (wp *WorkerPool) send(ctx context.Context, endpoint, p256dh, auth string, payload []byte) {
	sub := &webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: p256dh,
			Auth:   auth,
		},
	}

	resp, err := wp.sender.Send(payload, sub, wp.webpush)
	if err != nil {
		log.Printf("error sending alert to %s: %v", endpoint, err)
		return
	}
	defer resp.Body.Close()

	// The push service reports gone subscriptions with 410.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", endpoint)
		if err := wp.store.DeleteSubscription(ctx, endpoint); err != nil {
			log.Printf("failed to delete expired subscription %s: %v", endpoint, err)
		}
	}
}
