package alert

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"janelas-backend/internal/store"
	"janelas-backend/internal/window"
)

// mockSender is a mock implementation of the Sender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

func newTestStore(t *testing.T) (store.Store, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return store.NewGormStore(gormDB), mock
}

func multirioAlert(label string) Alert {
	return Alert{
		Terminal: window.TerminalMultirio,
		Record: window.Record{
			Terminal: window.TerminalMultirio,
			Date:     time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Range:    window.RangeOf(label),
		},
	}
}

func TestWorkerPoolDispatch(t *testing.T) {
	s, _ := newTestStore(t)
	wp := NewWorkerPool(1, s, &webpush.Options{})

	wp.Dispatch(multirioAlert("09:00 - 15:00"))

	select {
	case a := <-wp.jobs:
		assert.Equal(t, window.TerminalMultirio, a.Terminal)
	case <-time.After(1 * time.Second):
		t.Fatal("timed out waiting for alert to be dispatched")
	}
}

func subscriptionQuery() string {
	return `SELECT .* FROM "push_subscriptions".*JOIN subscription_terminal_mapping.*JOIN terminals.*WHERE terminals\.code = \$1`
}

func TestWorkerDeliversAlert(t *testing.T) {
	s, mock := newTestStore(t)
	wp := NewWorkerPool(1, s, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(1)

	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Equal(t, "Próxima janela disponível no Multirio: 09:00 - 15:00", string(payload))
			wg.Done()
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	mock.ExpectQuery(subscriptionQuery()).
		WithArgs("MULTIRIO").
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow("https://example.com/push", "test_p256dh", "test_auth", time.Now()))

	wp.Dispatch(multirioAlert("09:00 - 15:00"))
	wg.Wait()
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerDeletesExpiredSubscription(t *testing.T) {
	s, mock := newTestStore(t)
	wp := NewWorkerPool(1, s, &webpush.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	mock.ExpectQuery(subscriptionQuery()).
		WithArgs("MULTIRIO").
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow("https://example.com/expired", "test_p256dh", "test_auth", time.Now()))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = \$1`).
		WithArgs("https://example.com/expired").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	wp.Dispatch(multirioAlert("09:00 - 15:00"))

	// Give the worker a moment to process the job.
	time.Sleep(100 * time.Millisecond)

	assert.NoError(t, mock.ExpectationsWereMet())
}
