package store

import (
	"context"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"janelas-backend/internal/model"
)

// Any matches any SQL argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_EnsureTerminals(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "terminals" .* ON CONFLICT \("code"\) DO UPDATE SET .*`).
		WithArgs("MULTIRIO", "Multirio", "#00397F", Any{}, Any{},
			"RIO_BRASIL", "Rio Brasil Terminal", "#F37529", Any{}, Any{}).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectCommit()

	err := s.EnsureTerminals(context.Background(), model.DefaultTerminals())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_EnsureTerminalsEmpty(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	require.NoError(t, s.EnsureTerminals(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_TerminalColors(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "terminals"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "code", "name", "color"}).
			AddRow(1, "MULTIRIO", "Multirio", "#00397F").
			AddRow(2, "RIO_BRASIL", "Rio Brasil Terminal", "#F37529"))

	colors, err := s.TerminalColors(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"MULTIRIO":   "#00397F",
		"RIO_BRASIL": "#F37529",
	}, colors)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_SubscriptionsForTerminal(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	mock.ExpectQuery(`SELECT .* FROM "push_subscriptions".*JOIN subscription_terminal_mapping.*JOIN terminals.*WHERE terminals\.code = \$1`).
		WithArgs("MULTIRIO").
		WillReturnRows(sqlmock.NewRows([]string{"endpoint", "p256dh", "auth", "created_at"}).
			AddRow("https://example.com/push", "key", "auth", time.Now()))

	subs, err := s.SubscriptionsForTerminal(context.Background(), "MULTIRIO")
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "https://example.com/push", subs[0].Endpoint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeleteSubscription(t *testing.T) {
	db, mock := newTestDB(t)
	s := NewGormStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "push_subscriptions" WHERE "push_subscriptions"."endpoint" = $1`)).
		WithArgs("https://example.com/push").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := s.DeleteSubscription(context.Background(), "https://example.com/push")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
