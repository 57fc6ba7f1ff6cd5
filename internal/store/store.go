package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"janelas-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	// DB exposes the underlying connection for handlers that query directly.
	DB() *gorm.DB
	// EnsureTerminals upserts the terminal reference rows (code, display
	// name, highlight color).
	EnsureTerminals(ctx context.Context, terminals []model.Terminal) error
	// TerminalColors returns the code to highlight-color mapping.
	TerminalColors(ctx context.Context) (map[string]string, error)
	// SubscriptionsForTerminal lists the push subscriptions bound to a
	// terminal code.
	SubscriptionsForTerminal(ctx context.Context, code string) ([]model.PushSubscription, error)
	// DeleteSubscription removes a subscription by endpoint.
	DeleteSubscription(ctx context.Context, endpoint string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

func (s *gormStore) EnsureTerminals(ctx context.Context, terminals []model.Terminal) error {
	if len(terminals) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "color", "updated_at"}),
	}).Create(&terminals).Error; err != nil {
		return fmt.Errorf("upsert terminals failed: %w", err)
	}
	return nil
}

func (s *gormStore) TerminalColors(ctx context.Context) (map[string]string, error) {
	var terminals []model.Terminal
	if err := s.db.WithContext(ctx).Find(&terminals).Error; err != nil {
		return nil, fmt.Errorf("failed to load terminals: %w", err)
	}
	colors := make(map[string]string, len(terminals))
	for _, t := range terminals {
		colors[t.Code] = t.Color
	}
	return colors, nil
}

func (s *gormStore) SubscriptionsForTerminal(ctx context.Context, code string) ([]model.PushSubscription, error) {
	var subscriptions []model.PushSubscription
	err := s.db.WithContext(ctx).
		Joins("JOIN subscription_terminal_mapping stm ON stm.push_subscription_endpoint = push_subscriptions.endpoint").
		Joins("JOIN terminals ON terminals.id = stm.terminal_id").
		Where("terminals.code = ?", code).
		Find(&subscriptions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions for terminal %s: %w", code, err)
	}
	return subscriptions, nil
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error
}
