package contract

import (
	"context"

	"ai-search-be/internal/entity"
)

type SettingsRepository interface {
	// Get returns nil when no row is stored under key.
	Get(ctx context.Context, key string) (*entity.AISearchSettings, error)
	Set(ctx context.Context, key string, settings *entity.AISearchSettings) error
}
