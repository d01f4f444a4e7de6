package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hmelgaard/rota/internal/timegrid"
)

// ErrSettingNotFound is returned when a settings key has no stored value.
var ErrSettingNotFound = errors.New("setting not found")

// Settings keys.
const (
	settingZoomLevel = "grid.zoom_level"
)

// SettingsRepository handles the persisted key/value settings table.
type SettingsRepository struct {
	db *DB
}

// NewSettingsRepository creates a new SettingsRepository.
func NewSettingsRepository(db *DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	return value, nil
}

// Set upserts a setting value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}

// ZoomLevel returns the persisted grid zoom level, or the default when none
// has been stored. Out-of-range stored values are clamped rather than
// rejected so a stale row never wedges startup.
func (r *SettingsRepository) ZoomLevel(ctx context.Context) (timegrid.ZoomLevel, error) {
	value, err := r.Get(ctx, settingZoomLevel)
	if errors.Is(err, ErrSettingNotFound) {
		return timegrid.DefaultZoomLevel, nil
	}
	if err != nil {
		return timegrid.DefaultZoomLevel, err
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return timegrid.DefaultZoomLevel, nil
	}
	return timegrid.ZoomLevel(parsed).Clamp(), nil
}

// SetZoomLevel persists the grid zoom level.
func (r *SettingsRepository) SetZoomLevel(ctx context.Context, level timegrid.ZoomLevel) error {
	return r.Set(ctx, settingZoomLevel, strconv.Itoa(int(level.Clamp())))
}
