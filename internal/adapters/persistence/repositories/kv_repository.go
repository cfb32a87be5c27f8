package repositories

import (
	"context"
	"errors"
	"strings"

	"course-portal/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// kvRepository implements KVRepository on top of gorm
type kvRepository struct {
	db *gorm.DB
}

// NewKVRepository creates a new gorm-backed key/value repository
func NewKVRepository(db *gorm.DB) KVRepository {
	return &kvRepository{db: db}
}

// Get gets the value stored under key
func (r *kvRepository) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	err := r.db.WithContext(ctx).Where("kv_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return entry.Value, nil
}

// Set inserts or overwrites the value stored under key
func (r *kvRepository) Set(ctx context.Context, key, value string) error {
	entry := &models.KVEntry{Key: key, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kv_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(entry).Error
}

// Delete removes keys; missing keys are ignored
func (r *kvRepository) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("kv_key IN ?", keys).
		Delete(&models.KVEntry{}).Error
}

// Keys lists keys starting with prefix, in key order
func (r *kvRepository) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).
		Model(&models.KVEntry{}).
		Where("kv_key LIKE ? ESCAPE '!'", escapeLike(prefix)+"%").
		Order("kv_key").
		Pluck("kv_key", &keys).Error
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Clear removes every entry (test isolation, CLI reset)
func (r *kvRepository) Clear(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.KVEntry{}).Error
}

// escapeLike escapes LIKE wildcards so prefixes such as "enrolledCourses_" match literally
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
