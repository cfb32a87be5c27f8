// Package store is the persistent key/value store adapter. Every value goes
// through JSON on the way in and out; keys follow the portal's naming scheme.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"

	"course-portal/internal/adapters/persistence/repositories"
	"course-portal/internal/core/domain"
)

// Store keys
const (
	KeyUser            = "user"
	KeyAccessToken     = "accessToken"
	KeyRefreshToken    = "refreshToken"
	KeyRegisteredUsers = "registeredUsers"
	KeyAllCourses      = "allCourses"

	PrefixFacultyCourses  = "facultyCourses_"
	PrefixEnrolledCourses = "enrolledCourses_"
)

// SessionKeys are the keys owned by the session service
var SessionKeys = []string{KeyUser, KeyAccessToken, KeyRefreshToken}

// FacultyCoursesKey returns the key of a faculty member's course list
func FacultyCoursesKey(userID int64) string {
	return PrefixFacultyCourses + strconv.FormatInt(userID, 10)
}

// EnrolledCoursesKey returns the key of a student's enrollment list
func EnrolledCoursesKey(userID int64) string {
	return PrefixEnrolledCourses + strconv.FormatInt(userID, 10)
}

// Store wraps a KVRepository with JSON (de)serialization
type Store struct {
	repo repositories.KVRepository
}

// New creates a new store adapter
func New(repo repositories.KVRepository) *Store {
	return &Store{repo: repo}
}

// Load decodes the value under key into dst. It reports false when the key is
// absent. A value that fails to parse yields an error wrapping
// domain.ErrStorageCorruption; the key is left untouched.
func (s *Store) Load(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("load %s: %w", key, domain.ErrStorageCorruption)
	}
	return true, nil
}

// LoadOrPurge behaves like Load but treats a corrupt value as absent and
// removes it
func (s *Store) LoadOrPurge(ctx context.Context, key string, dst interface{}) (bool, error) {
	found, err := s.Load(ctx, key, dst)
	if errors.Is(err, domain.ErrStorageCorruption) {
		log.Printf("⚠️ Purging corrupt store key: %s", key)
		return false, s.Remove(ctx, key)
	}
	return found, err
}

// Save encodes v and stores it under key
func (s *Store) Save(ctx context.Context, key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	if err := s.repo.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Remove deletes keys; missing keys are ignored
func (s *Store) Remove(ctx context.Context, keys ...string) error {
	if err := s.repo.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("remove %v: %w", keys, err)
	}
	return nil
}

// Has reports whether any value is stored under key
func (s *Store) Has(ctx context.Context, key string) (bool, error) {
	_, err := s.repo.Get(ctx, key)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Keys lists keys with the given prefix
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	return s.repo.Keys(ctx, prefix)
}

// Clear removes every key
func (s *Store) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}

// SetRaw writes an unencoded value. Only tests and recovery tooling use it.
func (s *Store) SetRaw(ctx context.Context, key, raw string) error {
	return s.repo.Set(ctx, key, raw)
}
