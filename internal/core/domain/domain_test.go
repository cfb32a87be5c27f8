package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseUnmarshalLegacyCapacity(t *testing.T) {
	var legacy Course
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"code":"OLD100","maxStudents":12}`), &legacy))
	assert.Equal(t, 12, legacy.Capacity)

	var both Course
	require.NoError(t, json.Unmarshal([]byte(`{"id":3,"capacity":20,"maxStudents":12}`), &both))
	assert.Equal(t, 20, both.Capacity)
}

func TestCourseSeats(t *testing.T) {
	tests := []struct {
		name     string
		course   Course
		full     bool
		seatsLft int
	}{
		{"open", Course{Capacity: 10, Enrolled: 4}, false, 6},
		{"exactly full", Course{Capacity: 2, Enrolled: 2}, true, 0},
		{"over capacity", Course{Capacity: 2, Enrolled: 5}, true, 0},
		{"zero capacity", Course{}, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.full, tt.course.IsFull())
			assert.Equal(t, tt.seatsLft, tt.course.SeatsLeft())
		})
	}
}

func TestLevelRank(t *testing.T) {
	assert.Less(t, LevelBeginner.Rank(), LevelIntermediate.Rank())
	assert.Less(t, LevelIntermediate.Rank(), LevelAdvanced.Rank())
	assert.Less(t, LevelAdvanced.Rank(), Level("Expert").Rank())
}

func TestSessionAuthenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.False(t, Session{User: &User{ID: 1}}.Authenticated())
	assert.False(t, Session{AccessToken: "access_1_1"}.Authenticated())
	assert.True(t, Session{User: &User{ID: 1}, AccessToken: "access_1_1"}.Authenticated())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{nil, ""},
		{NewValidationError(map[string]string{"title": "title is required"}), KindValidation},
		{fmt.Errorf("login: %w", ErrInvalidCredentials), KindAuth},
		{ErrNoRefreshToken, KindAuth},
		{ErrForbidden, KindForbidden},
		{ErrDuplicateEmail, KindDuplicate},
		{ErrCourseFull, KindBusiness},
		{ErrAlreadyEnrolled, KindBusiness},
		{ErrCourseNotFound, KindNotFound},
		{ErrUserNotFound, KindNotFound},
		{fmt.Errorf("load x: %w", ErrStorageCorruption), KindStorage},
		{errors.New("boom"), KindInternal},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, KindOf(tt.err), "%v", tt.err)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "validation failed", NewValidationError(nil).Error())
	err := NewValidationError(map[string]string{"title": "x", "code": "y"})
	assert.Equal(t, "validation failed: code, title", err.Error())
}
