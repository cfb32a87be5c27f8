package store

import (
	"context"
	"testing"

	"course-portal/internal/adapters/persistence/repositories"
	"course-portal/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "facultyCourses_42", FacultyCoursesKey(42))
	assert.Equal(t, "enrolledCourses_7", EnrolledCoursesKey(7))
}

func TestLoadSave(t *testing.T) {
	ctx := context.Background()
	s := New(repositories.NewMemoryRepository())

	var user domain.User
	found, err := s.Load(ctx, KeyUser, &user)
	require.NoError(t, err)
	assert.False(t, found)

	want := domain.User{ID: 1, Name: "John Student", Email: "student@example.com", Role: domain.RoleStudent}
	require.NoError(t, s.Save(ctx, KeyUser, want))

	found, err = s.Load(ctx, KeyUser, &user)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, user)
}

func TestCorruptValue(t *testing.T) {
	ctx := context.Background()
	s := New(repositories.NewMemoryRepository())
	require.NoError(t, s.SetRaw(ctx, KeyAllCourses, "{not json"))

	var courses []domain.Course
	_, err := s.Load(ctx, KeyAllCourses, &courses)
	assert.ErrorIs(t, err, domain.ErrStorageCorruption)

	found, err := s.LoadOrPurge(ctx, KeyAllCourses, &courses)
	require.NoError(t, err)
	assert.False(t, found)

	has, err := s.Has(ctx, KeyAllCourses)
	require.NoError(t, err)
	assert.False(t, has, "corrupt key should be purged")
}
