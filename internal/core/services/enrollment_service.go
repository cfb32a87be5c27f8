package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"strings"
	"sync"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/core/domain"

	"github.com/google/uuid"
)

// EnrollmentService owns the per-student enrollment lists and keeps the
// catalog's enrolled counters in step with them
type EnrollmentService struct {
	store   *store.Store
	catalog *CatalogService

	mu sync.Mutex
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(s *store.Store, catalog *CatalogService) *EnrollmentService {
	return &EnrollmentService{
		store:   s,
		catalog: catalog,
	}
}

// List returns the student's enrollments in enrollment order
func (s *EnrollmentService) List(ctx context.Context, studentID int64) ([]domain.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, studentID)
}

// IsEnrolled reports whether the student holds an enrollment for the course
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID int64) (bool, error) {
	enrollments, err := s.List(ctx, studentID)
	if err != nil {
		return false, err
	}
	return indexOfCourse(enrollments, courseID) >= 0, nil
}

// Enroll reserves a seat in the course and records a snapshot of it for the
// student
func (s *EnrollmentService) Enroll(ctx context.Context, student domain.User, courseID int64) (*domain.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollments, err := s.load(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if indexOfCourse(enrollments, courseID) >= 0 {
		return nil, domain.ErrAlreadyEnrolled
	}

	course, err := s.catalog.ReserveSeat(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrollment := domain.Enrollment{
		ID:                 uuid.NewString(),
		StudentID:          student.ID,
		StudentName:        student.Name,
		RegistrationNumber: student.RegistrationNumber,
		Course:             *course,
		EnrolledAt:         nowFunc(),
	}
	enrollments = append(enrollments, enrollment)

	if err := s.store.Save(ctx, store.EnrolledCoursesKey(student.ID), enrollments); err != nil {
		if releaseErr := s.catalog.ReleaseSeat(ctx, courseID); releaseErr != nil {
			log.Printf("❌ Failed to release seat for course %d: %v", courseID, releaseErr)
		}
		return nil, err
	}

	log.Printf("✅ Student %d enrolled in %s", student.ID, course.Code)
	return &enrollment, nil
}

// Unenroll removes the student's enrollment for the course and releases the
// seat. It is a no-op when no such enrollment exists.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	enrollments, err := s.load(ctx, studentID)
	if err != nil {
		return err
	}

	i := indexOfCourse(enrollments, courseID)
	if i < 0 {
		return nil
	}
	enrollments = append(enrollments[:i], enrollments[i+1:]...)

	if err := s.store.Save(ctx, store.EnrolledCoursesKey(studentID), enrollments); err != nil {
		return err
	}
	if err := s.catalog.ReleaseSeat(ctx, courseID); err != nil {
		return err
	}

	log.Printf("✅ Student %d unenrolled from course %d", studentID, courseID)
	return nil
}

// ForCourses returns the enrollments of every student that reference one of
// courseIDs, oldest first
func (s *EnrollmentService) ForCourses(ctx context.Context, courseIDs ...int64) ([]domain.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(courseIDs) == 0 {
		return []domain.Enrollment{}, nil
	}

	want := make(map[int64]bool, len(courseIDs))
	for _, id := range courseIDs {
		want[id] = true
	}

	keys, err := s.store.Keys(ctx, store.PrefixEnrolledCourses)
	if err != nil {
		return nil, err
	}

	out := []domain.Enrollment{}
	for _, key := range keys {
		var enrollments []domain.Enrollment
		if _, err := s.store.Load(ctx, key, &enrollments); err != nil {
			if errors.Is(err, domain.ErrStorageCorruption) {
				log.Printf("⚠️ Skipping corrupt enrollment list: %s", strings.TrimPrefix(key, store.PrefixEnrolledCourses))
				continue
			}
			return nil, err
		}
		for _, e := range enrollments {
			if want[e.CourseID()] {
				out = append(out, e)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EnrolledAt.Before(out[j].EnrolledAt)
	})
	return out, nil
}

// Roster returns the enrollments of one course, oldest first
func (s *EnrollmentService) Roster(ctx context.Context, courseID int64) ([]domain.Enrollment, error) {
	return s.ForCourses(ctx, courseID)
}

func (s *EnrollmentService) load(ctx context.Context, studentID int64) ([]domain.Enrollment, error) {
	var enrollments []domain.Enrollment
	if _, err := s.store.LoadOrPurge(ctx, store.EnrolledCoursesKey(studentID), &enrollments); err != nil {
		return nil, err
	}
	if enrollments == nil {
		enrollments = []domain.Enrollment{}
	}
	return enrollments, nil
}

func indexOfCourse(enrollments []domain.Enrollment, courseID int64) int {
	for i := range enrollments {
		if enrollments[i].CourseID() == courseID {
			return i
		}
	}
	return -1
}
