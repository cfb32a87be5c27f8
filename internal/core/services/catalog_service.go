package services

import (
	"context"
	"log"
	"strings"
	"sync"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/idgen"
	"course-portal/internal/pkg/validate"
)

// CatalogService owns the course lists: one per faculty owner plus the shared
// catalog students browse. The shared catalog holds the authoritative
// enrolled counter; an owner's list mirrors it and is rewritten in the same
// call.
type CatalogService struct {
	store     *store.Store
	validator *validate.Validator
	ids       *idgen.Generator

	mu sync.Mutex
}

// NewCatalogService creates a new catalog service
func NewCatalogService(s *store.Store, v *validate.Validator, ids *idgen.Generator) *CatalogService {
	return &CatalogService{
		store:     s,
		validator: v,
		ids:       ids,
	}
}

// ============================================================
// Faculty catalog
// ============================================================

// List returns the owner's courses. The first call for an owner seeds and
// persists the default course set.
func (s *CatalogService) List(ctx context.Context, owner domain.User) ([]domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadOwned(ctx, owner)
}

// Get returns one of the owner's courses
func (s *CatalogService) Get(ctx context.Context, owner domain.User, id int64) (*domain.Course, error) {
	courses, err := s.List(ctx, owner)
	if err != nil {
		return nil, err
	}

	i := indexOf(courses, id)
	if i < 0 {
		return nil, domain.ErrCourseNotFound
	}
	course := courses[i]
	return &course, nil
}

// Create validates draft and appends a new active course to the owner's list
func (s *CatalogService) Create(ctx context.Context, owner domain.User, draft domain.CourseDraft) (*domain.Course, error) {
	draft = cleanDraft(draft)
	if err := s.validator.Struct(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadOwned(ctx, owner)
	if err != nil {
		return nil, err
	}

	course := s.newCourse(owner, draft)
	courses = append(courses, course)

	if err := s.commit(ctx, owner.ID, courses, course); err != nil {
		return nil, err
	}

	log.Printf("✅ Course created: %s (id=%d, owner=%d)", course.Code, course.ID, owner.ID)
	return &course, nil
}

// Update replaces the editable fields of a course. ID, owner, enrolled,
// active flag and createdAt are preserved.
func (s *CatalogService) Update(ctx context.Context, owner domain.User, id int64, draft domain.CourseDraft) (*domain.Course, error) {
	draft = cleanDraft(draft)
	if err := s.validator.Struct(draft); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadOwned(ctx, owner)
	if err != nil {
		return nil, err
	}

	i := indexOf(courses, id)
	if i < 0 {
		return nil, domain.ErrCourseNotFound
	}

	course := courses[i]
	applyDraft(&course, draft)
	course.UpdatedAt = nowFunc()
	courses[i] = course

	if err := s.commit(ctx, owner.ID, courses, course); err != nil {
		return nil, err
	}

	log.Printf("✅ Course updated: %s (id=%d)", course.Code, course.ID)
	return &course, nil
}

// SoftDelete marks a course inactive. It stays in the owner's list and can
// be restored.
func (s *CatalogService) SoftDelete(ctx context.Context, owner domain.User, id int64) (*domain.Course, error) {
	return s.setActive(ctx, owner, id, false)
}

// Restore marks a soft-deleted course active again
func (s *CatalogService) Restore(ctx context.Context, owner domain.User, id int64) (*domain.Course, error) {
	return s.setActive(ctx, owner, id, true)
}

// PermanentlyDelete removes a course from the owner's list and the shared
// catalog. Enrollment snapshots referencing it are kept.
func (s *CatalogService) PermanentlyDelete(ctx context.Context, owner domain.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadOwned(ctx, owner)
	if err != nil {
		return err
	}

	i := indexOf(courses, id)
	if i < 0 {
		return domain.ErrCourseNotFound
	}
	code := courses[i].Code
	courses = append(courses[:i], courses[i+1:]...)

	if err := s.store.Save(ctx, store.FacultyCoursesKey(owner.ID), courses); err != nil {
		return err
	}

	shared, err := s.loadShared(ctx)
	if err != nil {
		return err
	}
	if j := indexOf(shared, id); j >= 0 {
		shared = append(shared[:j], shared[j+1:]...)
		if err := s.store.Save(ctx, store.KeyAllCourses, shared); err != nil {
			return err
		}
	}

	log.Printf("✅ Course permanently deleted: %s (id=%d)", code, id)
	return nil
}

func (s *CatalogService) setActive(ctx context.Context, owner domain.User, id int64, active bool) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	courses, err := s.loadOwned(ctx, owner)
	if err != nil {
		return nil, err
	}

	i := indexOf(courses, id)
	if i < 0 {
		return nil, domain.ErrCourseNotFound
	}

	courses[i].IsActive = active
	courses[i].UpdatedAt = nowFunc()
	course := courses[i]

	if err := s.commit(ctx, owner.ID, courses, course); err != nil {
		return nil, err
	}

	action := "restored"
	if !active {
		action = "soft-deleted"
	}
	log.Printf("✅ Course %s: %s (id=%d)", action, course.Code, course.ID)
	return &course, nil
}

// ============================================================
// Shared catalog
// ============================================================

// Catalog returns every course of the shared catalog, inactive ones included
func (s *CatalogService) Catalog(ctx context.Context) ([]domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadShared(ctx)
}

// StudentCatalog returns the active courses of the shared catalog
func (s *CatalogService) StudentCatalog(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return Active(courses), nil
}

// Course returns one course of the shared catalog
func (s *CatalogService) Course(ctx context.Context, id int64) (*domain.Course, error) {
	courses, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(courses, id)
	if i < 0 {
		return nil, domain.ErrCourseNotFound
	}
	course := courses[i]
	return &course, nil
}

// ReserveSeat checks that a course is active and not full, then increments
// its enrolled counter on every copy. It returns the updated course.
func (s *CatalogService) ReserveSeat(ctx context.Context, id int64) (*domain.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shared, err := s.loadShared(ctx)
	if err != nil {
		return nil, err
	}

	i := indexOf(shared, id)
	switch {
	case i < 0:
		return nil, domain.ErrCourseNotFound
	case !shared[i].IsActive:
		return nil, domain.ErrCourseInactive
	case shared[i].IsFull():
		return nil, domain.ErrCourseFull
	}

	shared[i].Enrolled++
	if err := s.saveCounter(ctx, shared, i); err != nil {
		return nil, err
	}

	course := shared[i]
	return &course, nil
}

// ReleaseSeat decrements a course's enrolled counter on every copy, never
// below zero. A course that no longer exists is ignored.
func (s *CatalogService) ReleaseSeat(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	shared, err := s.loadShared(ctx)
	if err != nil {
		return err
	}

	i := indexOf(shared, id)
	if i < 0 {
		return nil
	}
	if shared[i].Enrolled > 0 {
		shared[i].Enrolled--
	}
	return s.saveCounter(ctx, shared, i)
}

// saveCounter persists the shared catalog and copies the counter of
// shared[i] into its owner's list
func (s *CatalogService) saveCounter(ctx context.Context, shared []domain.Course, i int) error {
	if err := s.store.Save(ctx, store.KeyAllCourses, shared); err != nil {
		return err
	}

	course := shared[i]
	if course.OwnerID == 0 {
		return nil
	}

	var owned []domain.Course
	found, err := s.store.LoadOrPurge(ctx, store.FacultyCoursesKey(course.OwnerID), &owned)
	if err != nil || !found {
		return err
	}
	j := indexOf(owned, course.ID)
	if j < 0 {
		return nil
	}
	owned[j].Enrolled = course.Enrolled
	return s.store.Save(ctx, store.FacultyCoursesKey(course.OwnerID), owned)
}

// ============================================================
// Persistence helpers (callers hold s.mu)
// ============================================================

func (s *CatalogService) loadOwned(ctx context.Context, owner domain.User) ([]domain.Course, error) {
	var courses []domain.Course
	found, err := s.store.LoadOrPurge(ctx, store.FacultyCoursesKey(owner.ID), &courses)
	if err != nil {
		return nil, err
	}
	if found {
		return courses, nil
	}

	// Seed defaults
	defaults := config.FacultyDefaults()
	courses = make([]domain.Course, 0, len(defaults))
	for _, draft := range defaults {
		courses = append(courses, s.newCourse(owner, draft))
	}

	if err := s.store.Save(ctx, store.FacultyCoursesKey(owner.ID), courses); err != nil {
		return nil, err
	}

	shared, err := s.loadShared(ctx)
	if err != nil {
		return nil, err
	}
	shared = append(shared, courses...)
	if err := s.store.Save(ctx, store.KeyAllCourses, shared); err != nil {
		return nil, err
	}

	log.Printf("🌱 Seeded %d default courses for faculty %d", len(courses), owner.ID)
	return courses, nil
}

func (s *CatalogService) loadShared(ctx context.Context) ([]domain.Course, error) {
	var courses []domain.Course
	found, err := s.store.LoadOrPurge(ctx, store.KeyAllCourses, &courses)
	if err != nil {
		return nil, err
	}
	if found {
		return courses, nil
	}

	courses = config.MockCatalog(nowFunc())
	if err := s.store.Save(ctx, store.KeyAllCourses, courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// commit persists the owner's full list and mirrors course into the shared catalog
func (s *CatalogService) commit(ctx context.Context, ownerID int64, courses []domain.Course, course domain.Course) error {
	if err := s.store.Save(ctx, store.FacultyCoursesKey(ownerID), courses); err != nil {
		return err
	}

	shared, err := s.loadShared(ctx)
	if err != nil {
		return err
	}
	if i := indexOf(shared, course.ID); i >= 0 {
		shared[i] = course
	} else {
		shared = append(shared, course)
	}
	return s.store.Save(ctx, store.KeyAllCourses, shared)
}

func (s *CatalogService) newCourse(owner domain.User, draft domain.CourseDraft) domain.Course {
	now := nowFunc()
	course := domain.Course{
		ID:         s.ids.Next(),
		OwnerID:    owner.ID,
		Instructor: owner.Name,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	applyDraft(&course, draft)
	return course
}

// ============================================================
// Derivations
// ============================================================

// Active returns the courses with isActive set
func Active(courses []domain.Course) []domain.Course {
	return partition(courses, true)
}

// Deleted returns the soft-deleted courses
func Deleted(courses []domain.Course) []domain.Course {
	return partition(courses, false)
}

func partition(courses []domain.Course, active bool) []domain.Course {
	out := make([]domain.Course, 0, len(courses))
	for _, c := range courses {
		if c.IsActive == active {
			out = append(out, c)
		}
	}
	return out
}

func indexOf(courses []domain.Course, id int64) int {
	for i := range courses {
		if courses[i].ID == id {
			return i
		}
	}
	return -1
}

func applyDraft(course *domain.Course, draft domain.CourseDraft) {
	course.Title = draft.Title
	course.Code = draft.Code
	course.Category = draft.Category
	course.Description = draft.Description
	course.Capacity = draft.Capacity
	course.Duration = draft.Duration
	course.Level = draft.Level
	course.StartDate = draft.StartDate
	course.EndDate = draft.EndDate
	course.Syllabus = draft.Syllabus
}

// cleanDraft trims text fields, defaults the level and drops blank syllabus links
func cleanDraft(draft domain.CourseDraft) domain.CourseDraft {
	draft.Title = strings.TrimSpace(draft.Title)
	draft.Code = strings.TrimSpace(draft.Code)
	draft.Category = strings.TrimSpace(draft.Category)
	draft.Description = strings.TrimSpace(draft.Description)
	draft.Duration = strings.TrimSpace(draft.Duration)
	draft.StartDate = strings.TrimSpace(draft.StartDate)
	draft.EndDate = strings.TrimSpace(draft.EndDate)
	if draft.Level == "" {
		draft.Level = domain.LevelBeginner
	}

	units := make([]domain.SyllabusUnit, 0, len(draft.Syllabus))
	for _, u := range draft.Syllabus {
		units = append(units, domain.SyllabusUnit{
			Label:      strings.TrimSpace(u.Label),
			Topic:      strings.TrimSpace(u.Topic),
			Tutorials:  nonBlank(u.Tutorials),
			VideoLinks: nonBlank(u.VideoLinks),
		})
	}
	draft.Syllabus = units
	return draft
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
