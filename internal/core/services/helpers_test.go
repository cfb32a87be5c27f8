package services

import (
	"context"
	"testing"
	"time"

	"course-portal/internal/adapters/persistence/repositories"
	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/config"
	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/idgen"
	"course-portal/internal/pkg/validate"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// testClock is a settable clock installed as nowFunc
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type testEnv struct {
	ctx         context.Context
	clock       *testClock
	store       *store.Store
	session     *SessionService
	catalog     *CatalogService
	enrollments *EnrollmentService
	analytics   *AnalyticsService
}

func testConfig() *config.Config {
	return &config.Config{
		AppMode: "dev",
		Session: config.SessionConfig{BcryptCost: bcrypt.MinCost},
		Catalog: config.CatalogConfig{CodeRule: string(validate.CodeRuleStrict), PageSize: 6},
	}
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	clock := &testClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	nowFunc = clock.Now
	sleepFunc = func(time.Duration) {}
	t.Cleanup(func() {
		nowFunc = time.Now
		sleepFunc = time.Sleep
	})

	ctx := context.Background()
	cfg := testConfig()
	st := store.New(repositories.NewMemoryRepository())
	require.NoError(t, config.NewSeeder(st, cfg.Session.BcryptCost).Run(ctx))

	v := validate.New(validate.CodeRuleStrict)
	ids := idgen.New(clock.Now)

	catalog := NewCatalogService(st, v, ids)
	enrollments := NewEnrollmentService(st, catalog)

	return &testEnv{
		ctx:         ctx,
		clock:       clock,
		store:       st,
		session:     NewSessionService(st, v, ids, cfg),
		catalog:     catalog,
		enrollments: enrollments,
		analytics:   NewAnalyticsService(catalog, enrollments),
	}
}

func mockStudent() domain.User {
	return config.MockUsers()[0]
}

func mockFaculty() domain.User {
	return config.MockUsers()[1]
}

func validDraft() domain.CourseDraft {
	return domain.CourseDraft{
		Title:       "Cloud Computing",
		Code:        "CLD210",
		Category:    "Programming",
		Description: "Deploying services to the cloud.",
		Capacity:    2,
		Duration:    "4 weeks",
		Level:       domain.LevelAdvanced,
		StartDate:   "2024-06-01",
		Syllabus: []domain.SyllabusUnit{
			{Label: "Week 1", Topic: "Regions and zones", Tutorials: []string{"Console tour", " "}},
		},
	}
}
