package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"course-portal/internal/adapters/persistence/store"
	"course-portal/internal/core/domain"
	"course-portal/internal/pkg/password"
)

// MockPassword is the password of every seeded account
const MockPassword = "password123"

// Seeder handles store seeding
type Seeder struct {
	store      *store.Store
	bcryptCost int
}

// NewSeeder creates a new seeder instance
func NewSeeder(s *store.Store, bcryptCost int) *Seeder {
	return &Seeder{store: s, bcryptCost: bcryptCost}
}

// MockUsers returns the accounts seeded into an empty registry
func MockUsers() []domain.User {
	return []domain.User{
		{
			ID:                 1,
			Name:               "John Student",
			Email:              "student@example.com",
			Role:               domain.RoleStudent,
			RegistrationNumber: "REG001",
		},
		{
			ID:         2,
			Name:       "Dr. Smith",
			Email:      "faculty@example.com",
			Role:       domain.RoleFaculty,
			Department: "Computer Science",
		},
	}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	log.Println("🌱 Running store seeders...")

	if err := s.seedRegistry(ctx); err != nil {
		return fmt.Errorf("seed registry: %w", err)
	}
	if err := s.seedCatalog(ctx); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}

	log.Println("✅ Store seeding completed")
	return nil
}

// seedRegistry seeds the mock accounts when no registry exists yet.
// This is for development/testing only.
func (s *Seeder) seedRegistry(ctx context.Context) error {
	var registry []domain.RegisteredUser
	found, err := s.store.Load(ctx, store.KeyRegisteredUsers, &registry)
	if err != nil {
		if !errors.Is(err, domain.ErrStorageCorruption) {
			return err
		}
		log.Println("⚠️ Registry is corrupt, reseeding")
		registry = nil
	}
	if found {
		return nil // Registry already exists
	}

	hashedPassword, err := password.Hash(MockPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	for _, u := range MockUsers() {
		registry = append(registry, domain.RegisteredUser{User: u, Password: hashedPassword})
	}

	if err := s.store.Save(ctx, store.KeyRegisteredUsers, registry); err != nil {
		return err
	}

	log.Printf("✅ Seeded %d mock accounts", len(registry))
	return nil
}

// seedCatalog seeds the shared student catalog when none exists yet
func (s *Seeder) seedCatalog(ctx context.Context) error {
	var courses []domain.Course
	found, err := s.store.LoadOrPurge(ctx, store.KeyAllCourses, &courses)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	courses = MockCatalog(time.Now())
	if err := s.store.Save(ctx, store.KeyAllCourses, courses); err != nil {
		return err
	}

	log.Printf("✅ Seeded %d catalog courses", len(courses))
	return nil
}
