package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"course-portal/internal/core/domain"

	"github.com/robfig/cron/v3"
)

// RefreshSpecOff disables the token refresher
const RefreshSpecOff = "off"

// Refresher is the part of SessionService the refresher drives
type Refresher interface {
	IsAuthenticated() bool
	RefreshAccessToken(ctx context.Context) (string, error)
}

// RefreshService refreshes the access token on a cron schedule while a
// session is authenticated
type RefreshService struct {
	session Refresher
	spec    string
	cron    *cron.Cron
}

// NewRefreshService creates a refresher for spec. An empty spec or "off"
// yields a refresher whose Start does nothing.
func NewRefreshService(session Refresher, spec string) *RefreshService {
	return &RefreshService{
		session: session,
		spec:    strings.TrimSpace(spec),
	}
}

// Enabled reports whether a schedule is configured
func (s *RefreshService) Enabled() bool {
	return s.spec != "" && !strings.EqualFold(s.spec, RefreshSpecOff)
}

// Start schedules the refresh job
func (s *RefreshService) Start() error {
	if !s.Enabled() {
		log.Println("⚠️ Token refresher disabled")
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(s.spec, s.Tick); err != nil {
		return fmt.Errorf("invalid TOKEN_REFRESH_SPEC %q: %w", s.spec, err)
	}
	c.Start()
	s.cron = c

	log.Printf("🚀 Token refresher started [%s]", s.spec)
	return nil
}

// Stop waits for a running job and stops the schedule
func (s *RefreshService) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
	log.Println("🛑 Token refresher stopped")
}

// Tick refreshes the token once. Unauthenticated sessions are skipped.
func (s *RefreshService) Tick() {
	if !s.session.IsAuthenticated() {
		return
	}

	if _, err := s.session.RefreshAccessToken(context.Background()); err != nil {
		if errors.Is(err, domain.ErrNoRefreshToken) || errors.Is(err, domain.ErrNotAuthenticated) {
			log.Printf("⚠️ Token refresh ended the session: %v", err)
			return
		}
		log.Printf("❌ Token refresh failed: %v", err)
	}
}
