// Package projectsettings reads the project's settings (name, languages,
// countries, currencies) through the service-level app client and caches the
// result in memory. Accessors degrade gracefully: on failure they return nil
// or empty values so the storefront can render with defaults.
package projectsettings

import (
	"context"
	"sync"

	"github.com/commercekit/go-storefront-session/apperrors"
	"github.com/commercekit/go-storefront-session/platform"
	"github.com/rs/zerolog"
)

// AppClientFactory builds the unauthenticated (service-level) client.
type AppClientFactory interface {
	CreateAppClient(ctx context.Context) (*platform.Client, error)
}

// Settings is the storefront-facing view of the project configuration.
type Settings struct {
	Name       string
	Languages  []string
	Countries  []string
	Currencies []string
}

type Service struct {
	factory AppClientFactory
	log     zerolog.Logger

	lock   sync.Mutex
	cached *platform.Project
}

func NewService(factory AppClientFactory, log zerolog.Logger) *Service {
	return &Service{factory: factory, log: log}
}

// Project returns the full project data, fetching it once and serving from
// cache afterwards. Failures are classified and invalidate the cache.
func (s *Service) Project(ctx context.Context) (*platform.Project, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.cached != nil {
		s.log.Debug().Msg("returning cached project data")
		return s.cached, nil
	}

	s.log.Debug().Msg("fetching project data")
	client, err := s.factory.CreateAppClient(ctx)
	if err != nil {
		return nil, apperrors.Classify(err)
	}

	project, err := client.Project(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch project data")
		s.cached = nil
		return nil, apperrors.Classify(err)
	}

	s.cached = project
	return project, nil
}

// Settings returns the project settings, or nil when they cannot be fetched.
func (s *Service) Settings(ctx context.Context) *Settings {
	project, err := s.Project(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to fetch project settings")
		return nil
	}

	name := project.Name
	if name == "" {
		name = "Unknown Project"
	}
	return &Settings{
		Name:       name,
		Languages:  project.Languages,
		Countries:  project.Countries,
		Currencies: project.Currencies,
	}
}

// Languages returns the project languages, empty on failure.
func (s *Service) Languages(ctx context.Context) []string {
	project, err := s.Project(ctx)
	if err != nil {
		return nil
	}
	return project.Languages
}

// Countries returns the project countries, empty on failure.
func (s *Service) Countries(ctx context.Context) []string {
	project, err := s.Project(ctx)
	if err != nil {
		return nil
	}
	return project.Countries
}

// ClearCache drops the cached project data; the next read refetches.
func (s *Service) ClearCache() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.cached = nil
	s.log.Debug().Msg("project data cache cleared")
}
