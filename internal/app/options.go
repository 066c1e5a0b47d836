package service

import (
	"time"

	"github.com/kaspa-ecosystem/discovery/internal/domain/discovery"
	"github.com/kaspa-ecosystem/discovery/internal/domain/interaction"
	"github.com/kaspa-ecosystem/discovery/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSupplier replaces the configured project source.
func WithSupplier(sup discovery.Supplier) Option {
	return func(s *Service) {
		if sup != nil {
			s.supplierOverride = sup
		}
	}
}

// WithPersistence replaces the configured persistence backend.
func WithPersistence(p interaction.Persistence) Option {
	return func(s *Service) {
		if p != nil {
			s.persistOverride = p
		}
	}
}

// WithClock sets the time source of every component.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
