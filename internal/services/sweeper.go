package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/you/shopauth/domain"
)

// Sweeper deletes expired sessions on a fixed interval
type Sweeper struct {
	sessions domain.SessionService
	interval time.Duration
	audit    domain.AuditLogger
	log      logrus.FieldLogger
}

// NewSweeper creates a sweeper; a non-positive interval defaults to one hour
func NewSweeper(sessions domain.SessionService, interval time.Duration, audit domain.AuditLogger, log logrus.FieldLogger) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	if audit == nil {
		audit = domain.NopAuditLogger{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Sweeper{
		sessions: sessions,
		interval: interval,
		audit:    audit,
		log:      log.WithField("component", "sweeper"),
	}
}

// Run sweeps until ctx is cancelled
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.log.WithField("interval", s.interval.String()).Info("session sweeper started")
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session sweeper stopped")
			return
		case <-ticker.C:
			_, _ = s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep and reports how many sessions were deleted
func (s *Sweeper) SweepOnce(ctx context.Context) (int64, error) {
	n, err := s.sessions.Sweep(ctx)
	if err != nil {
		s.log.WithError(err).Error("session sweep failed")
		return 0, err
	}
	if n > 0 {
		s.log.WithField("deleted", n).Info("expired sessions swept")
	}
	s.audit.LogEvent(ctx, domain.NewAuditEvent(domain.SessionsSweptEvent, 0).
		WithMetadata("deleted", n))
	return n, nil
}
