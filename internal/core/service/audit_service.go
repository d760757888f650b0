package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/anik/storefront-api/internal/core/domain"
	"github.com/anik/storefront-api/internal/core/ports"
)

type auditService struct {
	repo ports.AuthEventRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that logs and persists auth events.
func NewAuditService(repo ports.AuthEventRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process writes one event to the audit trail.
func (s *auditService) Process(ctx context.Context, e domain.AuthEvent) error {
	evt := s.log.Info()
	if e.Type == domain.AuthEventLoginFailed {
		evt = s.log.Warn()
	}
	evt.Str("event", string(e.Type)).
		Str("subject_id", e.SubjectID).
		Time("occurred_at", e.OccurredAt).
		Msg("auth event")

	if err := s.repo.InsertEvent(ctx, &e); err != nil {
		return fmt.Errorf("process auth event: %w", err)
	}
	return nil
}
