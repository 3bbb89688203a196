package service

import (
	"context"
	"time"

	"doceasy-be/internal/entity"
	"doceasy-be/internal/pkg/logger"
	"doceasy-be/internal/pkg/mailer"
	"doceasy-be/internal/repository/specification"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/pkg/events"
	pktNats "doceasy-be/pkg/nats"

	"github.com/google/uuid"
)

// SweepInterval is how often the retention sweep runs.
const SweepInterval = 1 * time.Hour

// NoticeWindow is how far before the deadline an expiry notice goes out.
const NoticeWindow = 24 * time.Hour

type IRetentionService interface {
	Start(ctx context.Context)
	SweepOnce(ctx context.Context) error
}

type retentionService struct {
	uowFactory     unitofwork.RepositoryFactory
	projectService IProjectService
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger

	notified map[uuid.UUID]bool
}

func NewRetentionService(
	uowFactory unitofwork.RepositoryFactory,
	projectService IProjectService,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IRetentionService {
	return &retentionService{
		uowFactory:     uowFactory,
		projectService: projectService,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		logger:         log,
		notified:       make(map[uuid.UUID]bool),
	}
}

func (s *retentionService) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.SweepOnce(ctx); err != nil {
					s.logger.Error("RetentionService", "Sweep failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}
	}()
	s.logger.Info("RetentionService", "Retention sweep started", map[string]interface{}{
		"interval": SweepInterval.String(),
	})
}

func (s *retentionService) SweepOnce(ctx context.Context) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	projects, err := uow.ProjectRepository().FindAll(ctx, specification.TemporaryOnly{})
	if err != nil {
		return err
	}

	now := time.Now()
	for _, project := range projects {
		deadline, ok := project.RetentionDeadline()
		if !ok {
			continue
		}

		if now.After(deadline) {
			s.expire(ctx, project)
			continue
		}

		if deadline.Sub(now) <= NoticeWindow && !s.notified[project.Id] {
			s.notify(ctx, uow, project, deadline)
		}
	}

	return nil
}

func (s *retentionService) expire(ctx context.Context, project *entity.Project) {
	if err := s.projectService.Delete(ctx, project.UserId, project.Id); err != nil {
		s.logger.Error("RetentionService", "Failed to delete expired project", map[string]interface{}{
			"project_id": project.Id.String(),
			"error":      err.Error(),
		})
		return
	}

	delete(s.notified, project.Id)
	s.logger.Info("RetentionService", "Deleted expired project", map[string]interface{}{
		"project_id": project.Id.String(),
		"name":       project.Name,
	})
}

func (s *retentionService) notify(ctx context.Context, uow unitofwork.UnitOfWork, project *entity.Project, deadline time.Time) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: project.UserId})
	if err != nil || user == nil {
		return
	}

	if err := s.emailService.SendRetentionNotice(user.Email, project.Name, deadline); err != nil {
		s.logger.Warn("RetentionService", "Failed to send expiry notice", map[string]interface{}{
			"project_id": project.Id.String(),
			"error":      err.Error(),
		})
		return
	}

	s.notified[project.Id] = true

	if s.eventPublisher != nil {
		evt := events.New(events.TypeProjectExpiring, map[string]interface{}{
			"project_id": project.Id,
			"user_id":    project.UserId,
			"deadline":   deadline,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("RetentionService", "Failed to publish expiry event", map[string]interface{}{"error": err.Error()})
		}
	}
}
