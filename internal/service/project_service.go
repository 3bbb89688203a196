package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doceasy-be/internal/dto"
	"doceasy-be/internal/entity"
	"doceasy-be/internal/repository/specification"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/pkg/events"
	pktNats "doceasy-be/pkg/nats"

	"github.com/google/uuid"
)

type IProjectService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProjectSummary, error)
	Recent(ctx context.Context, userId uuid.UUID) (*dto.RecentProjectsResponse, error)
	GetByCategory(ctx context.Context, userId uuid.UUID, categoryId uuid.UUID) ([]dto.ProjectSummary, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.UpdateProjectResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error

	CreateCategory(ctx context.Context, userId uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CreateCategoryResponse, error)
	GetCategories(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryResponse, error)
}

type projectService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
}

func NewProjectService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher) IProjectService {
	return &projectService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
	}
}

func (s *projectService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProjectRequest) (*dto.CreateProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	retention := req.RetentionPeriod
	if !req.IsTemporary {
		retention = entity.RetentionPermanent
	}

	project := entity.Project{
		Id:              uuid.New(),
		Name:            req.Name,
		Description:     req.Description,
		IsTemporary:     req.IsTemporary,
		RetentionPeriod: retention,
		UserId:          userId,
		CreatedAt:       time.Now(),
	}

	if err := uow.ProjectRepository().Create(ctx, &project); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeProjectCreated, map[string]interface{}{
			"project_id": project.Id,
			"user_id":    userId,
			"name":       project.Name,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("Warn: failed to publish project created event: %v\n", err)
		}
	}

	return &dto.CreateProjectResponse{
		Id:              project.Id,
		Name:            project.Name,
		IsTemporary:     project.IsTemporary,
		RetentionPeriod: project.RetentionPeriod,
		CreatedAt:       project.CreatedAt,
	}, nil
}

func (s *projectService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProjectSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	summary := toProjectSummary(project)
	return &summary, nil
}

func (s *projectService) Recent(ctx context.Context, userId uuid.UUID) (*dto.RecentProjectsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cutoff := time.Now().AddDate(0, 0, -30)
	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.UpdatedSince{Since: cutoff},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := groupRecent(projects, time.Now())
	return &res, nil
}

// groupRecent buckets projects by last activity: same calendar day,
// trailing 7 days, trailing 30 days. Buckets are disjoint.
func groupRecent(projects []*entity.Project, now time.Time) dto.RecentProjectsResponse {
	res := dto.RecentProjectsResponse{
		Today:      []dto.ProjectSummary{},
		Last7Days:  []dto.ProjectSummary{},
		Last30Days: []dto.ProjectSummary{},
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week := now.AddDate(0, 0, -7)

	for _, p := range projects {
		activity := p.CreatedAt
		if p.UpdatedAt != nil {
			activity = *p.UpdatedAt
		}

		summary := toProjectSummary(p)
		switch {
		case !activity.Before(startOfDay):
			res.Today = append(res.Today, summary)
		case activity.After(week):
			res.Last7Days = append(res.Last7Days, summary)
		default:
			res.Last30Days = append(res.Last30Days, summary)
		}
	}

	return res
}

func (s *projectService) GetByCategory(ctx context.Context, userId uuid.UUID, categoryId uuid.UUID) ([]dto.ProjectSummary, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	category, err := uow.CategoryRepository().FindOne(ctx,
		specification.ByID{ID: categoryId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, errors.New("category not found")
	}

	projects, err := uow.ProjectRepository().FindAll(ctx,
		specification.ByCategoryID{CategoryID: categoryId},
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]dto.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		result = append(result, toProjectSummary(p))
	}
	return result, nil
}

func toProjectSummary(p *entity.Project) dto.ProjectSummary {
	return dto.ProjectSummary{
		Id:          p.Id,
		Name:        p.Name,
		IsTemporary: p.IsTemporary,
		CategoryId:  p.CategoryId,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (s *projectService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProjectRequest) (*dto.UpdateProjectResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.CategoryId != nil {
		category, err := uow.CategoryRepository().FindOne(ctx,
			specification.ByID{ID: *req.CategoryId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, errors.New("category not found")
		}
		project.CategoryId = req.CategoryId
		// Assigning a category makes the project permanent
		project.IsTemporary = false
		project.RetentionPeriod = entity.RetentionPermanent
	}

	now := time.Now()
	project.UpdatedAt = &now

	if err := uow.ProjectRepository().Update(ctx, project); err != nil {
		return nil, err
	}

	return &dto.UpdateProjectResponse{Id: project.Id}, nil
}

func (s *projectService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if project == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	documents, err := uow.DocumentRepository().FindAll(ctx, specification.ByProjectID{ProjectID: id})
	if err != nil {
		return err
	}
	for _, doc := range documents {
		if err := uow.DocumentRepository().Delete(ctx, doc.Id); err != nil {
			return err
		}
	}

	if err := uow.ChatMessageRepository().DeleteByProjectId(ctx, id); err != nil {
		return err
	}

	if err := uow.WorkspaceSnapshotRepository().DeleteByProjectId(ctx, id); err != nil {
		return err
	}

	if err := uow.ProjectRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.New(events.TypeProjectDeleted, map[string]interface{}{
			"project_id": id,
			"user_id":    userId,
		})
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("Warn: failed to publish project deleted event: %v\n", err)
		}
	}

	return nil
}

func (s *projectService) CreateCategory(ctx context.Context, userId uuid.UUID, req *dto.CreateCategoryRequest) (*dto.CreateCategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.CategoryRepository().FindOne(ctx,
		specification.ByName{Name: req.Name},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errors.New("category already exists")
	}

	category := entity.Category{
		Id:        uuid.New(),
		Name:      req.Name,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.CategoryRepository().Create(ctx, &category); err != nil {
		return nil, err
	}

	return &dto.CreateCategoryResponse{Id: category.Id}, nil
}

func (s *projectService) GetCategories(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	categories, err := uow.CategoryRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, &dto.CategoryResponse{
			Id:   c.Id,
			Name: c.Name,
		})
	}
	return result, nil
}
