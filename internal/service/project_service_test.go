package service

import (
	"context"
	"testing"
	"time"

	"doceasy-be/internal/dto"
	"doceasy-be/internal/entity"
	"doceasy-be/internal/repository/contract"
	"doceasy-be/internal/repository/specification"
	"doceasy-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubCategoryRepo answers FindOne from a canned category and records what
// it was asked. Unimplemented methods panic via the embedded interface.
type stubCategoryRepo struct {
	contract.CategoryRepository
	existing  *entity.Category
	created   *entity.Category
	findSpecs []specification.Specification
}

func (r *stubCategoryRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	r.findSpecs = specs
	return r.existing, nil
}

func (r *stubCategoryRepo) Create(ctx context.Context, c *entity.Category) error {
	r.created = c
	return nil
}

type stubProjectRepo struct {
	contract.ProjectRepository
	projects  []*entity.Project
	findSpecs []specification.Specification
}

func (r *stubProjectRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Project, error) {
	r.findSpecs = specs
	return r.projects, nil
}

type stubUnitOfWork struct {
	unitofwork.UnitOfWork
	categories *stubCategoryRepo
	projects   *stubProjectRepo
	documents  *stubDocumentRepo
}

func (u *stubUnitOfWork) CategoryRepository() contract.CategoryRepository { return u.categories }
func (u *stubUnitOfWork) ProjectRepository() contract.ProjectRepository   { return u.projects }
func (u *stubUnitOfWork) DocumentRepository() contract.DocumentRepository { return u.documents }

type stubFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *stubFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return f.uow }

func projectUpdatedAt(t time.Time) *entity.Project {
	return &entity.Project{
		Id:        uuid.New(),
		Name:      "p",
		CreatedAt: t.AddDate(0, -1, 0),
		UpdatedAt: &t,
	}
}

func TestGroupRecentBuckets(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	today := projectUpdatedAt(now.Add(-2 * time.Hour))
	thisWeek := projectUpdatedAt(now.AddDate(0, 0, -3))
	thisMonth := projectUpdatedAt(now.AddDate(0, 0, -20))

	res := groupRecent([]*entity.Project{today, thisWeek, thisMonth}, now)

	assert.Len(t, res.Today, 1)
	assert.Len(t, res.Last7Days, 1)
	assert.Len(t, res.Last30Days, 1)
	assert.Equal(t, today.Id, res.Today[0].Id)
	assert.Equal(t, thisWeek.Id, res.Last7Days[0].Id)
	assert.Equal(t, thisMonth.Id, res.Last30Days[0].Id)
}

func TestGroupRecentBucketsAreDisjoint(t *testing.T) {
	now := time.Date(2025, 6, 15, 0, 30, 0, 0, time.UTC)

	// Updated shortly before midnight: yesterday, not today
	p := projectUpdatedAt(now.Add(-1 * time.Hour))

	res := groupRecent([]*entity.Project{p}, now)

	assert.Empty(t, res.Today)
	assert.Len(t, res.Last7Days, 1)
}

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	userId := uuid.New()
	categories := &stubCategoryRepo{
		existing: &entity.Category{Id: uuid.New(), Name: "Finance", UserId: userId},
	}
	svc := NewProjectService(&stubFactory{uow: &stubUnitOfWork{categories: categories}}, nil)

	res, err := svc.CreateCategory(context.Background(), userId, &dto.CreateCategoryRequest{Name: "Finance"})

	assert.Error(t, err)
	assert.Nil(t, res)
	assert.Nil(t, categories.created)
}

func TestCreateCategoryChecksNamePerUser(t *testing.T) {
	userId := uuid.New()
	categories := &stubCategoryRepo{}
	svc := NewProjectService(&stubFactory{uow: &stubUnitOfWork{categories: categories}}, nil)

	res, err := svc.CreateCategory(context.Background(), userId, &dto.CreateCategoryRequest{Name: "Finance"})

	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, categories.created)
	assert.Equal(t, "Finance", categories.created.Name)

	// The duplicate lookup is scoped to the name and the owner.
	assert.Contains(t, categories.findSpecs, specification.ByName{Name: "Finance"})
	assert.Contains(t, categories.findSpecs, specification.UserOwnedBy{UserID: userId})
}

func TestGetByCategoryFiltersByCategoryAndOwner(t *testing.T) {
	userId := uuid.New()
	categoryId := uuid.New()
	p := &entity.Project{Id: uuid.New(), Name: "q3", CategoryId: &categoryId, CreatedAt: time.Now()}

	categories := &stubCategoryRepo{
		existing: &entity.Category{Id: categoryId, Name: "Finance", UserId: userId},
	}
	projects := &stubProjectRepo{projects: []*entity.Project{p}}
	svc := NewProjectService(&stubFactory{uow: &stubUnitOfWork{categories: categories, projects: projects}}, nil)

	res, err := svc.GetByCategory(context.Background(), userId, categoryId)

	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, p.Id, res[0].Id)
	assert.Contains(t, projects.findSpecs, specification.ByCategoryID{CategoryID: categoryId})
	assert.Contains(t, projects.findSpecs, specification.UserOwnedBy{UserID: userId})
}

func TestGetByCategoryRejectsUnknownCategory(t *testing.T) {
	svc := NewProjectService(&stubFactory{uow: &stubUnitOfWork{categories: &stubCategoryRepo{}}}, nil)

	res, err := svc.GetByCategory(context.Background(), uuid.New(), uuid.New())

	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestGroupRecentFallsBackToCreatedAt(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	p := &entity.Project{
		Id:        uuid.New(),
		Name:      "fresh",
		CreatedAt: now.Add(-1 * time.Hour),
	}

	res := groupRecent([]*entity.Project{p}, now)

	assert.Len(t, res.Today, 1)
}
