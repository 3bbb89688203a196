package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"doceasy-be/internal/dto"
	"doceasy-be/internal/entity"
	"doceasy-be/internal/pkg/logger"
	"doceasy-be/internal/repository/memory"
	"doceasy-be/internal/repository/specification"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/pkg/workspace"
	"doceasy-be/pkg/workspace/autosave"
	wstore "doceasy-be/pkg/workspace/store"

	"github.com/google/uuid"
)

type IWorkspaceService interface {
	OpenProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.WorkspaceStateResponse, error)
	GetState(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceStateResponse, error)
	Dispatch(ctx context.Context, userId uuid.UUID, req *dto.DispatchRequest) (*dto.WorkspaceStateResponse, error)
	Save(ctx context.Context, userId uuid.UUID) (*dto.SaveStateResponse, error)
	SaveProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.SaveStateResponse, error)
	Close(userId uuid.UUID)
}

type workspaceService struct {
	uowFactory unitofwork.RepositoryFactory
	registry   *memory.WorkspaceRepository
	logger     logger.ILogger

	mu         sync.Mutex
	schedulers map[uuid.UUID]*autosave.Scheduler
}

func NewWorkspaceService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.WorkspaceRepository,
	log logger.ILogger,
) IWorkspaceService {
	return &workspaceService{
		uowFactory: uowFactory,
		registry:   registry,
		logger:     log,
		schedulers: make(map[uuid.UUID]*autosave.Scheduler),
	}
}

// store returns the user's live store, wiring an autosave scheduler on
// first access so every session gets the debounce plus interval policy.
func (s *workspaceService) store(userId uuid.UUID) *wstore.Store {
	st := s.registry.GetOrCreate(userId.String())
	s.ensureScheduler(userId, st)
	return st
}

func (s *workspaceService) ensureScheduler(userId uuid.UUID, st *wstore.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.schedulers[userId]; ok {
		return
	}

	sched := autosave.New(
		func(ctx context.Context) error {
			return s.persist(ctx, userId, st)
		},
		func() bool {
			state := st.State()
			return state.HasUnsavedChanges && state.CurrentProject != nil
		},
		autosave.DefaultDebounce,
		autosave.DefaultInterval,
	)
	sched.Start(context.Background())
	s.schedulers[userId] = sched
}

// persist writes the full state snapshot and clears the dirty flag.
// Full-state overwrite makes concurrent duplicate saves harmless.
func (s *workspaceService) persist(ctx context.Context, userId uuid.UUID, st *wstore.Store) error {
	state := st.State()
	if state.CurrentProject == nil || !state.HasUnsavedChanges {
		return nil
	}

	projectId, err := uuid.Parse(state.CurrentProject.ID)
	if err != nil {
		return fmt.Errorf("invalid current project id: %w", err)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	snapshot := &entity.WorkspaceSnapshot{
		Id:        uuid.New(),
		ProjectId: projectId,
		UserId:    userId,
		State:     raw,
		SavedAt:   time.Now(),
		CreatedAt: time.Now(),
	}
	if err := uow.WorkspaceSnapshotRepository().Upsert(ctx, snapshot); err != nil {
		return err
	}

	st.Dispatch(workspace.MarkSaved{})
	return nil
}

func (s *workspaceService) OpenProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.WorkspaceStateResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	project, err := uow.ProjectRepository().FindOne(ctx,
		specification.ByID{ID: projectId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, errors.New("project not found")
	}

	st := s.store(userId)

	// A persisted snapshot restores the whole workspace view. Without one
	// the workspace is rebuilt from the project's documents.
	snapshot, err := uow.WorkspaceSnapshotRepository().FindByProjectId(ctx, projectId)
	if err != nil {
		return nil, err
	}
	if snapshot != nil {
		var state workspace.State
		if err := json.Unmarshal(snapshot.State, &state); err == nil {
			state.HasUnsavedChanges = false
			st = s.registry.Restore(userId.String(), state)
			s.replaceScheduler(userId, st)
			return stateResponse(st), nil
		}
		s.logger.Warn("WorkspaceService", "Discarding unreadable snapshot", map[string]interface{}{
			"project_id": projectId.String(),
		})
	}

	st.Dispatch(workspace.SetCurrentProject{Project: toWorkspaceProject(project)})

	documents, err := uow.DocumentRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	if len(documents) > 0 {
		wsDocs := make([]workspace.Document, 0, len(documents))
		for _, doc := range documents {
			wsDocs = append(wsDocs, toWorkspaceDocument(doc))
		}
		st.Dispatch(workspace.AddDocuments{Documents: wsDocs})
	}

	// Persisted chat history survives even without a snapshot
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByProjectID{ProjectID: projectId},
	)
	if err != nil {
		return nil, err
	}
	for _, msg := range messages {
		st.Dispatch(workspace.AddMessage{Message: toWorkspaceMessage(msg)})
	}

	// Opening a project is not an edit
	st.Dispatch(workspace.MarkSaved{})

	return stateResponse(st), nil
}

// replaceScheduler rebinds the autosave scheduler to a freshly restored
// store instance.
func (s *workspaceService) replaceScheduler(userId uuid.UUID, st *wstore.Store) {
	s.mu.Lock()
	if old, ok := s.schedulers[userId]; ok {
		old.Stop()
		delete(s.schedulers, userId)
	}
	s.mu.Unlock()
	s.ensureScheduler(userId, st)
}

func (s *workspaceService) GetState(ctx context.Context, userId uuid.UUID) (*dto.WorkspaceStateResponse, error) {
	return stateResponse(s.store(userId)), nil
}

func (s *workspaceService) Dispatch(ctx context.Context, userId uuid.UUID, req *dto.DispatchRequest) (*dto.WorkspaceStateResponse, error) {
	action, err := toAction(req)
	if err != nil {
		return nil, err
	}

	st := s.store(userId)
	st.Dispatch(action)

	if st.State().HasUnsavedChanges {
		s.mu.Lock()
		sched := s.schedulers[userId]
		s.mu.Unlock()
		if sched != nil {
			sched.Notify()
		}
	}

	return stateResponse(st), nil
}

func (s *workspaceService) Save(ctx context.Context, userId uuid.UUID) (*dto.SaveStateResponse, error) {
	st := s.store(userId)
	state := st.State()
	if state.CurrentProject == nil {
		return nil, errors.New("no project selected")
	}

	if err := s.persist(ctx, userId, st); err != nil {
		return nil, err
	}

	return &dto.SaveStateResponse{
		ProjectID: state.CurrentProject.ID,
		SavedAt:   time.Now(),
	}, nil
}

// SaveProject persists the workspace only when the named project is the
// one currently open, so a late autosave request cannot overwrite
// another project's snapshot.
func (s *workspaceService) SaveProject(ctx context.Context, userId uuid.UUID, projectId uuid.UUID) (*dto.SaveStateResponse, error) {
	st := s.store(userId)
	state := st.State()
	if state.CurrentProject == nil || state.CurrentProject.ID != projectId.String() {
		return nil, errors.New("project is not open")
	}
	return s.Save(ctx, userId)
}

// Close tears down the user's autosave scheduler and evicts the live
// store, flushing pending changes first.
func (s *workspaceService) Close(userId uuid.UUID) {
	s.mu.Lock()
	sched := s.schedulers[userId]
	delete(s.schedulers, userId)
	s.mu.Unlock()

	if sched != nil {
		sched.Flush(context.Background())
		sched.Stop()
	}
	s.registry.Delete(userId.String())
}

// toAction maps a wire-level dispatch request onto the closed action set.
func toAction(req *dto.DispatchRequest) (workspace.Action, error) {
	switch req.Type {
	case "SET_INITIAL_STATE":
		return workspace.SetInitialState{}, nil
	case "SET_CURRENT_PROJECT":
		if req.Project == nil {
			return nil, errors.New("project payload required")
		}
		return workspace.SetCurrentProject{Project: *req.Project}, nil
	case "ADD_DOCUMENTS":
		return workspace.AddDocuments{Documents: req.Documents}, nil
	case "SELECT_DOCUMENTS":
		return workspace.SelectDocuments{IDs: req.IDs}, nil
	case "ADD_MESSAGE":
		if req.Message == nil {
			return nil, errors.New("message payload required")
		}
		return workspace.AddMessage{Message: *req.Message}, nil
	case "CLEAR_MESSAGES":
		return workspace.ClearMessages{}, nil
	case "SET_MODE":
		return workspace.SetMode{Mode: req.Mode}, nil
	case "UPDATE_TABLE_DATA":
		return workspace.UpdateTableData{Columns: req.Columns}, nil
	case "UPDATE_COLUMN_RESULT":
		if req.Header == nil || req.Cell == nil {
			return nil, errors.New("header and cell payloads required")
		}
		return workspace.UpdateColumnResult{Header: *req.Header, Cell: *req.Cell}, nil
	case "UPDATE_COLUMN_INFO":
		return workspace.UpdateColumnInfo{
			OldName: req.OldName,
			NewName: req.NewName,
			Prompt:  req.Prompt,
		}, nil
	case "SET_PROCESSING_COLUMNS":
		return workspace.SetProcessingColumns{Names: req.Names}, nil
	case "UPDATE_DOCUMENT_STATUS":
		return workspace.UpdateDocumentStatus{ID: req.DocumentID, Status: req.Status}, nil
	case "SET_RECENT_PROJECTS":
		return workspace.SetRecentProjects{Projects: req.Projects}, nil
	case "MARK_SAVED":
		return workspace.MarkSaved{}, nil
	}
	return nil, fmt.Errorf("unknown action type %q", req.Type)
}

func stateResponse(st *wstore.Store) *dto.WorkspaceStateResponse {
	return &dto.WorkspaceStateResponse{
		State: st.State(),
		Epoch: st.Epoch(),
	}
}

func toWorkspaceProject(p *entity.Project) workspace.Project {
	wp := workspace.Project{
		ID:              p.Id.String(),
		Name:            p.Name,
		IsTemporary:     p.IsTemporary,
		RetentionPeriod: p.RetentionPeriod,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Description != nil {
		wp.Description = *p.Description
	}
	if p.CategoryId != nil {
		wp.CategoryID = p.CategoryId.String()
	}
	return wp
}

func toWorkspaceMessage(m *entity.ChatMessage) workspace.Message {
	ts := m.CreatedAt
	return workspace.Message{
		ID:        m.Id.String(),
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: &ts,
	}
}

func toWorkspaceDocument(d *entity.Document) workspace.Document {
	wd := workspace.Document{
		ID:        d.Id.String(),
		Filename:  d.Filename,
		ProjectID: d.ProjectId.String(),
		Status:    string(d.Status),
	}
	if d.ContentType != nil {
		wd.ContentType = *d.ContentType
	}
	if d.AddedColContext != nil {
		wd.AddedColContext = *d.AddedColContext
	}
	return wd
}
