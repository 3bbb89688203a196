package service

import (
	"context"
	"fmt"
	"time"

	"doceasy-be/internal/client/ragclient"
	"doceasy-be/internal/dto"
	"doceasy-be/internal/entity"
	"doceasy-be/internal/pkg/logger"
	"doceasy-be/internal/repository/memory"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/pkg/workspace"

	"github.com/google/uuid"
)

type IAnalysisService interface {
	TableSearch(ctx context.Context, userId uuid.UUID, req *dto.TableSearchRequest) (*dto.TableSearchResponse, error)
	Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

type analysisService struct {
	uowFactory unitofwork.RepositoryFactory
	ragClient  ragclient.IRagClient
	registry   *memory.WorkspaceRepository
	logger     logger.ILogger
}

func NewAnalysisService(
	uowFactory unitofwork.RepositoryFactory,
	ragClient ragclient.IRagClient,
	registry *memory.WorkspaceRepository,
	log logger.ILogger,
) IAnalysisService {
	return &analysisService{
		uowFactory: uowFactory,
		ragClient:  ragClient,
		registry:   registry,
		logger:     log,
	}
}

func (s *analysisService) TableSearch(ctx context.Context, userId uuid.UUID, req *dto.TableSearchRequest) (*dto.TableSearchResponse, error) {
	st := s.registry.GetOrCreate(userId.String())

	// The epoch taken before the backend call guards the merge: if the
	// user switches projects while the search runs, the stale result is
	// dropped instead of corrupting the new workspace.
	epoch := st.Epoch()

	if req.ColumnName != "" {
		st.DispatchAt(epoch, workspace.SetProcessingColumns{Names: []string{req.ColumnName}})
	}

	prompts := map[string]string{}
	if req.ColumnName != "" {
		prompts[req.ColumnName] = req.Prompt
	} else {
		prompts[req.Prompt] = req.Prompt
	}

	res, err := s.ragClient.TableSearch(ctx, &ragclient.TableSearchRequest{
		ProjectID:   req.ProjectId,
		DocumentIDs: req.DocumentIds,
		Prompts:     prompts,
	})

	st.DispatchAt(epoch, workspace.SetProcessingColumns{Names: []string{}})

	if err != nil {
		s.logger.Error("AnalysisService", "Table search failed", map[string]interface{}{
			"project_id": req.ProjectId,
			"error":      err.Error(),
		})
		s.appendAssistantMessage(ctx, userId, req.ProjectId, st, epoch,
			fmt.Sprintf("Table analysis failed: %v", err))
		return &dto.TableSearchResponse{Columns: []workspace.TableColumn{}}, nil
	}

	if _, applied := st.DispatchAt(epoch, workspace.UpdateTableData{Columns: res.Columns}); !applied {
		s.logger.Info("AnalysisService", "Dropped stale table search result", map[string]interface{}{
			"project_id": req.ProjectId,
		})
	}

	return &dto.TableSearchResponse{Columns: res.Columns}, nil
}

func (s *analysisService) Chat(ctx context.Context, userId uuid.UUID, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	st := s.registry.GetOrCreate(userId.String())
	epoch := st.Epoch()

	s.appendMessage(ctx, userId, req.ProjectId, st, epoch, workspace.Message{
		Role:    entity.ChatRoleUser,
		Content: req.Question,
	})

	res, err := s.ragClient.Chat(ctx, &ragclient.ChatRequest{
		ProjectID:   req.ProjectId,
		DocumentIDs: req.DocumentIds,
		Question:    req.Question,
	})
	if err != nil {
		s.logger.Error("AnalysisService", "Chat request failed", map[string]interface{}{
			"project_id": req.ProjectId,
			"error":      err.Error(),
		})
		answer := fmt.Sprintf("Sorry, I couldn't process that question: %v", err)
		s.appendAssistantMessage(ctx, userId, req.ProjectId, st, epoch, answer)
		return &dto.ChatResponse{Answer: answer}, nil
	}

	s.appendAssistantMessage(ctx, userId, req.ProjectId, st, epoch, res.Answer)

	return &dto.ChatResponse{Answer: res.Answer}, nil
}

func (s *analysisService) appendAssistantMessage(ctx context.Context, userId uuid.UUID, projectId string, st storeDispatcher, epoch uint64, content string) {
	s.appendMessage(ctx, userId, projectId, st, epoch, workspace.Message{
		Role:    entity.ChatRoleAssistant,
		Content: content,
	})
}

// storeDispatcher is the slice of the workspace store the chat flow needs.
type storeDispatcher interface {
	DispatchAt(epoch uint64, a workspace.Action) (workspace.State, bool)
}

// appendMessage writes the chat entry to the project log and mirrors it
// into the live workspace when the epoch still matches.
func (s *analysisService) appendMessage(ctx context.Context, userId uuid.UUID, projectId string, st storeDispatcher, epoch uint64, msg workspace.Message) {
	now := time.Now()
	msg.ID = uuid.New().String()
	msg.Timestamp = &now

	st.DispatchAt(epoch, workspace.AddMessage{Message: msg})

	pid, err := uuid.Parse(projectId)
	if err != nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	record := &entity.ChatMessage{
		Id:        uuid.MustParse(msg.ID),
		ProjectId: pid,
		UserId:    userId,
		Role:      msg.Role,
		Content:   msg.Content,
		CreatedAt: now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, record); err != nil {
		s.logger.Warn("AnalysisService", "Failed to persist chat message", map[string]interface{}{
			"project_id": projectId,
			"error":      err.Error(),
		})
	}
}
