package service

import (
	"context"
	"encoding/json"
	"io"

	"doceasy-be/internal/dto"
	"doceasy-be/internal/entity"
	"doceasy-be/internal/pkg/logger"
	"doceasy-be/internal/repository/specification"
	"doceasy-be/internal/repository/unitofwork"
	"doceasy-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// StatusNotifier pushes document status transitions to connected clients.
// Implemented by the WebSocket hub.
type StatusNotifier interface {
	PushDocumentStatus(userID uuid.UUID, documentID uuid.UUID, status string)
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub      *gochannel.GoChannel
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	objectStore *storage.ObjectStore
	notifier    StatusNotifier
	logger      logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	objectStore *storage.ObjectStore,
	notifier StatusNotifier,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:      pubSub,
		topicName:   topicName,
		uowFactory:  uowFactory,
		objectStore: objectStore,
		notifier:    notifier,
		logger:      log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishProcessDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // invalid payloads never become valid, drop them
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load document", map[string]interface{}{
			"document_id": payload.DocumentId.String(),
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if doc == nil {
		// Deleted before processing started
		msg.Ack()
		return
	}

	cs.setStatus(ctx, uow, doc, entity.DocumentStatusProcessing)

	if err := cs.process(ctx, doc); err != nil {
		cs.logger.Error("ConsumerService", "Document processing failed", map[string]interface{}{
			"document_id": doc.Id.String(),
			"error":       err.Error(),
		})
		cs.setStatus(ctx, uow, doc, entity.DocumentStatusFailed)
		msg.Ack() // failure is recorded on the document, no redelivery
		return
	}

	cs.setStatus(ctx, uow, doc, entity.DocumentStatusCompleted)
	msg.Ack()
}

// process verifies the stored object is readable. Content extraction and
// indexing happen in the external analysis backend once it pulls the file.
func (cs *consumerService) process(ctx context.Context, doc *entity.Document) error {
	r, err := cs.objectStore.Get(ctx, doc.StorageKey)
	if err != nil {
		return err
	}
	defer r.Close()

	_, err = io.Copy(io.Discard, r)
	return err
}

func (cs *consumerService) setStatus(ctx context.Context, uow unitofwork.UnitOfWork, doc *entity.Document, status entity.DocumentStatus) {
	if err := uow.DocumentRepository().UpdateStatus(ctx, doc.Id, status); err != nil {
		cs.logger.Error("ConsumerService", "Failed to update document status", map[string]interface{}{
			"document_id": doc.Id.String(),
			"status":      string(status),
			"error":       err.Error(),
		})
		return
	}
	doc.Status = status

	if cs.notifier != nil {
		cs.notifier.PushDocumentStatus(doc.UserId, doc.Id, string(status))
	}
}
