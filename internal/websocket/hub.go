package websocket

import (
	"context"
	"encoding/json"

	"sync"

	"doceasy-be/internal/dto"
	"doceasy-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Push message types sent to clients.
const (
	PushTypeDocumentStatus  = "document_status"
	PushTypeUploadProgress  = "upload_progress"
	PushTypeProjectExpiring = "project_expiring"
)

const clusterChannel = "workspace_events"

// Hub fans workspace push messages out to connected clients. A Redis
// channel mirrors every push so clients connected to other instances
// receive it too.
type Hub struct {
	// UserID -> connections (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb    *redis.Client
	logger logger.ILogger

	// Identifies this process on the cluster channel so it can skip
	// its own mirrored messages.
	instanceID string
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
		instanceID: uuid.NewString(),
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// PushDocumentStatus implements service.StatusNotifier.
func (h *Hub) PushDocumentStatus(userID uuid.UUID, documentID uuid.UUID, status string) {
	h.push(userID, PushTypeDocumentStatus, map[string]interface{}{
		"document_id": documentID.String(),
		"status":      status,
	})
}

// PushUploadProgress streams per-file progress to the uploading user.
func (h *Hub) PushUploadProgress(userID uuid.UUID, progress dto.UploadProgress) {
	h.push(userID, PushTypeUploadProgress, progress)
}

// PushProjectExpiring warns the owner that a temporary project is close
// to its retention deadline.
func (h *Hub) PushProjectExpiring(userID uuid.UUID, payload map[string]interface{}) {
	h.push(userID, PushTypeProjectExpiring, payload)
}

func (h *Hub) push(userID uuid.UUID, msgType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": msgType,
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal push message", map[string]interface{}{"error": err.Error()})
		return
	}

	h.sendLocal(userID, data)

	// Mirror to other instances
	if h.rdb != nil {
		envelope, _ := json.Marshal(map[string]interface{}{
			"origin":         h.instanceID,
			"target_user_id": userID.String(),
			"message":        json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), clusterChannel, envelope)
	}
}

func (h *Hub) sendLocal(userID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := append([]*Client{}, h.clients[userID]...)
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": userID})
			h.unregister <- client
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload struct {
			Origin       string          `json:"origin"`
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Unreadable cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}

		uid, err := uuid.Parse(payload.TargetUserID)
		if err != nil {
			continue
		}

		h.sendLocal(uid, payload.Message)
	}
}
