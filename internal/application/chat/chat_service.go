package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/chat"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// OpenConversationRequest carries input for opening a support thread
type OpenConversationRequest struct {
	OrderID *uuid.UUID `json:"order_id,omitempty"`
	Subject string     `json:"subject" binding:"required"`
	Body    string     `json:"body"`
}

// PostMessageRequest carries a new message body
type PostMessageRequest struct {
	Body string `json:"body" binding:"required"`
}

// ConversationResponse is the thread representation returned to callers
type ConversationResponse struct {
	ID            uuid.UUID  `json:"id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	OrderID       *uuid.UUID `json:"order_id,omitempty"`
	Subject       string     `json:"subject"`
	Status        string     `json:"status"`
	AssignedAgent *uuid.UUID `json:"assigned_agent,omitempty"`
	LastMessageAt *time.Time `json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// MessageResponse is a single thread entry
type MessageResponse struct {
	ID         uuid.UUID  `json:"id"`
	SenderRole string     `json:"sender_role"`
	SenderID   *uuid.UUID `json:"sender_id,omitempty"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toConversationResponse(c *chat.Conversation) *ConversationResponse {
	return &ConversationResponse{
		ID:            c.ID,
		CustomerID:    c.CustomerID,
		OrderID:       c.OrderID,
		Subject:       c.Subject,
		Status:        string(c.Status),
		AssignedAgent: c.AssignedAgent,
		LastMessageAt: c.LastMessageAt,
		CreatedAt:     c.CreatedAt,
	}
}

func toMessageResponse(m *chat.Message) *MessageResponse {
	return &MessageResponse{
		ID:         m.ID,
		SenderRole: string(m.SenderRole),
		SenderID:   m.SenderID,
		Body:       m.Body,
		CreatedAt:  m.CreatedAt,
	}
}

// ChatService handles customer support threads
type ChatService struct {
	convRepo chat.ConversationRepository
	clock    shared.Clock
	logger   *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(convRepo chat.ConversationRepository, clock shared.Clock, logger *zap.Logger) *ChatService {
	return &ChatService{convRepo: convRepo, clock: clock, logger: logger}
}

// Open starts a support thread, optionally seeding it with a first message
func (s *ChatService) Open(ctx context.Context, tenantID, customerID uuid.UUID, req OpenConversationRequest) (*ConversationResponse, error) {
	conv, err := chat.NewConversation(tenantID, customerID, req.Subject)
	if err != nil {
		return nil, err
	}
	conv.OrderID = req.OrderID

	if err := s.convRepo.Create(ctx, conv); err != nil {
		return nil, err
	}

	if req.Body != "" {
		msg, err := conv.Post(chat.SenderCustomer, &customerID, req.Body, s.clock.Now())
		if err != nil {
			return nil, err
		}
		if err := s.convRepo.AppendMessage(ctx, msg); err != nil {
			return nil, err
		}
		if err := s.convRepo.Save(ctx, conv); err != nil {
			return nil, err
		}
	}
	return toConversationResponse(conv), nil
}

// Post appends a message to an open thread
func (s *ChatService) Post(ctx context.Context, tenantID, conversationID uuid.UUID, role chat.SenderRole, senderID *uuid.UUID, req PostMessageRequest) (*MessageResponse, error) {
	conv, err := s.convRepo.FindByID(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}

	msg, err := conv.Post(role, senderID, req.Body, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.convRepo.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	if err := s.convRepo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return toMessageResponse(msg), nil
}

// Close ends a thread
func (s *ChatService) Close(ctx context.Context, tenantID, conversationID uuid.UUID) (*ConversationResponse, error) {
	conv, err := s.convRepo.FindByID(ctx, tenantID, conversationID)
	if err != nil {
		return nil, err
	}
	conv.Close()
	if err := s.convRepo.Save(ctx, conv); err != nil {
		return nil, err
	}
	return toConversationResponse(conv), nil
}

// ListByCustomer returns a customer's threads
func (s *ChatService) ListByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*ConversationResponse, int64, error) {
	convs, total, err := s.convRepo.FindByCustomer(ctx, tenantID, customerID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*ConversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, toConversationResponse(c))
	}
	return out, total, nil
}

// Messages returns a thread's messages
func (s *ChatService) Messages(ctx context.Context, tenantID, conversationID uuid.UUID, filter shared.Filter) ([]*MessageResponse, int64, error) {
	if _, err := s.convRepo.FindByID(ctx, tenantID, conversationID); err != nil {
		return nil, 0, err
	}
	msgs, total, err := s.convRepo.FindMessages(ctx, tenantID, conversationID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out, total, nil
}
