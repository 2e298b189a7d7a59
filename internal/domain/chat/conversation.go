package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// SenderRole identifies which side of a conversation sent a message
type SenderRole string

const (
	SenderCustomer SenderRole = "customer"
	SenderAgent    SenderRole = "agent"
	SenderSystem   SenderRole = "system"
)

// ConversationStatus is the support-conversation lifecycle
type ConversationStatus string

const (
	ConversationOpen   ConversationStatus = "open"
	ConversationClosed ConversationStatus = "closed"
)

// Conversation is a customer support thread, optionally tied to an order
type Conversation struct {
	shared.TenantAggregateRoot
	CustomerID    uuid.UUID
	OrderID       *uuid.UUID
	Subject       string
	Status        ConversationStatus
	AssignedAgent *uuid.UUID
	LastMessageAt *time.Time
}

// NewConversation opens a support thread
func NewConversation(tenantID, customerID uuid.UUID, subject string) (*Conversation, error) {
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Conversation subject cannot be empty")
	}
	return &Conversation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Subject:             subject,
		Status:              ConversationOpen,
	}, nil
}

// Close ends the thread; closed threads accept no further messages
func (c *Conversation) Close() {
	c.Status = ConversationClosed
	c.UpdatedAt = time.Now()
}

// Message is a single entry in a conversation
type Message struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	ConversationID uuid.UUID
	SenderRole     SenderRole
	SenderID       *uuid.UUID
	Body           string
	ReadAt         *time.Time
}

// Post appends a message to an open conversation
func (c *Conversation) Post(role SenderRole, senderID *uuid.UUID, body string, now time.Time) (*Message, error) {
	if c.Status == ConversationClosed {
		return nil, shared.NewDomainError("CONVERSATION_CLOSED", "Cannot post to a closed conversation")
	}
	if body == "" {
		return nil, shared.NewDomainError("EMPTY_MESSAGE", "Message body cannot be empty")
	}
	c.LastMessageAt = &now
	c.UpdatedAt = now
	return &Message{
		BaseEntity:     shared.NewBaseEntity(),
		TenantID:       c.TenantID,
		ConversationID: c.ID,
		SenderRole:     role,
		SenderID:       senderID,
		Body:           body,
	}, nil
}

// ConversationRepository persists support threads and their messages
type ConversationRepository interface {
	Create(ctx context.Context, c *Conversation) error
	Save(ctx context.Context, c *Conversation) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Conversation, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*Conversation, int64, error)
	AppendMessage(ctx context.Context, m *Message) error
	FindMessages(ctx context.Context, tenantID, conversationID uuid.UUID, filter shared.Filter) ([]*Message, int64, error)
}
