package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/chat"
)

// ConversationModel is the persistence model for support threads
type ConversationModel struct {
	TenantAggregateModel
	CustomerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID       *uuid.UUID `gorm:"type:uuid;index"`
	Subject       string     `gorm:"type:varchar(300);not null"`
	Status        string     `gorm:"type:varchar(10);not null;index"`
	AssignedAgent *uuid.UUID `gorm:"type:uuid;index"`
	LastMessageAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (ConversationModel) TableName() string {
	return "chat_conversations"
}

// ToDomain converts the persistence model to a domain Conversation
func (m *ConversationModel) ToDomain() *chat.Conversation {
	c := &chat.Conversation{
		CustomerID:    m.CustomerID,
		OrderID:       m.OrderID,
		Subject:       m.Subject,
		Status:        chat.ConversationStatus(m.Status),
		AssignedAgent: m.AssignedAgent,
		LastMessageAt: m.LastMessageAt,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// ConversationModelFromDomain creates a persistence model from a domain Conversation
func ConversationModelFromDomain(c *chat.Conversation) *ConversationModel {
	m := &ConversationModel{}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.CustomerID = c.CustomerID
	m.OrderID = c.OrderID
	m.Subject = c.Subject
	m.Status = string(c.Status)
	m.AssignedAgent = c.AssignedAgent
	m.LastMessageAt = c.LastMessageAt
	return m
}

// MessageModel is the persistence model for thread messages
type MessageModel struct {
	BaseModel
	TenantID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index"`
	SenderRole     string     `gorm:"type:varchar(10);not null"`
	SenderID       *uuid.UUID `gorm:"type:uuid"`
	Body           string     `gorm:"type:text;not null"`
	ReadAt         *time.Time
}

// TableName returns the table name for GORM
func (MessageModel) TableName() string {
	return "chat_messages"
}

// ToDomain converts the persistence model to a domain Message
func (m *MessageModel) ToDomain() *chat.Message {
	return &chat.Message{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		ConversationID: m.ConversationID,
		SenderRole:     chat.SenderRole(m.SenderRole),
		SenderID:       m.SenderID,
		Body:           m.Body,
		ReadAt:         m.ReadAt,
	}
}

// MessageModelFromDomain creates a persistence model from a domain Message
func MessageModelFromDomain(msg *chat.Message) *MessageModel {
	m := &MessageModel{}
	m.FromDomainBaseEntity(msg.BaseEntity)
	m.TenantID = msg.TenantID
	m.ConversationID = msg.ConversationID
	m.SenderRole = string(msg.SenderRole)
	m.SenderID = msg.SenderID
	m.Body = msg.Body
	m.ReadAt = msg.ReadAt
	return m
}
