package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/momtazchem/backend/internal/domain/chat"
	"github.com/momtazchem/backend/internal/domain/shared"
	"github.com/momtazchem/backend/internal/infrastructure/persistence/models"
)

// GormConversationRepository implements chat.ConversationRepository using GORM
type GormConversationRepository struct {
	db *gorm.DB
}

// NewGormConversationRepository creates a new GormConversationRepository
func NewGormConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// Create inserts a conversation
func (r *GormConversationRepository) Create(ctx context.Context, c *chat.Conversation) error {
	return r.db.WithContext(ctx).Create(models.ConversationModelFromDomain(c)).Error
}

// Save updates a conversation
func (r *GormConversationRepository) Save(ctx context.Context, c *chat.Conversation) error {
	m := models.ConversationModelFromDomain(c)
	return r.db.WithContext(ctx).Model(&models.ConversationModel{}).
		Where("id = ?", m.ID).
		Select("*").Omit("id", "created_at").
		Updates(m).Error
}

// FindByID finds a conversation within a tenant
func (r *GormConversationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*chat.Conversation, error) {
	var m models.ConversationModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByCustomer lists a customer's conversations, most recent activity first
func (r *GormConversationRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]*chat.Conversation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ConversationModel{}).
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.ConversationModel
	if err := query.
		Order("last_message_at DESC NULLS LAST, created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*chat.Conversation, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

// AppendMessage inserts a message row
func (r *GormConversationRepository) AppendMessage(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Create(models.MessageModelFromDomain(m)).Error
}

// FindMessages lists a conversation's messages, oldest first
func (r *GormConversationRepository) FindMessages(ctx context.Context, tenantID, conversationID uuid.UUID, filter shared.Filter) ([]*chat.Message, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.MessageModel{}).
		Where("tenant_id = ? AND conversation_id = ?", tenantID, conversationID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.MessageModel
	if err := query.
		Order("created_at ASC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*chat.Message, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToDomain())
	}
	return out, total, nil
}

var _ chat.ConversationRepository = (*GormConversationRepository)(nil)
