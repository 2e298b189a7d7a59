package crm

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/momtazchem/backend/internal/domain/crm"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// CreateContactRequest carries input for creating a CRM contact
type CreateContactRequest struct {
	CustomerID  *uuid.UUID `json:"customer_id,omitempty"`
	CompanyName string     `json:"company_name"`
	ContactName string     `json:"contact_name"`
	Email       string     `json:"email" binding:"required"`
	Phone       string     `json:"phone"`
	Country     string     `json:"country"`
	City        string     `json:"city"`
	Notes       string     `json:"notes"`
}

// ContactResponse is the CRM contact representation returned to callers
type ContactResponse struct {
	ID             uuid.UUID       `json:"id"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	CompanyName    string          `json:"company_name"`
	ContactName    string          `json:"contact_name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Country        string          `json:"country"`
	City           string          `json:"city"`
	Stage          string          `json:"stage"`
	TotalOrders    int             `json:"total_orders"`
	TotalSpent     decimal.Decimal `json:"total_spent"`
	LastOrderAt    *time.Time      `json:"last_order_at,omitempty"`
	AssignedUserID *uuid.UUID      `json:"assigned_user_id,omitempty"`
	Notes          string          `json:"notes"`
}

func toContactResponse(c *crm.Contact) *ContactResponse {
	return &ContactResponse{
		ID:             c.ID,
		CustomerID:     c.CustomerID,
		CompanyName:    c.CompanyName,
		ContactName:    c.ContactName,
		Email:          c.Email,
		Phone:          c.Phone,
		Country:        c.Country,
		City:           c.City,
		Stage:          string(c.Stage),
		TotalOrders:    c.TotalOrders,
		TotalSpent:     c.TotalSpent,
		LastOrderAt:    c.LastOrderAt,
		AssignedUserID: c.AssignedUserID,
		Notes:          c.Notes,
	}
}

// ContactService handles CRM contact operations
type ContactService struct {
	contactRepo crm.ContactRepository
	logger      *zap.Logger
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo crm.ContactRepository, logger *zap.Logger) *ContactService {
	return &ContactService{contactRepo: contactRepo, logger: logger}
}

// Create creates a new lead-stage contact
func (s *ContactService) Create(ctx context.Context, tenantID uuid.UUID, req CreateContactRequest) (*ContactResponse, error) {
	existing, err := s.contactRepo.FindByEmail(ctx, tenantID, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Contact with this email already exists")
	}

	contact, err := crm.NewContact(tenantID, req.CompanyName, req.ContactName, req.Email)
	if err != nil {
		return nil, err
	}
	contact.CustomerID = req.CustomerID
	contact.Phone = req.Phone
	contact.Country = req.Country
	contact.City = req.City
	contact.Notes = req.Notes

	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// Get returns a contact by id
func (s *ContactService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// List returns a tenant's contacts
func (s *ContactService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*ContactResponse, int64, error) {
	contacts, total, err := s.contactRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, toContactResponse(c))
	}
	return out, total, nil
}

// Qualify moves a lead forward in the funnel
func (s *ContactService) Qualify(ctx context.Context, tenantID, id uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := contact.Qualify(); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// Assign hands the contact to a sales user
func (s *ContactService) Assign(ctx context.Context, tenantID, id, userID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	contact.AssignedUserID = &userID
	contact.IncrementVersion()
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}
	return toContactResponse(contact), nil
}

// RecordOrderActivity feeds a confirmed order into the contact's purchase
// aggregates. Customers without a CRM record are skipped quietly; not every
// shop customer has been promoted into the CRM.
func (s *ContactService) RecordOrderActivity(ctx context.Context, tenantID, customerID uuid.UUID, amount decimal.Decimal, at time.Time) error {
	contact, err := s.contactRepo.FindByCustomerID(ctx, tenantID, customerID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	contact.RecordOrder(amount, at)
	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return err
	}
	s.logger.Debug("recorded order activity on contact",
		zap.String("contact_id", contact.ID.String()),
		zap.Int("total_orders", contact.TotalOrders))
	return nil
}
