package crm

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/shared"
)

// LeadStage tracks where a contact sits in the sales funnel
type LeadStage string

const (
	StageLead      LeadStage = "lead"
	StageQualified LeadStage = "qualified"
	StageCustomer  LeadStage = "customer"
	StageInactive  LeadStage = "inactive"
)

// Contact is a CRM record for a customer or prospect. Order activity
// feeds the purchase aggregates on this record.
type Contact struct {
	shared.TenantAggregateRoot
	CustomerID     *uuid.UUID
	CompanyName    string
	ContactName    string
	Email          string
	Phone          string
	Country        string
	City           string
	Stage          LeadStage
	TotalOrders    int
	TotalSpent     decimal.Decimal
	LastOrderAt    *time.Time
	AssignedUserID *uuid.UUID
	Notes          string
}

// NewContact creates a lead-stage contact
func NewContact(tenantID uuid.UUID, companyName, contactName, email string) (*Contact, error) {
	if companyName == "" && contactName == "" {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact requires a company or person name")
	}
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Contact email cannot be empty")
	}

	return &Contact{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyName:         companyName,
		ContactName:         contactName,
		Email:               email,
		Stage:               StageLead,
		TotalSpent:          decimal.Zero,
	}, nil
}

// RecordOrder updates the purchase aggregates and promotes the contact
// to customer stage on first purchase.
func (c *Contact) RecordOrder(amount decimal.Decimal, at time.Time) {
	c.TotalOrders++
	c.TotalSpent = c.TotalSpent.Add(amount)
	c.LastOrderAt = &at
	if c.Stage == StageLead || c.Stage == StageQualified {
		c.Stage = StageCustomer
	}
	c.UpdatedAt = time.Now()
}

// Qualify moves a lead forward in the funnel
func (c *Contact) Qualify() error {
	if c.Stage != StageLead {
		return shared.NewDomainError("INVALID_STAGE", "Only leads can be qualified")
	}
	c.Stage = StageQualified
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate marks the contact dormant
func (c *Contact) Deactivate() {
	c.Stage = StageInactive
	c.UpdatedAt = time.Now()
}

// ContactRepository persists CRM contacts
type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	Save(ctx context.Context, c *Contact) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Contact, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Contact, error)
	FindByCustomerID(ctx context.Context, tenantID, customerID uuid.UUID) (*Contact, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]*Contact, int64, error)
}
