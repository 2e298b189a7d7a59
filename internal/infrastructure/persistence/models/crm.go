package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/crm"
)

// ContactModel is the persistence model for CRM contacts
type ContactModel struct {
	TenantAggregateModel
	CustomerID     *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_contacts_tenant_customer,priority:2,where:customer_id IS NOT NULL"`
	CompanyName    string          `gorm:"type:varchar(200)"`
	ContactName    string          `gorm:"type:varchar(200)"`
	Email          string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_contacts_tenant_email,priority:2"`
	Phone          string          `gorm:"type:varchar(50)"`
	Country        string          `gorm:"type:varchar(100)"`
	City           string          `gorm:"type:varchar(100)"`
	Stage          string          `gorm:"type:varchar(20);not null;index"`
	TotalOrders    int             `gorm:"not null;default:0"`
	TotalSpent     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastOrderAt    *time.Time
	AssignedUserID *uuid.UUID `gorm:"type:uuid;index"`
	Notes          string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "crm_contacts"
}

// ToDomain converts the persistence model to a domain Contact
func (m *ContactModel) ToDomain() *crm.Contact {
	c := &crm.Contact{
		CustomerID:     m.CustomerID,
		CompanyName:    m.CompanyName,
		ContactName:    m.ContactName,
		Email:          m.Email,
		Phone:          m.Phone,
		Country:        m.Country,
		City:           m.City,
		Stage:          crm.LeadStage(m.Stage),
		TotalOrders:    m.TotalOrders,
		TotalSpent:     m.TotalSpent,
		LastOrderAt:    m.LastOrderAt,
		AssignedUserID: m.AssignedUserID,
		Notes:          m.Notes,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// ContactModelFromDomain creates a persistence model from a domain Contact
func ContactModelFromDomain(c *crm.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.CustomerID = c.CustomerID
	m.CompanyName = c.CompanyName
	m.ContactName = c.ContactName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Country = c.Country
	m.City = c.City
	m.Stage = string(c.Stage)
	m.TotalOrders = c.TotalOrders
	m.TotalSpent = c.TotalSpent
	m.LastOrderAt = c.LastOrderAt
	m.AssignedUserID = c.AssignedUserID
	m.Notes = c.Notes
	return m
}
