package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/momtazchem/backend/internal/domain/order"
)

// CustomerOrderModel is the persistence model for the customer order
// projection. OrderNumber is nullable because bank-gateway orders exist
// without a number until the payment callback confirms.
type CustomerOrderModel struct {
	TenantAggregateModel
	OrderNumber   *string         `gorm:"type:varchar(20);uniqueIndex:idx_customer_orders_tenant_number,priority:2,where:order_number IS NOT NULL"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaymentMethod string          `gorm:"type:varchar(20);not null"`
	PaymentStatus string          `gorm:"type:varchar(20);not null"`
	Status        string          `gorm:"type:varchar(30);not null;index"`
}

// TableName returns the table name for GORM
func (CustomerOrderModel) TableName() string {
	return "customer_orders"
}

// ToDomain converts the persistence model to a domain CustomerOrder
func (m *CustomerOrderModel) ToDomain() *order.CustomerOrder {
	o := &order.CustomerOrder{
		CustomerID:    m.CustomerID,
		TotalAmount:   m.TotalAmount,
		PaymentMethod: order.PaymentMethod(m.PaymentMethod),
		PaymentStatus: order.PaymentStatus(m.PaymentStatus),
		Status:        order.CustomerStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&o.TenantAggregateRoot)
	if m.OrderNumber != nil {
		o.OrderNumber = *m.OrderNumber
	}
	return o
}

// FromDomain populates the persistence model from a domain CustomerOrder
func (m *CustomerOrderModel) FromDomain(o *order.CustomerOrder) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	if o.OrderNumber != "" {
		n := o.OrderNumber
		m.OrderNumber = &n
	} else {
		m.OrderNumber = nil
	}
	m.CustomerID = o.CustomerID
	m.TotalAmount = o.TotalAmount
	m.PaymentMethod = string(o.PaymentMethod)
	m.PaymentStatus = string(o.PaymentStatus)
	m.Status = string(o.Status)
}

// CustomerOrderModelFromDomain creates a persistence model from a domain CustomerOrder
func CustomerOrderModelFromDomain(o *order.CustomerOrder) *CustomerOrderModel {
	m := &CustomerOrderModel{}
	m.FromDomain(o)
	return m
}

// OrderManagementModel is the persistence model for the department workflow
// record, one-to-one with a customer order row.
type OrderManagementModel struct {
	BaseModel
	CustomerOrderID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	TenantID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrentStatus      string          `gorm:"type:varchar(30);not null;index"`
	PaymentMethod      string          `gorm:"type:varchar(20);not null"`
	PaymentSourceLabel string          `gorm:"type:varchar(100)"`
	WalletAmountUsed   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	BankAmountPaid     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`

	AutoApprovalScheduledAt *time.Time `gorm:"index"`
	AutoApprovalExecutedAt  *time.Time
	IsAutoApprovalEnabled   bool `gorm:"not null;default:false"`

	FinancialReviewerID *uuid.UUID `gorm:"type:uuid"`
	FinancialReviewedAt *time.Time
	FinancialNotes      string `gorm:"type:text"`

	WarehouseAssigneeID  *uuid.UUID `gorm:"type:uuid"`
	WarehouseProcessedAt *time.Time

	LogisticsAssigneeID  *uuid.UUID `gorm:"type:uuid"`
	LogisticsProcessedAt *time.Time
}

// TableName returns the table name for GORM
func (OrderManagementModel) TableName() string {
	return "order_management"
}

// ToDomain converts the persistence model to a domain Management record
func (m *OrderManagementModel) ToDomain() *order.Management {
	return &order.Management{
		BaseEntity:              m.BaseModel.ToDomain(),
		CustomerOrderID:         m.CustomerOrderID,
		TenantID:                m.TenantID,
		CurrentStatus:           order.ManagementStatus(m.CurrentStatus),
		PaymentMethod:           order.PaymentMethod(m.PaymentMethod),
		PaymentSourceLabel:      m.PaymentSourceLabel,
		WalletAmountUsed:        m.WalletAmountUsed,
		BankAmountPaid:          m.BankAmountPaid,
		AutoApprovalScheduledAt: m.AutoApprovalScheduledAt,
		AutoApprovalExecutedAt:  m.AutoApprovalExecutedAt,
		IsAutoApprovalEnabled:   m.IsAutoApprovalEnabled,
		FinancialReviewerID:     m.FinancialReviewerID,
		FinancialReviewedAt:     m.FinancialReviewedAt,
		FinancialNotes:          m.FinancialNotes,
		WarehouseAssigneeID:     m.WarehouseAssigneeID,
		WarehouseProcessedAt:    m.WarehouseProcessedAt,
		LogisticsAssigneeID:     m.LogisticsAssigneeID,
		LogisticsProcessedAt:    m.LogisticsProcessedAt,
	}
}

// FromDomain populates the persistence model from a domain Management record
func (m *OrderManagementModel) FromDomain(mgmt *order.Management) {
	m.FromDomainBaseEntity(mgmt.BaseEntity)
	m.CustomerOrderID = mgmt.CustomerOrderID
	m.TenantID = mgmt.TenantID
	m.CurrentStatus = string(mgmt.CurrentStatus)
	m.PaymentMethod = string(mgmt.PaymentMethod)
	m.PaymentSourceLabel = mgmt.PaymentSourceLabel
	m.WalletAmountUsed = mgmt.WalletAmountUsed
	m.BankAmountPaid = mgmt.BankAmountPaid
	m.AutoApprovalScheduledAt = mgmt.AutoApprovalScheduledAt
	m.AutoApprovalExecutedAt = mgmt.AutoApprovalExecutedAt
	m.IsAutoApprovalEnabled = mgmt.IsAutoApprovalEnabled
	m.FinancialReviewerID = mgmt.FinancialReviewerID
	m.FinancialReviewedAt = mgmt.FinancialReviewedAt
	m.FinancialNotes = mgmt.FinancialNotes
	m.WarehouseAssigneeID = mgmt.WarehouseAssigneeID
	m.WarehouseProcessedAt = mgmt.WarehouseProcessedAt
	m.LogisticsAssigneeID = mgmt.LogisticsAssigneeID
	m.LogisticsProcessedAt = mgmt.LogisticsProcessedAt
}

// OrderManagementModelFromDomain creates a persistence model from a domain Management record
func OrderManagementModelFromDomain(mgmt *order.Management) *OrderManagementModel {
	m := &OrderManagementModel{}
	m.FromDomain(mgmt)
	return m
}

// OrderNumberCounterModel is the per-year order number sequence row
type OrderNumberCounterModel struct {
	Year    int `gorm:"primaryKey"`
	Counter int `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderNumberCounterModel) TableName() string {
	return "order_number_counters"
}

// ToDomain converts the persistence model to a domain NumberCounter
func (m *OrderNumberCounterModel) ToDomain() order.NumberCounter {
	return order.NumberCounter{Year: m.Year, Counter: m.Counter}
}
