package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/delivery"
)

// DeliveryVerificationModel is the persistence model for courier GPS
// confirmations. Rows are append-only.
type DeliveryVerificationModel struct {
	BaseModel
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CourierID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Latitude       float64   `gorm:"not null"`
	Longitude      float64   `gorm:"not null"`
	DestLatitude   *float64
	DestLongitude  *float64
	DistanceMeters float64   `gorm:"not null;default:0"`
	Result         string    `gorm:"type:varchar(20);not null"`
	VerifiedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeliveryVerificationModel) TableName() string {
	return "delivery_verifications"
}

// ToDomain converts the persistence model to a domain Verification
func (m *DeliveryVerificationModel) ToDomain() *delivery.Verification {
	v := &delivery.Verification{
		BaseEntity:     m.BaseModel.ToDomain(),
		TenantID:       m.TenantID,
		OrderID:        m.OrderID,
		CourierID:      m.CourierID,
		Reported:       delivery.Location{Latitude: m.Latitude, Longitude: m.Longitude},
		DistanceMeters: m.DistanceMeters,
		Result:         delivery.VerificationResult(m.Result),
		VerifiedAt:     m.VerifiedAt,
	}
	if m.DestLatitude != nil && m.DestLongitude != nil {
		v.Destination = &delivery.Location{Latitude: *m.DestLatitude, Longitude: *m.DestLongitude}
	}
	return v
}

// DeliveryVerificationModelFromDomain creates a persistence model from a domain Verification
func DeliveryVerificationModelFromDomain(v *delivery.Verification) *DeliveryVerificationModel {
	m := &DeliveryVerificationModel{}
	m.FromDomainBaseEntity(v.BaseEntity)
	m.TenantID = v.TenantID
	m.OrderID = v.OrderID
	m.CourierID = v.CourierID
	m.Latitude = v.Reported.Latitude
	m.Longitude = v.Reported.Longitude
	if v.Destination != nil {
		lat, lng := v.Destination.Latitude, v.Destination.Longitude
		m.DestLatitude = &lat
		m.DestLongitude = &lng
	}
	m.DistanceMeters = v.DistanceMeters
	m.Result = string(v.Result)
	m.VerifiedAt = v.VerifiedAt
	return m
}

// DropPointModel stores the delivery destination captured at checkout
type DropPointModel struct {
	BaseModel
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
	Address   string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DropPointModel) TableName() string {
	return "delivery_drop_points"
}
