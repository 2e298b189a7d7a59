package delivery

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/momtazchem/backend/internal/domain/shared"
)

const earthRadiusMeters = 6371000.0

// DefaultRadiusMeters is the acceptance radius for a delivery confirmation
// when the tenant has not configured one.
const DefaultRadiusMeters = 500.0

// Location is a WGS84 coordinate pair
type Location struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether the coordinates are in range
func (l Location) Valid() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// DistanceMeters returns the great-circle distance to another location
// using the haversine formula.
func (l Location) DistanceMeters(other Location) float64 {
	lat1 := l.Latitude * math.Pi / 180
	lat2 := other.Latitude * math.Pi / 180
	dLat := (other.Latitude - l.Latitude) * math.Pi / 180
	dLon := (other.Longitude - l.Longitude) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// VerificationResult classifies a delivery confirmation attempt
type VerificationResult string

const (
	VerificationAccepted    VerificationResult = "accepted"
	VerificationOutOfRange  VerificationResult = "out_of_range"
	VerificationNoReference VerificationResult = "no_reference"
)

// Verification records a courier's GPS-stamped delivery confirmation
// for an order.
type Verification struct {
	shared.BaseEntity
	TenantID       uuid.UUID
	OrderID        uuid.UUID
	CourierID      uuid.UUID
	Reported       Location
	Destination    *Location
	DistanceMeters float64
	Result         VerificationResult
	VerifiedAt     time.Time
}

// Verify checks a reported courier position against the order's
// destination. Orders without a stored destination are accepted but
// flagged so dispatch can review them.
func Verify(tenantID, orderID, courierID uuid.UUID, reported Location, destination *Location, radiusMeters float64, now time.Time) (*Verification, error) {
	if !reported.Valid() {
		return nil, shared.NewDomainError("INVALID_COORDINATES", "Reported coordinates are out of range")
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}

	v := &Verification{
		BaseEntity:  shared.NewBaseEntity(),
		TenantID:    tenantID,
		OrderID:     orderID,
		CourierID:   courierID,
		Reported:    reported,
		Destination: destination,
		VerifiedAt:  now,
	}

	if destination == nil || !destination.Valid() {
		v.Result = VerificationNoReference
		return v, nil
	}

	v.DistanceMeters = reported.DistanceMeters(*destination)
	if v.DistanceMeters <= radiusMeters {
		v.Result = VerificationAccepted
	} else {
		v.Result = VerificationOutOfRange
	}
	return v, nil
}

// Accepted reports whether the confirmation may complete the delivery
func (v *Verification) Accepted() bool {
	return v.Result == VerificationAccepted || v.Result == VerificationNoReference
}

// VerificationRepository persists delivery confirmations
type VerificationRepository interface {
	Create(ctx context.Context, v *Verification) error
	FindByOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]*Verification, error)
}
