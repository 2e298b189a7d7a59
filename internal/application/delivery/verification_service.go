package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	orderapp "github.com/momtazchem/backend/internal/application/order"
	"github.com/momtazchem/backend/internal/domain/delivery"
	orderdomain "github.com/momtazchem/backend/internal/domain/order"
	"github.com/momtazchem/backend/internal/domain/shared"
)

// DropPointResolver returns the recorded delivery destination for an order,
// or shared.ErrNotFound when none was captured at checkout.
type DropPointResolver interface {
	FindDropPoint(ctx context.Context, tenantID, orderID uuid.UUID) (*delivery.Location, error)
}

// StatusApplier applies a department action to an order. Satisfied by the
// order status synchronization service.
type StatusApplier interface {
	Apply(ctx context.Context, tenantID uuid.UUID, action orderdomain.DepartmentAction, req orderapp.DepartmentActionRequest, actorID uuid.UUID) (*orderapp.ActionResponse, error)
}

// VerifyRequest is a courier's GPS-stamped delivery confirmation
type VerifyRequest struct {
	OrderNumber string  `json:"order_number" binding:"required"`
	Latitude    float64 `json:"latitude" binding:"required"`
	Longitude   float64 `json:"longitude" binding:"required"`
}

// VerifyResponse reports the outcome of a confirmation attempt
type VerifyResponse struct {
	Result         string    `json:"result"`
	DistanceMeters float64   `json:"distance_meters"`
	Delivered      bool      `json:"delivered"`
	VerifiedAt     time.Time `json:"verified_at"`
}

// VerificationService checks courier GPS confirmations against the order's
// recorded drop point and, on acceptance, completes the delivery through the
// regular logistics action.
type VerificationService struct {
	orderRepo    orderdomain.Repository
	verifRepo    delivery.VerificationRepository
	dropPoints   DropPointResolver
	statuses     StatusApplier
	radiusMeters float64
	clock        shared.Clock
	logger       *zap.Logger
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(
	orderRepo orderdomain.Repository,
	verifRepo delivery.VerificationRepository,
	dropPoints DropPointResolver,
	statuses StatusApplier,
	radiusMeters float64,
	clock shared.Clock,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		orderRepo:    orderRepo,
		verifRepo:    verifRepo,
		dropPoints:   dropPoints,
		statuses:     statuses,
		radiusMeters: radiusMeters,
		clock:        clock,
		logger:       logger,
	}
}

// VerifyDelivery records a courier confirmation. Accepted confirmations
// (including orders with no recorded drop point) complete the delivery;
// out-of-range attempts are stored for dispatch review and the order is
// left untouched.
func (s *VerificationService) VerifyDelivery(ctx context.Context, tenantID, courierID uuid.UUID, req VerifyRequest) (*VerifyResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, req.OrderNumber)
	if err != nil {
		return nil, err
	}

	destination, err := s.dropPoints.FindDropPoint(ctx, tenantID, o.Customer.ID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	reported := delivery.Location{Latitude: req.Latitude, Longitude: req.Longitude}
	verification, err := delivery.Verify(tenantID, o.Customer.ID, courierID, reported, destination, s.radiusMeters, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.verifRepo.Create(ctx, verification); err != nil {
		return nil, err
	}

	resp := &VerifyResponse{
		Result:         string(verification.Result),
		DistanceMeters: verification.DistanceMeters,
		VerifiedAt:     verification.VerifiedAt,
	}

	if !verification.Accepted() {
		s.logger.Warn("delivery confirmation out of range",
			zap.String("order_number", req.OrderNumber),
			zap.String("courier_id", courierID.String()),
			zap.Float64("distance_meters", verification.DistanceMeters))
		return resp, nil
	}

	notes := fmt.Sprintf("GPS confirmed at %.5f,%.5f (%s)", req.Latitude, req.Longitude, verification.Result)
	if _, err := s.statuses.Apply(ctx, tenantID, orderdomain.ActionLogisticsDeliver, orderapp.DepartmentActionRequest{
		OrderNumber: req.OrderNumber,
		Notes:       notes,
	}, courierID); err != nil {
		return nil, err
	}
	resp.Delivered = true
	return resp, nil
}

// History returns the confirmation attempts recorded for an order
func (s *VerificationService) History(ctx context.Context, tenantID, orderID uuid.UUID) ([]*delivery.Verification, error) {
	return s.verifRepo.FindByOrder(ctx, tenantID, orderID)
}
