package trips

import (
	"context"
	"crypto/hmac"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gatepass-service/internal/events"
	"gatepass-service/pkg/kafka"
	"gatepass-service/pkg/token"
	"gatepass-service/pkg/validation"
)

// Denylist is the revocation store consulted during verification.
type Denylist interface {
	RevokeTrip(ctx context.Context, tripID string, ttl time.Duration) error
	IsTripRevoked(ctx context.Context, tripID string) (bool, error)
}

// VehicleLocations tracks last reported vehicle positions.
type VehicleLocations interface {
	SetVehicleLocation(ctx context.Context, tripID string, lat, lng float64) error
}

// Publisher sends domain events to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

// Renderer turns a token string into scannable image bytes.
type Renderer interface {
	Render(payload string) ([]byte, error)
}

// Broadcaster pushes live location updates to connected watchers.
type Broadcaster interface {
	BroadcastLocation(tripID string, lat, lng float64)
}

// ServiceConfig carries the service's collaborators and settings. All
// secrets arrive here; the service reads nothing ambient.
type ServiceConfig struct {
	Store             Store
	Codec             *token.Codec
	QR                Renderer
	Denylist          Denylist
	Locations         VehicleLocations
	Events            Publisher
	Hub               Broadcaster
	PoliceAccessToken string
	StrictDocDates    bool

	// Now is the clock used for compliance checks and timestamps.
	// Nil means time.Now.
	Now func() time.Time
}

// Service contains gatepass issuance and verification logic.
type Service struct {
	store     Store
	codec     *token.Codec
	qr        Renderer
	denylist  Denylist
	locations VehicleLocations
	events    Publisher
	hub       Broadcaster
	policeKey []byte
	strict    bool
	now       func() time.Time
}

// NewService creates a trip service from its configuration.
func NewService(cfg ServiceConfig) *Service {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		store:     cfg.Store,
		codec:     cfg.Codec,
		qr:        cfg.QR,
		denylist:  cfg.Denylist,
		locations: cfg.Locations,
		events:    cfg.Events,
		hub:       cfg.Hub,
		policeKey: []byte(cfg.PoliceAccessToken),
		strict:    cfg.StrictDocDates,
		now:       now,
	}
}

// Issue validates a creation request, persists the trip, and returns the
// signed gatepass rendered as a QR image. Exactly one trip row is created
// per successful call; a store failure is not retried here.
func (s *Service) Issue(ctx context.Context, req CreateRequest) (*IssueResponse, error) {
	driver := strings.TrimSpace(req.DriverName)
	if !validation.ValidateName(driver) {
		return nil, fmt.Errorf("%w: driver_name is required", ErrBadInput)
	}
	if strings.TrimSpace(req.RouteFrom) == "" || strings.TrimSpace(req.RouteTo) == "" {
		return nil, fmt.Errorf("%w: route_from and route_to are required", ErrBadInput)
	}
	if req.DriverPhone != "" && !validation.ValidatePhone(req.DriverPhone) {
		return nil, fmt.Errorf("%w: driver_phone is not a valid phone number", ErrBadInput)
	}

	plate, err := validation.NormalizePlate(req.VehicleNumber)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadVehicle, err)
	}

	if err := validation.CheckCompliance(complianceDocs(req.Documents), s.now(), s.strict); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExpiredDocument, err)
	}

	trip := &Trip{
		DriverName:    driver,
		DriverPhone:   strings.TrimSpace(req.DriverPhone),
		DriverPhoto:   req.DriverPhoto,
		VehicleNumber: plate,
		RouteFrom:     strings.TrimSpace(req.RouteFrom),
		RouteTo:       strings.TrimSpace(req.RouteTo),
		Documents:     req.Documents,
		Status:        StatusActive,
		TrustScore:    DefaultTrustScore,
		CreatedAt:     s.now(),
	}

	id, err := s.store.Insert(ctx, trip)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	signed, err := s.codec.Encode(id, plate)
	if err != nil {
		return nil, fmt.Errorf("encode gatepass: %w", err)
	}

	png, err := s.qr.Render(signed)
	if err != nil {
		return nil, fmt.Errorf("render gatepass: %w", err)
	}

	s.publish(kafka.TopicGatepassIssued, id, events.GatepassIssuedEvent{
		TripID:        id,
		VehicleNumber: plate,
		RouteFrom:     trip.RouteFrom,
		RouteTo:       trip.RouteTo,
		IssuedAt:      trip.CreatedAt.Format(time.RFC3339),
	})

	return &IssueResponse{
		TripID:   id,
		Token:    signed,
		QRBase64: base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Verify runs the dual-factor gate and live resolution for a scanned
// gatepass. The credential check comes first and is constant-time: a
// caller without the police credential learns nothing about the payload,
// not even whether it parses.
func (s *Service) Verify(ctx context.Context, rawToken, credential string) (*VerifiedView, error) {
	if !hmac.Equal([]byte(credential), s.policeKey) {
		slog.Warn("verification denied", "reason", "bad police credential")
		s.publish(kafka.TopicGatepassDenied, "", events.VerificationDeniedEvent{
			Reason:   "unauthorized",
			DeniedAt: s.now().Format(time.RFC3339),
		})
		return nil, ErrUnauthorized
	}

	claims, err := s.codec.Decode(rawToken)
	if err != nil {
		s.deny("", err)
		return nil, err
	}
	tripID := claims.TripID()

	revoked, err := s.denylist.IsTripRevoked(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if revoked {
		s.deny(tripID, ErrTripRevoked)
		return nil, ErrTripRevoked
	}

	// Live resolution: the token never carries trip data, so a trip
	// removed after issuance fails here even with a valid signature.
	trip, err := s.store.FindByID(ctx, tripID)
	if errors.Is(err, ErrTripNotFound) {
		s.deny(tripID, ErrTripNotFound)
		return nil, ErrTripNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	s.publish(kafka.TopicGatepassVerified, tripID, events.GatepassVerifiedEvent{
		TripID:        tripID,
		VehicleNumber: trip.VehicleNumber,
		VerifiedAt:    s.now().Format(time.RFC3339),
	})

	return s.viewOf(trip), nil
}

// Revoke puts a trip on the denylist for the remainder of any token's
// validity window.
func (s *Service) Revoke(ctx context.Context, tripID string) error {
	_, err := s.store.FindByID(ctx, tripID)
	if errors.Is(err, ErrTripNotFound) {
		return ErrTripNotFound
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if err := s.denylist.RevokeTrip(ctx, tripID, s.codec.TTL); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	slog.Info("trip revoked", "trip_id", tripID)
	return nil
}

// UpdateLocation records a trip's last known position and broadcasts it to
// WebSocket watchers.
func (s *Service) UpdateLocation(ctx context.Context, tripID string, lat, lng float64) error {
	if !validation.ValidateCoordinates(lat, lng) {
		return fmt.Errorf("%w: coordinates out of range", ErrBadInput)
	}
	if err := s.store.UpdateLocation(ctx, tripID, lat, lng); err != nil {
		if errors.Is(err, ErrTripNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if s.locations != nil {
		if err := s.locations.SetVehicleLocation(ctx, tripID, lat, lng); err != nil {
			slog.Warn("geo update failed", "trip_id", tripID, "error", err)
		}
	}
	if s.hub != nil {
		s.hub.BroadcastLocation(tripID, lat, lng)
	}
	return nil
}

// Recent returns the latest issued trips, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]Trip, error) {
	out, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return out, nil
}

// viewOf projects a trip into the reduced shape disclosed to police.
func (s *Service) viewOf(t *Trip) *VerifiedView {
	docs := make([]DocumentStatus, 0, len(t.Documents))
	today := s.now()
	for _, d := range t.Documents {
		status := DocUnknown
		if err := validation.CheckCompliance(
			[]validation.Document{{Name: d.DocName, ExpiryDate: d.ExpiryDate}}, today, true,
		); err == nil {
			status = DocValid
		} else if _, parseErr := time.Parse(validation.DateLayout, d.ExpiryDate); parseErr == nil {
			status = DocExpired
		}
		docs = append(docs, DocumentStatus{Name: d.DocName, Status: status, Expiry: d.ExpiryDate})
	}
	return &VerifiedView{
		Status:    "APPROVED",
		Driver:    t.DriverName,
		Phone:     t.DriverPhone,
		Vehicle:   t.VehicleNumber,
		Route:     fmt.Sprintf("%s ➝ %s", t.RouteFrom, t.RouteTo),
		Documents: docs,
	}
}

func (s *Service) deny(tripID string, cause error) {
	slog.Warn("verification denied", "trip_id", tripID, "reason", denyReason(cause))
	s.publish(kafka.TopicGatepassDenied, tripID, events.VerificationDeniedEvent{
		TripID:   tripID,
		Reason:   denyReason(cause),
		DeniedAt: s.now().Format(time.RFC3339),
	})
}

func denyReason(cause error) string {
	switch {
	case errors.Is(cause, token.ErrMalformed):
		return "token_malformed"
	case errors.Is(cause, token.ErrSignatureInvalid):
		return "token_signature"
	case errors.Is(cause, token.ErrExpired):
		return "token_expired"
	case errors.Is(cause, ErrTripRevoked):
		return "trip_revoked"
	case errors.Is(cause, ErrTripNotFound):
		return "trip_not_found"
	default:
		return "rejected"
	}
}

func (s *Service) publish(topic, key string, ev any) {
	if s.events == nil {
		return
	}
	// Fire-and-forget: event delivery never blocks or fails a request.
	go func() {
		if err := s.events.Publish(context.Background(), topic, key, ev); err != nil {
			slog.Warn("event publish failed", "topic", topic, "error", err)
		}
	}()
}

func complianceDocs(in []ComplianceDocument) []validation.Document {
	out := make([]validation.Document, len(in))
	for i, d := range in {
		out[i] = validation.Document{Name: d.DocName, ExpiryDate: d.ExpiryDate}
	}
	return out
}
