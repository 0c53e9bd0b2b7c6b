package trips

import "time"

// StatusActive is the lifecycle status assigned at creation. Expiry and
// revocation are derived at verification time (token exp, denylist), not
// persisted transitions.
const StatusActive = "ACTIVE"

// DefaultTrustScore is the ceiling score assigned to every new trip.
// External processes adjust it downward; this service only initializes it.
const DefaultTrustScore = 100

// Document compliance states reported in the verified view.
const (
	DocValid   = "VALID"
	DocExpired = "EXPIRED"
	DocUnknown = "UNKNOWN"
)

// ComplianceDocument is one document declared on a trip.
type ComplianceDocument struct {
	DocName    string `json:"doc_name"`
	ExpiryDate string `json:"expiry_date"` // YYYY-MM-DD
}

// Trip represents one authorized vehicle movement.
type Trip struct {
	ID            string               `json:"id"`
	DriverName    string               `json:"driver_name"`
	DriverPhone   string               `json:"driver_phone"`
	DriverPhoto   *string              `json:"driver_photo,omitempty"`
	VehicleNumber string               `json:"vehicle_number"`
	RouteFrom     string               `json:"route_from"`
	RouteTo       string               `json:"route_to"`
	Documents     []ComplianceDocument `json:"documents"`
	Status        string               `json:"status"`
	TrustScore    int                  `json:"trust_score"`
	LastLat       float64              `json:"last_lat"`
	LastLng       float64              `json:"last_lng"`
	CreatedAt     time.Time            `json:"created_at"`
}

// CreateRequest is the body for POST /trips.
type CreateRequest struct {
	DriverName    string               `json:"driver_name"`
	DriverPhone   string               `json:"driver_phone"`
	DriverPhoto   *string              `json:"driver_photo,omitempty"`
	VehicleNumber string               `json:"vehicle_number"`
	RouteFrom     string               `json:"route_from"`
	RouteTo       string               `json:"route_to"`
	Documents     []ComplianceDocument `json:"documents"`
}

// IssueResponse is returned on successful trip creation. The QR image's
// payload is the token string.
type IssueResponse struct {
	TripID   string `json:"trip_id"`
	Token    string `json:"token"`
	QRBase64 string `json:"qr_base64"`
}

// VerifyRequest is the body for POST /verify.
type VerifyRequest struct {
	Token string `json:"token"`
}

// DocumentStatus is one document's compliance summary in the verified view.
type DocumentStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Expiry string `json:"expiry"`
}

// VerifiedView is the sanitized projection returned to police on a
// successful scan. Deliberately not the raw store record.
type VerifiedView struct {
	Status    string           `json:"status"`
	Driver    string           `json:"driver"`
	Phone     string           `json:"phone,omitempty"`
	Vehicle   string           `json:"vehicle"`
	Route     string           `json:"route"`
	Documents []DocumentStatus `json:"documents"`
}

// LocationRequest is the body for POST /trips/{id}/location.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
