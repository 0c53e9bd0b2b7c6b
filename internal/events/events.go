package events

// GatepassIssuedEvent is published to gatepass.issued when a trip is
// registered and its QR gatepass generated. Downstream consumers notify the
// driver (the SMS/app channel lives outside this service).
type GatepassIssuedEvent struct {
	TripID        string `json:"trip_id"`
	VehicleNumber string `json:"vehicle_number"`
	RouteFrom     string `json:"route_from"`
	RouteTo       string `json:"route_to"`
	IssuedAt      string `json:"issued_at"`
}

// GatepassVerifiedEvent is published to gatepass.verified on a successful
// police scan.
type GatepassVerifiedEvent struct {
	TripID        string `json:"trip_id"`
	VehicleNumber string `json:"vehicle_number"`
	VerifiedAt    string `json:"verified_at"`
}

// VerificationDeniedEvent is published to gatepass.denied when a scan is
// rejected. TripID is empty when the rejection happened before a trip could
// be identified (bad credential, unverifiable token).
type VerificationDeniedEvent struct {
	TripID   string `json:"trip_id,omitempty"`
	Reason   string `json:"reason"`
	DeniedAt string `json:"denied_at"`
}
