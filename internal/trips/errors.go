package trips

import "errors"

// Sentinel errors returned by the trip service. Handlers map each to a
// distinct status and machine-readable code; wrapping adds detail without
// changing identity (use errors.Is).
var (
	// ErrBadInput marks a malformed or incomplete creation request.
	ErrBadInput = errors.New("bad input")

	// ErrBadVehicle marks a vehicle number that fails the plate grammar.
	ErrBadVehicle = errors.New("invalid vehicle number")

	// ErrExpiredDocument marks a creation request carrying an already
	// expired compliance document. The wrapped message names the document.
	ErrExpiredDocument = errors.New("expired document")

	// ErrUnauthorized marks a verification attempt without the police
	// credential. Callers receiving it learn nothing about the token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTripNotFound marks a trip id with no live record.
	ErrTripNotFound = errors.New("trip not found")

	// ErrTripRevoked marks a trip on the revocation denylist.
	ErrTripRevoked = errors.New("trip revoked")

	// ErrStoreUnavailable marks an infrastructure failure. Safe for the
	// caller to retry with backoff; never retried here.
	ErrStoreUnavailable = errors.New("store unavailable")
)
